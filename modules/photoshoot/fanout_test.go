package photoshoot

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"sync"
	"testing"
	"time"

	"pixshoot-server/modules/provider"
)

// fakeGenerator - 브랜치 인덱스(seed 기반)로 성공/실패를 결정하는 생성기
type fakeGenerator struct {
	mu         sync.Mutex
	requests   []provider.Request
	failSeeds  map[int64]bool
	inFlight   int
	maxObseved int
	output     func(req provider.Request) interface{}
}

func (g *fakeGenerator) Generate(ctx context.Context, req provider.Request) (interface{}, error) {
	g.mu.Lock()
	g.requests = append(g.requests, req)
	g.inFlight++
	if g.inFlight > g.maxObseved {
		g.maxObseved = g.inFlight
	}
	g.mu.Unlock()

	time.Sleep(5 * time.Millisecond)

	g.mu.Lock()
	g.inFlight--
	g.mu.Unlock()

	if g.failSeeds[req.Seed] {
		return nil, fmt.Errorf("synthetic branch failure")
	}

	if g.output != nil {
		return g.output(req), nil
	}
	return fmt.Sprintf("https://provider.example/seed-%d.png", req.Seed), nil
}

// fakeUploader - 업로드를 기록하는 저장소
type fakeUploader struct {
	mu        sync.Mutex
	uploads   map[string][]byte
	deleted   []string
	downErr   error
	deleteErr error
	download  []byte
}

func newFakeUploader() *fakeUploader {
	return &fakeUploader{
		uploads:  make(map[string][]byte),
		download: []byte("downloaded-image-bytes"),
	}
}

func (u *fakeUploader) DownloadImage(ctx context.Context, imageURL string) ([]byte, error) {
	if u.downErr != nil {
		return nil, u.downErr
	}
	return u.download, nil
}

func (u *fakeUploader) UploadImage(ctx context.Context, imageData []byte, objectKey string) (string, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.uploads[objectKey] = imageData
	return "https://cdn.example/" + objectKey, nil
}

func (u *fakeUploader) DeleteObject(ctx context.Context, objectKey string) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.deleteErr != nil {
		return u.deleteErr
	}
	delete(u.uploads, objectKey)
	u.deleted = append(u.deleted, objectKey)
	return nil
}

func (u *fakeUploader) ThumbnailURL(objectKey string) string {
	return "https://cdn.example/thumb/" + objectKey
}

// fakePublisher - 발행된 이벤트 수집
type fakePublisher struct {
	mu     sync.Mutex
	events []interface{}
}

func (p *fakePublisher) Publish(topic string, payload interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, payload)
}

func (p *fakePublisher) branchEvents(eventType string) []BranchEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []BranchEvent
	for _, e := range p.events {
		if be, ok := e.(BranchEvent); ok && be.Type == eventType {
			out = append(out, be)
		}
	}
	return out
}

func testParams(n int) FanoutParams {
	prompts := make([]string, n)
	for i := range prompts {
		prompts[i] = fmt.Sprintf("prompt number %d", i)
	}
	return FanoutParams{
		PhotoshootID:    "ps-123",
		Prompts:         prompts,
		BaseSeed:        1000,
		RunID:           "deadbeef",
		ReferenceImages: []string{"https://cdn.example/product.png"},
		ReferenceTags:   []string{"product-a"},
	}
}

func TestFanoutPartialFailure(t *testing.T) {
	// 브랜치 1, 2 실패 (seed 1001, 1002)
	gen := &fakeGenerator{failSeeds: map[int64]bool{1001: true, 1002: true}}
	uploader := newFakeUploader()
	pub := &fakePublisher{}

	f := NewFanout(gen, uploader, pub, 2, time.Second)
	results := f.Run(context.Background(), testParams(5))

	if len(results) != 5 {
		t.Fatalf("expected 5 results, got %d", len(results))
	}

	for i, r := range results {
		if r.Index != i+1 {
			t.Errorf("result %d has branch index %d, want %d", i, r.Index, i+1)
		}
	}

	for _, i := range []int{0, 1} {
		if results[i].Err == nil {
			t.Errorf("branch %d should have failed", i+1)
		}
	}
	for _, i := range []int{2, 3, 4} {
		branch := i + 1
		if results[i].Err != nil {
			t.Errorf("branch %d should have succeeded: %v", branch, results[i].Err)
		}
		if results[i].Image == nil {
			t.Fatalf("branch %d missing image", branch)
		}
		wantKey := fmt.Sprintf("ps-123/gen-deadbeef/branch-%d.webp", branch)
		if results[i].Image.URL != "https://cdn.example/"+wantKey {
			t.Errorf("branch %d unexpected URL: %s", branch, results[i].Image.URL)
		}
		if results[i].Image.ObjectKey != wantKey {
			t.Errorf("branch %d unexpected object key: %s", branch, results[i].Image.ObjectKey)
		}
		if results[i].Image.Seed != 1000+int64(branch) {
			t.Errorf("branch %d unexpected seed: %d", branch, results[i].Image.Seed)
		}
	}

	if got := len(pub.branchEvents("branch_failed")); got != 2 {
		t.Errorf("expected 2 branch_failed events, got %d", got)
	}
	if got := len(pub.branchEvents("branch_completed")); got != 3 {
		t.Errorf("expected 3 branch_completed events, got %d", got)
	}
	if got := len(pub.branchEvents("branch_started")); got != 5 {
		t.Errorf("expected 5 branch_started events, got %d", got)
	}
}

func TestFanoutSeedPerBranch(t *testing.T) {
	gen := &fakeGenerator{}
	f := NewFanout(gen, newFakeUploader(), nil, 5, time.Second)
	f.Run(context.Background(), testParams(5))

	seen := make(map[int64]bool)
	for _, req := range gen.requests {
		seen[req.Seed] = true
	}
	for i := int64(1); i <= 5; i++ {
		if !seen[1000+i] {
			t.Errorf("seed %d not used", 1000+i)
		}
	}
}

func TestFanoutConcurrencyBound(t *testing.T) {
	gen := &fakeGenerator{}
	f := NewFanout(gen, newFakeUploader(), nil, 2, time.Second)
	f.Run(context.Background(), testParams(5))

	if gen.maxObseved > 2 {
		t.Errorf("concurrency bound violated: observed %d in flight", gen.maxObseved)
	}
}

func TestFanoutDataURLMaterialized(t *testing.T) {
	raw := []byte{0x89, 0x50, 0x4e, 0x47, 0x01, 0x02}
	gen := &fakeGenerator{
		output: func(req provider.Request) interface{} {
			return "data:image/png;base64," + base64.StdEncoding.EncodeToString(raw)
		},
	}
	uploader := newFakeUploader()

	f := NewFanout(gen, uploader, nil, 1, time.Second)
	results := f.Run(context.Background(), testParams(1))

	if results[0].Err != nil {
		t.Fatalf("branch failed: %v", results[0].Err)
	}
	uploaded := uploader.uploads["ps-123/gen-deadbeef/branch-1.webp"]
	if !bytes.Equal(uploaded, raw) {
		t.Errorf("uploaded bytes do not match decoded data URL: %v", uploaded)
	}
}

func TestFanoutHTTPURLDownloaded(t *testing.T) {
	gen := &fakeGenerator{}
	uploader := newFakeUploader()

	f := NewFanout(gen, uploader, nil, 1, time.Second)
	results := f.Run(context.Background(), testParams(1))

	if results[0].Err != nil {
		t.Fatalf("branch failed: %v", results[0].Err)
	}
	uploaded := uploader.uploads["ps-123/gen-deadbeef/branch-1.webp"]
	if !bytes.Equal(uploaded, uploader.download) {
		t.Errorf("uploaded bytes do not match downloaded image")
	}
}

func TestFanoutStructuredOutput(t *testing.T) {
	gen := &fakeGenerator{
		output: func(req provider.Request) interface{} {
			return &fakeObjectOutput{url: "https://provider.example/structured.png"}
		},
	}
	uploader := newFakeUploader()

	f := NewFanout(gen, uploader, nil, 1, time.Second)
	results := f.Run(context.Background(), testParams(1))

	if results[0].Err != nil {
		t.Fatalf("structured output branch failed: %v", results[0].Err)
	}
}

func TestFanoutInvalidOutputFailsBranch(t *testing.T) {
	gen := &fakeGenerator{
		output: func(req provider.Request) interface{} {
			return 12345
		},
	}

	f := NewFanout(gen, newFakeUploader(), nil, 1, time.Second)
	results := f.Run(context.Background(), testParams(1))

	if results[0].Err == nil {
		t.Fatal("expected branch failure for invalid output")
	}
}
