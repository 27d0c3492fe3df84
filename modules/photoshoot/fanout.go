package photoshoot

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"pixshoot-server/modules/provider"
)

// Uploader - 생성 결과를 영구 저장소로 옮기는 계약
type Uploader interface {
	DownloadImage(ctx context.Context, imageURL string) ([]byte, error)
	UploadImage(ctx context.Context, imageData []byte, objectKey string) (string, error)
	DeleteObject(ctx context.Context, objectKey string) error
	ThumbnailURL(objectKey string) string
}

// Publisher - 브랜치 진행 이벤트 발행 계약
type Publisher interface {
	Publish(topic string, payload interface{})
}

// BranchEvent - 진행 스트림으로 발행되는 브랜치 이벤트
type BranchEvent struct {
	Type        string `json:"type"` // branch_started | branch_completed | branch_failed
	BranchIndex int    `json:"branch_index"`
	ImageURL    string `json:"image_url,omitempty"`
	Error       string `json:"error,omitempty"`
}

// BranchResult - 브랜치 하나의 결과
// Index는 1..N 제출 순서 번호로, 재생성 런 내에서도 안정적이다.
type BranchResult struct {
	Index int
	Image *GeneratedImageDraft
	Err   error
}

// GeneratedImageDraft - 저장 전의 브랜치 성공 결과
type GeneratedImageDraft struct {
	URL          string
	ThumbnailURL string
	ObjectKey    string
	Prompt       string
	Seed         int64
}

// FanoutParams - 팬아웃 실행 파라미터
type FanoutParams struct {
	PhotoshootID    string
	Prompts         []string
	BaseSeed        int64
	RunID           string
	ReferenceImages []string
	ReferenceTags   []string
}

// Fanout - 프롬프트 N개를 병렬 브랜치로 실행하는 엔진
// 브랜치는 서로 격리된다: 한 브랜치의 실패가 다른 브랜치를 중단시키지 않는다.
type Fanout struct {
	generator     provider.Generator
	uploader      Uploader
	publisher     Publisher
	maxConcurrent int64
	branchTimeout time.Duration
}

func NewFanout(generator provider.Generator, uploader Uploader, publisher Publisher, maxConcurrent int, branchTimeout time.Duration) *Fanout {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &Fanout{
		generator:     generator,
		uploader:      uploader,
		publisher:     publisher,
		maxConcurrent: int64(maxConcurrent),
		branchTimeout: branchTimeout,
	}
}

// Run - 모든 브랜치를 실행하고 전부 끝날 때까지 대기
// 결과 슬라이스는 브랜치 인덱스로 정렬되어 있고, 성공 중 가장 낮은
// 인덱스에 primary 후보가 돌아간다 (표시는 호출자 책임).
func (f *Fanout) Run(ctx context.Context, p FanoutParams) []BranchResult {
	results := make([]BranchResult, len(p.Prompts))

	sem := semaphore.NewWeighted(f.maxConcurrent)
	var wg sync.WaitGroup

	log.Printf("🚀 [Fanout] Starting %d branches (max concurrent: %d) for photoshoot %s",
		len(p.Prompts), f.maxConcurrent, p.PhotoshootID)

	for i, prompt := range p.Prompts {
		wg.Add(1)
		// 브랜치 번호는 1부터 시작
		go func(slot, branch int, branchPrompt string) {
			defer wg.Done()

			results[slot] = BranchResult{Index: branch}

			if err := sem.Acquire(ctx, 1); err != nil {
				results[slot].Err = fmt.Errorf("branch %d cancelled before start: %w", branch, err)
				f.publishEvent(p.PhotoshootID, BranchEvent{
					Type: "branch_failed", BranchIndex: branch, Error: results[slot].Err.Error(),
				})
				return
			}
			defer sem.Release(1)

			f.publishEvent(p.PhotoshootID, BranchEvent{Type: "branch_started", BranchIndex: branch})

			branchCtx, cancel := context.WithTimeout(ctx, f.branchTimeout)
			defer cancel()

			draft, err := f.runBranch(branchCtx, p, branch, branchPrompt)
			if err != nil {
				log.Printf("❌ [Fanout] Branch %d failed: %v", branch, err)
				results[slot].Err = err
				f.publishEvent(p.PhotoshootID, BranchEvent{
					Type: "branch_failed", BranchIndex: branch, Error: err.Error(),
				})
				return
			}

			log.Printf("✅ [Fanout] Branch %d completed: %s", branch, draft.URL)
			results[slot].Image = draft
			f.publishEvent(p.PhotoshootID, BranchEvent{
				Type: "branch_completed", BranchIndex: branch, ImageURL: draft.URL,
			})
		}(i, i+1, prompt)
	}

	wg.Wait()

	succeeded := 0
	for _, r := range results {
		if r.Err == nil && r.Image != nil {
			succeeded++
		}
	}
	log.Printf("🏁 [Fanout] All branches joined: %d/%d succeeded", succeeded, len(p.Prompts))

	return results
}

// runBranch - 브랜치 하나: 생성 → 정규화 → 저장소 업로드
func (f *Fanout) runBranch(ctx context.Context, p FanoutParams, branch int, prompt string) (*GeneratedImageDraft, error) {
	seed := p.BaseSeed + int64(branch)

	output, err := f.generator.Generate(ctx, provider.Request{
		Prompt:          prompt,
		Seed:            seed,
		ReferenceImages: p.ReferenceImages,
		ReferenceTags:   p.ReferenceTags,
		AspectRatio:     "1:1",
	})
	if err != nil {
		return nil, fmt.Errorf("generation failed: %w", err)
	}

	imageURL, err := NormalizeOutput(ctx, output)
	if err != nil {
		return nil, err
	}

	imageData, err := f.materialize(ctx, imageURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch generated image: %w", err)
	}

	objectKey := fmt.Sprintf("%s/gen-%s/branch-%d.webp", p.PhotoshootID, p.RunID, branch)
	publicURL, err := f.uploader.UploadImage(ctx, imageData, objectKey)
	if err != nil {
		return nil, fmt.Errorf("failed to upload image: %w", err)
	}

	return &GeneratedImageDraft{
		URL:          publicURL,
		ThumbnailURL: f.uploader.ThumbnailURL(objectKey),
		ObjectKey:    objectKey,
		Prompt:       prompt,
		Seed:         seed,
	}, nil
}

// materialize - data URL은 디코드, http URL은 다운로드
func (f *Fanout) materialize(ctx context.Context, imageURL string) ([]byte, error) {
	if strings.HasPrefix(imageURL, "data:image/") {
		idx := strings.Index(imageURL, ";base64,")
		if idx < 0 {
			return nil, fmt.Errorf("unsupported data URL encoding")
		}
		return base64.StdEncoding.DecodeString(imageURL[idx+len(";base64,"):])
	}
	return f.uploader.DownloadImage(ctx, imageURL)
}

func (f *Fanout) publishEvent(photoshootID string, event BranchEvent) {
	if f.publisher != nil {
		f.publisher.Publish(photoshootID, event)
	}
}
