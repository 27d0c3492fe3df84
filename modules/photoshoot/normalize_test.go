package photoshoot

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

type fakeResolver struct {
	out interface{}
	err error
}

func (f *fakeResolver) Resolve(ctx context.Context) (interface{}, error) {
	return f.out, f.err
}

type fakeObjectOutput struct {
	url string
}

func (f *fakeObjectOutput) PrimaryURL() string {
	return f.url
}

func TestNormalizeOutputString(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"https URL", "https://cdn.example.com/img.png", "https://cdn.example.com/img.png", false},
		{"http URL", "http://cdn.example.com/img.png", "http://cdn.example.com/img.png", false},
		{"data URL", "data:image/png;base64,aGVsbG8=", "data:image/png;base64,aGVsbG8=", false},
		{"whitespace trimmed", "  https://cdn.example.com/a.png  ", "https://cdn.example.com/a.png", false},
		{"empty", "", "", true},
		{"ftp scheme", "ftp://files.example.com/img.png", "", true},
		{"bare path", "/tmp/img.png", "", true},
		{"data non-image", "data:text/plain;base64,aGVsbG8=", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeOutput(ctx, tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidOutputFormat) {
					t.Fatalf("expected ErrInvalidOutputFormat, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNormalizeOutputStringSlice(t *testing.T) {
	ctx := context.Background()

	got, err := NormalizeOutput(ctx, []string{"https://a.example/1.png", "https://a.example/2.png"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "https://a.example/1.png" {
		t.Errorf("expected first element, got %q", got)
	}

	if _, err := NormalizeOutput(ctx, []string{}); !errors.Is(err, ErrInvalidOutputFormat) {
		t.Fatalf("expected error for empty slice, got %v", err)
	}
}

func TestNormalizeOutputInterfaceSlice(t *testing.T) {
	ctx := context.Background()

	got, err := NormalizeOutput(ctx, []interface{}{"https://a.example/1.png"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "https://a.example/1.png" {
		t.Errorf("got %q", got)
	}

	if _, err := NormalizeOutput(ctx, []interface{}{42}); !errors.Is(err, ErrInvalidOutputFormat) {
		t.Fatalf("expected error for non-string element, got %v", err)
	}
}

func TestNormalizeOutputResolver(t *testing.T) {
	ctx := context.Background()

	got, err := NormalizeOutput(ctx, &fakeResolver{out: "https://a.example/r.png"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "https://a.example/r.png" {
		t.Errorf("got %q", got)
	}

	// Resolver가 맵을 풀어내는 경우도 다시 정규화된다
	got, err = NormalizeOutput(ctx, &fakeResolver{
		out: map[string]interface{}{"image_url": "https://a.example/m.png"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "https://a.example/m.png" {
		t.Errorf("got %q", got)
	}

	if _, err := NormalizeOutput(ctx, &fakeResolver{err: fmt.Errorf("backend down")}); err == nil {
		t.Fatal("expected resolver error to propagate")
	}
}

func TestNormalizeOutputMap(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		input   map[string]interface{}
		want    string
		wantErr bool
	}{
		{"imageURL key", map[string]interface{}{"imageURL": "https://a.example/1.png"}, "https://a.example/1.png", false},
		{"image_url key", map[string]interface{}{"image_url": "https://a.example/2.png"}, "https://a.example/2.png", false},
		{"url key", map[string]interface{}{"url": "https://a.example/3.png"}, "https://a.example/3.png", false},
		{"imageURL wins over url", map[string]interface{}{"url": "https://a.example/low.png", "imageURL": "https://a.example/high.png"}, "https://a.example/high.png", false},
		{"non-string value", map[string]interface{}{"url": 99}, "", true},
		{"no known key", map[string]interface{}{"status": "done"}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeOutput(ctx, tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidOutputFormat) {
					t.Fatalf("expected ErrInvalidOutputFormat, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNormalizeOutputObject(t *testing.T) {
	ctx := context.Background()

	got, err := NormalizeOutput(ctx, &fakeObjectOutput{url: "https://a.example/obj.png"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "https://a.example/obj.png" {
		t.Errorf("got %q", got)
	}
}

func TestNormalizeOutputUnknown(t *testing.T) {
	ctx := context.Background()

	if _, err := NormalizeOutput(ctx, nil); !errors.Is(err, ErrInvalidOutputFormat) {
		t.Fatalf("expected error for nil, got %v", err)
	}
	if _, err := NormalizeOutput(ctx, 3.14); !errors.Is(err, ErrInvalidOutputFormat) {
		t.Fatalf("expected error for float, got %v", err)
	}
	if _, err := NormalizeOutput(ctx, struct{ X int }{1}); !errors.Is(err, ErrInvalidOutputFormat) {
		t.Fatalf("expected error for plain struct, got %v", err)
	}
}
