package gemini

import (
	"context"
	"math"
	"strings"
	"testing"

	"pixshoot-server/modules/provider"
)

func TestGenerateRejectsOutOfRangeSeed(t *testing.T) {
	s := &Service{}

	for _, seed := range []int64{math.MaxInt32 + 1, -1} {
		_, err := s.Generate(context.Background(), provider.Request{
			Prompt: "studio product shot",
			Seed:   seed,
		})
		if err == nil {
			t.Errorf("seed %d: expected rejection, got nil error", seed)
			continue
		}
		if !strings.Contains(err.Error(), "out of range") {
			t.Errorf("seed %d: unexpected error: %v", seed, err)
		}
	}
}

func TestBuildReferencePreamble(t *testing.T) {
	if got := buildReferencePreamble(nil); got != "" {
		t.Errorf("no tags should yield empty preamble, got %q", got)
	}

	got := buildReferencePreamble([]string{"tumbler", "model-a"})
	if !strings.Contains(got, "Reference Image 1: [tumbler]") ||
		!strings.Contains(got, "Reference Image 2: [model-a]") {
		t.Errorf("preamble missing tag lines: %q", got)
	}
}
