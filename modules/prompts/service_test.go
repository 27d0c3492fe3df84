package prompts

import (
	"errors"
	"strings"
	"testing"
)

func TestParsePromptsExactCount(t *testing.T) {
	text := `1. A wide shot of the product on a marble counter.
2. A close-up of the product label in soft window light.
3. The product held in a hand against a blurred kitchen.
4. An overhead flat lay with complementary props.
5. A low angle shot emphasizing the product silhouette.`

	prompts, err := ParsePrompts(text, 5)
	if err != nil {
		t.Fatalf("ParsePrompts failed: %v", err)
	}
	if len(prompts) != 5 {
		t.Fatalf("expected 5 prompts, got %d", len(prompts))
	}
	if prompts[0] != "A wide shot of the product on a marble counter." {
		t.Errorf("unexpected first prompt: %q", prompts[0])
	}
	if prompts[4] != "A low angle shot emphasizing the product silhouette." {
		t.Errorf("unexpected last prompt: %q", prompts[4])
	}
}

func TestParsePromptsParenNumbering(t *testing.T) {
	text := "1) First prompt here.\n2) Second prompt here."

	prompts, err := ParsePrompts(text, 2)
	if err != nil {
		t.Fatalf("ParsePrompts failed: %v", err)
	}
	if prompts[1] != "Second prompt here." {
		t.Errorf("unexpected prompt: %q", prompts[1])
	}
}

func TestParsePromptsMultilineContinuation(t *testing.T) {
	text := `1. A prompt that spills
onto a second line.
2. A compact prompt.`

	prompts, err := ParsePrompts(text, 2)
	if err != nil {
		t.Fatalf("ParsePrompts failed: %v", err)
	}
	if prompts[0] != "A prompt that spills onto a second line." {
		t.Errorf("continuation not merged: %q", prompts[0])
	}
}

func TestParsePromptsSkipsPreamble(t *testing.T) {
	text := `Here are your prompts:

1. First.
2. Second.`

	prompts, err := ParsePrompts(text, 2)
	if err != nil {
		t.Fatalf("ParsePrompts failed: %v", err)
	}
	if prompts[0] != "First." {
		t.Errorf("preamble leaked into prompts: %q", prompts[0])
	}
}

func TestParsePromptsCodeFence(t *testing.T) {
	text := "```\n1. Fenced first.\n2. Fenced second.\n```"

	prompts, err := ParsePrompts(text, 2)
	if err != nil {
		t.Fatalf("ParsePrompts failed on fenced input: %v", err)
	}
	if len(prompts) != 2 {
		t.Fatalf("expected 2 prompts, got %d", len(prompts))
	}
}

func TestParsePromptsCountMismatch(t *testing.T) {
	text := "1. Only one.\n2. And two."

	_, err := ParsePrompts(text, 5)
	if err == nil {
		t.Fatal("expected count mismatch error")
	}
	if !errors.Is(err, ErrGenerationCountMismatch) {
		t.Fatalf("expected ErrGenerationCountMismatch, got %v", err)
	}
	if !strings.Contains(err.Error(), "expected 5, got 2") {
		t.Errorf("error message missing counts: %v", err)
	}
}

func TestParsePromptsTooMany(t *testing.T) {
	text := "1. A.\n2. B.\n3. C."

	if _, err := ParsePrompts(text, 2); !errors.Is(err, ErrGenerationCountMismatch) {
		t.Fatalf("expected ErrGenerationCountMismatch for surplus, got %v", err)
	}
}

func TestParsePromptsEmpty(t *testing.T) {
	if _, err := ParsePrompts("no list here at all", 5); !errors.Is(err, ErrGenerationCountMismatch) {
		t.Fatalf("expected ErrGenerationCountMismatch, got %v", err)
	}
}
