package prompts

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"

	"google.golang.org/genai"

	"pixshoot-server/modules/common/config"
	"pixshoot-server/modules/common/database"
	geminiretry "pixshoot-server/modules/common/gemini"
	"pixshoot-server/modules/common/model"
	"pixshoot-server/modules/scale"
	"pixshoot-server/modules/scenes"
)

// ErrGenerationCountMismatch - 모델이 요구한 개수와 다른 수의 프롬프트를 반환한 경우
var ErrGenerationCountMismatch = errors.New("generated prompt count does not match requested count")

// 번호 목록 항목 매칭 (1. 또는 1) 형식)
var numberedLinePattern = regexp.MustCompile(`^\s*(\d+)[.)]\s+(.+)$`)

type Service struct {
	db *database.Client
}

func NewService(db *database.Client) *Service {
	return &Service{db: db}
}

// SynthesizePrompts - 분석 + 장면을 N개의 최종 이미지 프롬프트로 합성
// 참조 이미지/태그(제품 항상, 모델은 with_model일 때만)도 함께 구성한다.
func (s *Service) SynthesizePrompts(ctx context.Context, userID string, req PromptRequest) (*SynthesisResult, error) {
	cfg := config.GetConfig()

	product, err := s.db.GetProduct(ctx, req.ProductID, userID)
	if err != nil {
		return nil, err
	}

	refImages := []string{product.ImageURL}
	refTags := []string{product.Tag}

	var modelProfile *model.ModelProfile
	if req.PhotoshootType == model.TypeWithModel {
		if req.ModelID == "" {
			return nil, fmt.Errorf("model_id is required for with_model photoshoots")
		}
		modelProfile, err = s.db.GetModelProfile(ctx, req.ModelID, userID)
		if err != nil {
			return nil, err
		}
		refImages = append(refImages, modelProfile.ImageURL)
		refTags = append(refTags, modelProfile.Tag)
	}

	scaleRef := scale.Compute(product.Dimensions)
	scaleLine := ""
	if scaleRef.Sentence != "" {
		scaleLine = "Physical scale: " + scaleRef.Sentence + "\n"
	}

	modelLine := ""
	modelRule := ""
	if modelProfile != nil {
		modelLine = fmt.Sprintf("Model reference tag: [%s]\n", modelProfile.Tag)
		modelRule = fmt.Sprintf(modelInstruction, modelProfile.Tag)
	}

	scene := req.SelectedScene
	prompt := fmt.Sprintf(synthesisPromptTemplate,
		req.ProductAnalysis,
		scene.Title, scene.Description, scene.Setting, scene.Lighting, scene.Mood,
		req.PhotoshootType, req.PhotoshootStyle,
		scaleLine, modelLine,
		cfg.PromptBatchSize,
		product.Tag,
		modelRule,
	)

	log.Printf("✍️  [Prompts] Synthesizing %d prompts for product [%s]", cfg.PromptBatchSize, product.Tag)

	result, err := geminiretry.GenerateContentWithRetry(
		ctx, cfg.GeminiAPIKeys, cfg.GeminiTextModel,
		[]*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}, nil,
	)
	if err != nil {
		return nil, fmt.Errorf("prompt synthesis failed: %w", err)
	}

	text, err := geminiretry.ExtractText(result)
	if err != nil {
		return nil, err
	}

	finalPrompts, err := ParsePrompts(text, cfg.PromptBatchSize)
	if err != nil {
		return nil, err
	}

	log.Printf("✅ [Prompts] Synthesized %d final prompts", len(finalPrompts))

	return &SynthesisResult{
		Prompts:         finalPrompts,
		ReferenceImages: refImages,
		ReferenceTags:   refTags,
	}, nil
}

// ParsePrompts - 번호 목록 응답에서 정확히 expected개의 프롬프트 파싱
// 번호 없는 줄은 직전 항목의 연속으로 취급한다.
func ParsePrompts(text string, expected int) ([]string, error) {
	cleaned := scenes.StripCodeFence(text)

	var parsed []string
	for _, line := range strings.Split(cleaned, "\n") {
		if m := numberedLinePattern.FindStringSubmatch(line); m != nil {
			parsed = append(parsed, strings.TrimSpace(m[2]))
			continue
		}

		trimmed := strings.TrimSpace(line)
		if trimmed == "" || len(parsed) == 0 {
			continue
		}
		parsed[len(parsed)-1] += " " + trimmed
	}

	if len(parsed) != expected {
		return nil, fmt.Errorf("%w: expected %d, got %d", ErrGenerationCountMismatch, expected, len(parsed))
	}

	return parsed, nil
}
