package scenes

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"google.golang.org/genai"

	"pixshoot-server/modules/common/config"
	geminiretry "pixshoot-server/modules/common/gemini"
	"pixshoot-server/modules/common/model"
)

// SceneCount - 한 번에 제안하는 장면 수
const SceneCount = 4

type Service struct{}

func NewService() *Service {
	return &Service{}
}

// GenerateSceneIdeas - 제품 분석 기반 장면 아이디어 생성
func (s *Service) GenerateSceneIdeas(ctx context.Context, req SceneRequest) ([]model.Scene, error) {
	cfg := config.GetConfig()

	hintLine := ""
	if req.UserHint != "" {
		hintLine = "User direction: " + req.UserHint
	}

	prompt := fmt.Sprintf(sceneIdeasPromptTemplate,
		req.ProductAnalysis, req.PhotoshootType, req.PhotoshootStyle, hintLine, SceneCount)

	log.Printf("💡 [Scenes] Generating %d scene ideas (type: %s, style: %s)",
		SceneCount, req.PhotoshootType, req.PhotoshootStyle)

	result, err := geminiretry.GenerateContentWithRetry(
		ctx, cfg.GeminiAPIKeys, cfg.GeminiTextModel,
		[]*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}, nil,
	)
	if err != nil {
		return nil, fmt.Errorf("scene ideation failed: %w", err)
	}

	text, err := geminiretry.ExtractText(result)
	if err != nil {
		return nil, err
	}

	ideas, err := ParseScenes(text)
	if err != nil {
		return nil, err
	}

	log.Printf("✅ [Scenes] Generated %d scene ideas", len(ideas))
	return ideas, nil
}

// ParseScenes - LLM 응답에서 JSON 배열 파싱
// 모델이 마크다운 코드펜스로 감싸는 경우가 있어 제거 후 파싱한다.
func ParseScenes(text string) ([]model.Scene, error) {
	cleaned := StripCodeFence(text)

	var ideas []model.Scene
	if err := json.Unmarshal([]byte(cleaned), &ideas); err != nil {
		return nil, fmt.Errorf("failed to parse scene ideas JSON: %w", err)
	}

	if len(ideas) == 0 {
		return nil, fmt.Errorf("no scene ideas in response")
	}

	for i, idea := range ideas {
		if idea.Title == "" || idea.Description == "" {
			return nil, fmt.Errorf("scene idea %d missing title or description", i+1)
		}
	}

	return ideas, nil
}

// StripCodeFence - ```json ... ``` 코드펜스 제거
func StripCodeFence(text string) string {
	cleaned := strings.TrimSpace(text)

	if strings.HasPrefix(cleaned, "```") {
		// 첫 줄의 ```json 또는 ``` 제거
		if idx := strings.Index(cleaned, "\n"); idx >= 0 {
			cleaned = cleaned[idx+1:]
		}
		cleaned = strings.TrimSuffix(strings.TrimSpace(cleaned), "```")
	}

	return strings.TrimSpace(cleaned)
}
