package gemini

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"math"
	"strings"

	"google.golang.org/genai"

	"pixshoot-server/modules/common/config"
	geminiretry "pixshoot-server/modules/common/gemini"
	"pixshoot-server/modules/common/storage"
	"pixshoot-server/modules/provider"
)

// Service - Gemini 이미지 생성 프로바이더
// 인라인 이미지 바이트를 data URL 문자열로 반환한다.
type Service struct {
	storage *storage.Client
}

func NewService(storageClient *storage.Client) *Service {
	log.Println("✅ [Gemini] Image provider initialized")
	return &Service{
		storage: storageClient,
	}
}

// Generate - Gemini API로 이미지 생성
func (s *Service) Generate(ctx context.Context, req provider.Request) (interface{}, error) {
	// Gemini의 seed는 int32 - 말없이 잘라내면 서로 다른 seed가 충돌한다
	if req.Seed < 0 || req.Seed > math.MaxInt32 {
		return nil, fmt.Errorf("seed %d out of range for Gemini (must fit int32)", req.Seed)
	}

	cfg := config.GetConfig()

	aspectRatio := req.AspectRatio
	if aspectRatio == "" {
		aspectRatio = "1:1"
	}

	log.Printf("🎨 [Gemini] Generating image - model: %s, seed: %d, refs: %d, prompt: %s",
		cfg.GeminiImageModel, req.Seed, len(req.ReferenceImages), truncateString(req.Prompt, 50))

	// 참조 이미지들을 Part로 구성
	var parts []*genai.Part
	for i, ref := range req.ReferenceImages {
		data, mimeType, err := s.resolveReference(ctx, ref)
		if err != nil {
			return nil, fmt.Errorf("failed to load reference image %d: %w", i+1, err)
		}
		parts = append(parts, &genai.Part{
			InlineData: &genai.Blob{
				MIMEType: mimeType,
				Data:     data,
			},
		})
	}

	parts = append(parts, genai.NewPartFromText(buildReferencePreamble(req.ReferenceTags)+req.Prompt))

	content := &genai.Content{Parts: parts}

	seed := int32(req.Seed)
	result, err := geminiretry.GenerateContentWithRetry(
		ctx,
		cfg.GeminiAPIKeys,
		cfg.GeminiImageModel,
		[]*genai.Content{content},
		&genai.GenerateContentConfig{
			Seed: &seed,
			ImageConfig: &genai.ImageConfig{
				AspectRatio: aspectRatio,
			},
		},
	)
	if err != nil {
		return nil, fmt.Errorf("Gemini API call failed: %w", err)
	}

	imageData, err := geminiretry.ExtractInlineImage(result)
	if err != nil {
		return nil, err
	}

	log.Printf("✅ [Gemini] Received image: %d bytes", len(imageData))

	// data URL 문자열로 반환 (정규화 단계의 string 매처가 처리)
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(imageData), nil
}

// resolveReference - 참조 이미지(URL 또는 data URL)를 바이트로 변환
func (s *Service) resolveReference(ctx context.Context, ref string) ([]byte, string, error) {
	if strings.HasPrefix(ref, "data:") {
		idx := strings.Index(ref, ";base64,")
		if idx < 0 {
			return nil, "", fmt.Errorf("unsupported data URL encoding")
		}
		mimeType := strings.TrimPrefix(ref[:idx], "data:")
		data, err := base64.StdEncoding.DecodeString(ref[idx+len(";base64,"):])
		if err != nil {
			return nil, "", fmt.Errorf("failed to decode data URL: %w", err)
		}
		return data, mimeType, nil
	}

	data, err := s.storage.DownloadImage(ctx, ref)
	if err != nil {
		return nil, "", err
	}
	return data, "image/png", nil
}

// buildReferencePreamble - 참조 태그 규칙 머리말 생성
func buildReferencePreamble(tags []string) string {
	if len(tags) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("[REFERENCE IMAGES]\n")
	for i, tag := range tags {
		sb.WriteString(fmt.Sprintf("Reference Image %d: [%s] - reproduce this exact item faithfully\n", i+1, tag))
	}
	sb.WriteString("\n")
	return sb.String()
}

// truncateString - 로그용 문자열 자르기
func truncateString(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
