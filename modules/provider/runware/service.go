package runware

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"pixshoot-server/modules/common/config"
	"pixshoot-server/modules/provider"
)

// Seedream 3.0 모델 ID (Runware - ByteDance)
const SeedreamModelID = "bytedance:seedream-3.0"

// Service - Runware(Seedream) 이미지 생성 프로바이더
// 결과를 구조화된 Output으로 반환한다.
type Service struct {
	httpClient *http.Client
}

func NewService() *Service {
	cfg := config.GetConfig()

	if cfg.RunwareAPIKey == "" {
		log.Println("⚠️ [Runware] RUNWARE_API_KEY not configured")
	} else {
		log.Println("✅ [Runware] Image provider initialized")
	}

	return &Service{
		httpClient: &http.Client{Timeout: 180 * time.Second},
	}
}

// Generate - Seedream 3.0으로 이미지 생성
func (s *Service) Generate(ctx context.Context, req provider.Request) (interface{}, error) {
	cfg := config.GetConfig()

	if cfg.RunwareAPIKey == "" {
		return nil, fmt.Errorf("RUNWARE_API_KEY not configured")
	}

	width, height := calculateDimensions(req.AspectRatio)

	log.Printf("🎨 [Runware] Generating image - size: %dx%d, seed: %d, prompt: %s",
		width, height, req.Seed, truncateString(req.Prompt, 50))

	runwareReq := RunwareRequest{
		TaskType:       "imageInference",
		TaskUUID:       uuid.New().String(),
		PositivePrompt: req.Prompt,
		Model:          SeedreamModelID,
		Width:          width,
		Height:         height,
		NumberResults:  1,
		OutputFormat:   "PNG",
		Seed:           req.Seed,
	}

	// 참조 이미지는 data URL 또는 공개 URL 그대로 전달
	if len(req.ReferenceImages) > 0 {
		runwareReq.ReferenceImages = req.ReferenceImages
		log.Printf("📷 [Runware] Adding %d reference images", len(req.ReferenceImages))
	}

	jsonBody, err := json.Marshal([]RunwareRequest{runwareReq})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", cfg.RunwareAPIURL, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+cfg.RunwareAPIKey)

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		log.Printf("❌ [Runware] API error: %v", err)
		return nil, fmt.Errorf("Runware API error: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		log.Printf("❌ [Runware] API error: status=%d, body=%s", resp.StatusCode, truncateString(string(bodyBytes), 200))
		return nil, fmt.Errorf("Runware API error: status %d", resp.StatusCode)
	}

	var runwareResp RunwareResponse
	if err := json.Unmarshal(bodyBytes, &runwareResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if runwareResp.Error != "" {
		return nil, fmt.Errorf("Runware error: %s", runwareResp.Error)
	}

	if len(runwareResp.Data) == 0 || runwareResp.Data[0].ImageURL == "" {
		return nil, fmt.Errorf("no image generated from Runware")
	}

	log.Printf("✅ [Runware] Image generated: %s", runwareResp.Data[0].ImageURL)

	return &Output{
		TaskUUID: runwareResp.Data[0].TaskUUID,
		ImageURL: runwareResp.Data[0].ImageURL,
		Seed:     req.Seed,
	}, nil
}

// calculateDimensions - 해상도 계산 (Seedream은 2048 기준)
func calculateDimensions(aspectRatio string) (int, int) {
	switch aspectRatio {
	case "16:9":
		return 2048, 1152
	case "9:16":
		return 1152, 2048
	case "4:5":
		return 1638, 2048
	case "3:4":
		return 1536, 2048
	case "4:3":
		return 2048, 1536
	default: // 1:1 또는 미지정
		return 2048, 2048
	}
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
