package analyze

import (
	"context"
	"fmt"
	"log"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"google.golang.org/genai"

	"pixshoot-server/modules/common/config"
	"pixshoot-server/modules/common/database"
	geminiretry "pixshoot-server/modules/common/gemini"
	"pixshoot-server/modules/common/model"
	"pixshoot-server/modules/common/storage"
	"pixshoot-server/modules/common/utils"
	"pixshoot-server/modules/scale"
)

type Service struct {
	db      *database.Client
	storage *storage.Client
	redis   *goredis.Client
}

func NewService(db *database.Client, storageClient *storage.Client, redisClient *goredis.Client) *Service {
	return &Service{
		db:      db,
		storage: storageClient,
		redis:   redisClient,
	}
}

// cacheKey - 제품 분석 캐시 키
func cacheKey(productID string) string {
	return "analysis:" + productID
}

// AnalyzeProduct - 제품 이미지 비전 분석 (Redis 캐시 적용)
// 같은 제품의 반복 분석은 캐시에서 반환한다.
func (s *Service) AnalyzeProduct(ctx context.Context, productID, userID string) (string, *model.Product, bool, error) {
	product, err := s.db.GetProduct(ctx, productID, userID)
	if err != nil {
		return "", nil, false, err
	}

	// 캐시 조회 (Redis 장애 시 분석으로 폴백)
	if s.redis != nil {
		if cached, err := s.redis.Get(ctx, cacheKey(productID)).Result(); err == nil && cached != "" {
			log.Printf("📦 [Analyze] Cache hit for product %s", productID)
			return cached, product, true, nil
		}
	}

	analysis, err := s.runVisionAnalysis(ctx, product.Name, product.ImageURL, product.Dimensions)
	if err != nil {
		return "", nil, false, err
	}

	// 캐시 저장 (실패해도 무시)
	if s.redis != nil {
		cfg := config.GetConfig()
		ttl := time.Duration(cfg.AnalysisCacheTTLHours) * time.Hour
		if err := s.redis.Set(ctx, cacheKey(productID), analysis, ttl).Err(); err != nil {
			log.Printf("⚠️  [Analyze] Failed to cache analysis: %v", err)
		}
	}

	return analysis, product, false, nil
}

// runVisionAnalysis - Gemini 비전 호출
func (s *Service) runVisionAnalysis(ctx context.Context, productName, imageURL string, dimensions map[string]interface{}) (string, error) {
	cfg := config.GetConfig()

	imageData, err := s.storage.DownloadImage(ctx, imageURL)
	if err != nil {
		return "", fmt.Errorf("failed to download product image: %w", err)
	}

	scaleRef := scale.Compute(dimensions)
	scaleLine := ""
	if scaleRef.Sentence != "" {
		scaleLine = "Physical scale: " + scaleRef.Sentence
	}

	prompt := fmt.Sprintf(analyzePromptTemplate, scaleLine, productName)

	content := &genai.Content{
		Parts: []*genai.Part{
			{
				InlineData: &genai.Blob{
					MIMEType: utils.DetectMimeType(imageData),
					Data:     imageData,
				},
			},
			genai.NewPartFromText(prompt),
		},
	}

	log.Printf("🔍 [Analyze] Running vision analysis for product: %s", productName)

	result, err := geminiretry.GenerateContentWithRetry(
		ctx, cfg.GeminiAPIKeys, cfg.GeminiTextModel,
		[]*genai.Content{content}, nil,
	)
	if err != nil {
		return "", fmt.Errorf("vision analysis failed: %w", err)
	}

	analysis, err := geminiretry.ExtractText(result)
	if err != nil {
		return "", err
	}

	log.Printf("✅ [Analyze] Analysis complete (%d chars)", len(analysis))
	return analysis, nil
}
