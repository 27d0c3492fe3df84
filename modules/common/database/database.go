package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/supabase-community/postgrest-go"
	"github.com/supabase-community/supabase-go"

	"pixshoot-server/modules/common/config"
	"pixshoot-server/modules/common/model"
)

// ErrNotFound - 레코드가 없거나 요청자 소유가 아님
var ErrNotFound = errors.New("record not found")

type Client struct {
	supabase *supabase.Client
}

// NewClient - Database 클라이언트 생성
func NewClient() *Client {
	cfg := config.GetConfig()

	supabaseClient, err := supabase.NewClient(cfg.SupabaseURL, cfg.SupabaseServiceKey, &supabase.ClientOptions{})
	if err != nil {
		log.Printf("❌ Failed to create Supabase client: %v", err)
		return nil
	}

	return &Client{
		supabase: supabaseClient,
	}
}

// GetProduct - 제품 조회 (소유자 검증 포함)
func (c *Client) GetProduct(ctx context.Context, productID, userID string) (*model.Product, error) {
	var products []model.Product

	data, _, err := c.supabase.From("pixshoot_products").
		Select("*", "exact", false).
		Eq("product_id", productID).
		Eq("user_id", userID).
		Execute()

	if err != nil {
		return nil, fmt.Errorf("failed to query pixshoot_products: %w", err)
	}

	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("failed to parse product response: %w", err)
	}

	if len(products) == 0 {
		return nil, fmt.Errorf("product %s: %w", productID, ErrNotFound)
	}

	return &products[0], nil
}

// GetModelProfile - 모델 프로필 조회 (소유자 검증 포함)
func (c *Client) GetModelProfile(ctx context.Context, modelID, userID string) (*model.ModelProfile, error) {
	var profiles []model.ModelProfile

	data, _, err := c.supabase.From("pixshoot_models").
		Select("*", "exact", false).
		Eq("model_id", modelID).
		Eq("user_id", userID).
		Execute()

	if err != nil {
		return nil, fmt.Errorf("failed to query pixshoot_models: %w", err)
	}

	if err := json.Unmarshal(data, &profiles); err != nil {
		return nil, fmt.Errorf("failed to parse model response: %w", err)
	}

	if len(profiles) == 0 {
		return nil, fmt.Errorf("model %s: %w", modelID, ErrNotFound)
	}

	return &profiles[0], nil
}

// InsertPhotoshoot - Photoshoot 레코드 생성
func (c *Client) InsertPhotoshoot(ctx context.Context, shoot *model.Photoshoot) (*model.Photoshoot, error) {
	log.Printf("💾 Creating photoshoot record: %s (user: %s)", shoot.Name, shoot.UserID)

	insertData := map[string]interface{}{
		"user_id":             shoot.UserID,
		"name":                shoot.Name,
		"product_id":          shoot.ProductID,
		"model_id":            shoot.ModelID,
		"photoshoot_type":     shoot.Type,
		"photoshoot_style":    shoot.Style,
		"scene_description":   shoot.SceneDescription,
		"status":              shoot.Status,
		"generated_images":    []model.GeneratedImage{},
		"credits_used":        0,
		"generation_settings": shoot.Settings,
	}

	data, _, err := c.supabase.From("pixshoot_photoshoots").
		Insert(insertData, false, "", "", "").
		Execute()

	if err != nil {
		return nil, fmt.Errorf("failed to insert photoshoot: %w", err)
	}

	var inserted []model.Photoshoot
	if err := json.Unmarshal(data, &inserted); err != nil {
		return nil, fmt.Errorf("failed to parse photoshoot response: %w", err)
	}

	if len(inserted) == 0 {
		return nil, fmt.Errorf("no photoshoot record returned")
	}

	log.Printf("✅ Photoshoot record created: %s", inserted[0].ID)
	return &inserted[0], nil
}

// GetPhotoshoot - Photoshoot 조회 (소유자 검증 포함)
func (c *Client) GetPhotoshoot(ctx context.Context, photoshootID, userID string) (*model.Photoshoot, error) {
	var shoots []model.Photoshoot

	data, _, err := c.supabase.From("pixshoot_photoshoots").
		Select("*", "exact", false).
		Eq("photoshoot_id", photoshootID).
		Eq("user_id", userID).
		Execute()

	if err != nil {
		return nil, fmt.Errorf("failed to query pixshoot_photoshoots: %w", err)
	}

	if err := json.Unmarshal(data, &shoots); err != nil {
		return nil, fmt.Errorf("failed to parse photoshoot response: %w", err)
	}

	if len(shoots) == 0 {
		return nil, fmt.Errorf("photoshoot %s: %w", photoshootID, ErrNotFound)
	}

	return &shoots[0], nil
}

// ListPhotoshoots - 사용자의 모든 Photoshoot 조회 (최신순)
func (c *Client) ListPhotoshoots(ctx context.Context, userID string) ([]model.Photoshoot, error) {
	var shoots []model.Photoshoot

	data, _, err := c.supabase.From("pixshoot_photoshoots").
		Select("*", "exact", false).
		Eq("user_id", userID).
		Order("created_at", &postgrest.OrderOpts{Ascending: false}).
		Execute()

	if err != nil {
		return nil, fmt.Errorf("failed to list photoshoots: %w", err)
	}

	if err := json.Unmarshal(data, &shoots); err != nil {
		return nil, fmt.Errorf("failed to parse photoshoots response: %w", err)
	}

	return shoots, nil
}

// UpdatePhotoshootStatus - Photoshoot 상태 업데이트
func (c *Client) UpdatePhotoshootStatus(ctx context.Context, photoshootID, userID, status string) error {
	log.Printf("📝 Updating photoshoot %s status to: %s", photoshootID, status)

	updateData := map[string]interface{}{
		"status":     status,
		"updated_at": "now()",
	}

	_, _, err := c.supabase.From("pixshoot_photoshoots").
		Update(updateData, "", "").
		Eq("photoshoot_id", photoshootID).
		Eq("user_id", userID).
		Execute()

	if err != nil {
		return fmt.Errorf("failed to update photoshoot status: %w", err)
	}

	log.Printf("✅ Photoshoot %s status updated to: %s", photoshootID, status)
	return nil
}

// UpdatePhotoshootSettings - generation_settings 스냅샷 저장
func (c *Client) UpdatePhotoshootSettings(ctx context.Context, photoshootID, userID string, settings model.GenerationSettings) error {
	updateData := map[string]interface{}{
		"generation_settings": settings,
		"updated_at":          "now()",
	}

	_, _, err := c.supabase.From("pixshoot_photoshoots").
		Update(updateData, "", "").
		Eq("photoshoot_id", photoshootID).
		Eq("user_id", userID).
		Execute()

	if err != nil {
		return fmt.Errorf("failed to update generation settings: %w", err)
	}

	return nil
}

// AppendGeneratedImages - generated_images 배열에 추가 (append-only)
// 기존 배열을 읽어 병합 후 저장하고, 대표 이미지 포인터는 비어 있을 때만 채운다.
func (c *Client) AppendGeneratedImages(ctx context.Context, photoshootID, userID string, newImages []model.GeneratedImage, creditsDelta int) error {
	log.Printf("📎 Appending %d generated images to photoshoot %s", len(newImages), photoshootID)

	// 1. 기존 레코드 조회
	shoot, err := c.GetPhotoshoot(ctx, photoshootID, userID)
	if err != nil {
		return err
	}

	// 2. 기존 배열과 병합
	merged := append(shoot.GeneratedImages, newImages...)
	log.Printf("📎 Merged generated_images: %d existing + %d new = %d total",
		len(shoot.GeneratedImages), len(newImages), len(merged))

	updateData := map[string]interface{}{
		"generated_images": merged,
		"credits_used":     shoot.CreditsUsed + creditsDelta,
		"updated_at":       "now()",
	}

	// 3. 대표 이미지 포인터는 최초 성공 시에만 채움 (하위 호환)
	if shoot.ImageURL == nil || *shoot.ImageURL == "" {
		for _, img := range newImages {
			if img.IsPrimary {
				updateData["image_url"] = img.URL
				break
			}
		}
	}

	// 4. Photoshoot 업데이트
	_, _, err = c.supabase.From("pixshoot_photoshoots").
		Update(updateData, "", "").
		Eq("photoshoot_id", photoshootID).
		Eq("user_id", userID).
		Execute()

	if err != nil {
		return fmt.Errorf("failed to append generated images: %w", err)
	}

	log.Printf("✅ Photoshoot %s now has %d generated images", photoshootID, len(merged))
	return nil
}

// AddCreditsUsed - 차감 결과를 누적 크레딧에 반영
// 이미지 영속화가 끝난 뒤에 따로 호출된다.
func (c *Client) AddCreditsUsed(ctx context.Context, photoshootID, userID string, delta int) error {
	shoot, err := c.GetPhotoshoot(ctx, photoshootID, userID)
	if err != nil {
		return err
	}

	updateData := map[string]interface{}{
		"credits_used": shoot.CreditsUsed + delta,
		"updated_at":   "now()",
	}

	_, _, err = c.supabase.From("pixshoot_photoshoots").
		Update(updateData, "", "").
		Eq("photoshoot_id", photoshootID).
		Eq("user_id", userID).
		Execute()

	if err != nil {
		return fmt.Errorf("failed to update credits_used: %w", err)
	}

	return nil
}

// RecordFailure - 실패 전환 시 원인 에러를 settings에 기록
func (c *Client) RecordFailure(ctx context.Context, photoshootID, userID, errorMessage string) error {
	shoot, err := c.GetPhotoshoot(ctx, photoshootID, userID)
	if err != nil {
		return err
	}

	settings := shoot.Settings
	settings.LastError = errorMessage

	updateData := map[string]interface{}{
		"status":              model.StatusFailed,
		"generation_settings": settings,
		"updated_at":          "now()",
	}

	_, _, err = c.supabase.From("pixshoot_photoshoots").
		Update(updateData, "", "").
		Eq("photoshoot_id", photoshootID).
		Eq("user_id", userID).
		Execute()

	if err != nil {
		return fmt.Errorf("failed to record photoshoot failure: %w", err)
	}

	return nil
}
