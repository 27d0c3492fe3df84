package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"pixshoot-server/modules/common/config"
	"pixshoot-server/modules/common/utils"
)

const bucketName = "photoshoots"

type Client struct {
	httpClient *http.Client
}

// NewClient - Storage 클라이언트 생성
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 120 * time.Second},
	}
}

// DownloadImage - URL에서 이미지 다운로드
func (c *Client) DownloadImage(ctx context.Context, imageURL string) ([]byte, error) {
	log.Printf("📥 Downloading image from: %s", truncate(imageURL, 80))

	req, err := http.NewRequestWithContext(ctx, "GET", imageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create download request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("failed to download image: status %d, body: %s", resp.StatusCode, truncate(string(body), 200))
	}

	imageData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}

	log.Printf("✅ Image downloaded successfully: %d bytes", len(imageData))
	return imageData, nil
}

// UploadImage - 이미지를 WebP로 변환해 주어진 키에 업로드하고 공개 URL 반환
func (c *Client) UploadImage(ctx context.Context, imageData []byte, objectKey string) (string, error) {
	cfg := config.GetConfig()

	// WebP 변환 (quality: 90)
	webpData, err := utils.ConvertToWebP(imageData, 90.0)
	if err != nil {
		return "", fmt.Errorf("failed to convert image to WebP: %w", err)
	}

	log.Printf("📤 Uploading WebP image to storage: %s", objectKey)

	// Supabase Storage API URL
	uploadURL := fmt.Sprintf("%s/storage/v1/object/%s/%s", cfg.SupabaseURL, bucketName, objectKey)

	req, err := http.NewRequestWithContext(ctx, "POST", uploadURL, bytes.NewReader(webpData))
	if err != nil {
		return "", fmt.Errorf("failed to create upload request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+cfg.SupabaseServiceKey)
	req.Header.Set("Content-Type", "image/webp")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("upload failed with status %d: %s", resp.StatusCode, string(body))
	}

	publicURL := c.PublicURL(objectKey)
	log.Printf("✅ WebP image uploaded successfully: %s (%d bytes)", objectKey, len(webpData))
	return publicURL, nil
}

// DeleteObject - 업로드 보상 삭제 (DB 기록 실패 시)
func (c *Client) DeleteObject(ctx context.Context, objectKey string) error {
	cfg := config.GetConfig()

	deleteURL := fmt.Sprintf("%s/storage/v1/object/%s/%s", cfg.SupabaseURL, bucketName, objectKey)

	req, err := http.NewRequestWithContext(ctx, "DELETE", deleteURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create delete request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+cfg.SupabaseServiceKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("delete failed with status %d: %s", resp.StatusCode, string(body))
	}

	log.Printf("🗑️  Storage object deleted: %s", objectKey)
	return nil
}

// PublicURL - 오브젝트 키의 공개 URL 생성
func (c *Client) PublicURL(objectKey string) string {
	cfg := config.GetConfig()
	if cfg.SupabaseStorageBaseURL != "" {
		return strings.TrimRight(cfg.SupabaseStorageBaseURL, "/") + "/" + objectKey
	}
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", cfg.SupabaseURL, bucketName, objectKey)
}

// ThumbnailURL - CDN 이미지 변환 엔드포인트 기반 썸네일 URL 생성
func (c *Client) ThumbnailURL(objectKey string) string {
	cfg := config.GetConfig()
	return fmt.Sprintf("%s/storage/v1/render/image/public/%s/%s?width=320", cfg.SupabaseURL, bucketName, objectKey)
}

// truncate - 로그용 문자열 자르기
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
