package credit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/supabase-community/supabase-go"

	"pixshoot-server/modules/common/config"
)

// ErrInsufficientCredits - 사용 차감이 잔액을 음수로 만들 때
var ErrInsufficientCredits = errors.New("insufficient credits")

type Client struct {
	supabase *supabase.Client
}

// NewClient - Credit 클라이언트 생성
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

// Debit - 성공 이미지 수만큼 크레딧 차감, 단일 트랜잭션 기록
// 차감액 = imageCount × ImagePerPrice. 잔액이 부족하면 ErrInsufficientCredits.
func (c *Client) Debit(ctx context.Context, userID, photoshootID string, imageCount int) (int, error) {
	cfg := config.GetConfig()
	totalCredits := imageCount * cfg.ImagePerPrice

	if totalCredits == 0 {
		return 0, nil
	}

	log.Printf("💰 Deducting credits: User=%s, Images=%d, Total=%d credits", userID, imageCount, totalCredits)

	// 1. 현재 크레딧 조회
	var members []struct {
		Credit int `json:"credit"`
	}

	data, _, err := c.supabase.From("pixshoot_members").
		Select("credit", "", false).
		Eq("member_id", userID).
		Execute()

	if err != nil {
		return 0, fmt.Errorf("failed to fetch user credits: %w", err)
	}

	if err := json.Unmarshal(data, &members); err != nil {
		return 0, fmt.Errorf("failed to parse member data: %w", err)
	}

	if len(members) == 0 {
		return 0, fmt.Errorf("user not found: %s", userID)
	}

	currentCredits := members[0].Credit
	newBalance := currentCredits - totalCredits

	// 사용 차감은 잔액을 음수로 만들 수 없음
	if newBalance < 0 {
		return 0, fmt.Errorf("balance %d, needed %d: %w", currentCredits, totalCredits, ErrInsufficientCredits)
	}

	log.Printf("💰 Credit balance: %d → %d (-%d)", currentCredits, newBalance, totalCredits)

	// 2. 크레딧 차감
	_, _, err = c.supabase.From("pixshoot_members").
		Update(map[string]interface{}{
			"credit": newBalance,
		}, "", "").
		Eq("member_id", userID).
		Execute()

	if err != nil {
		return 0, fmt.Errorf("failed to deduct credits: %w", err)
	}

	// 3. 트랜잭션 기록 (photoshoot 단위로 한 건)
	transactionData := map[string]interface{}{
		"user_id":          userID,
		"transaction_type": "USAGE",
		"amount":           -totalCredits,
		"balance_after":    newBalance,
		"description":      "Photoshoot image generation",
		"photoshoot_id":    photoshootID,
		"image_count":      imageCount,
	}

	_, _, err = c.supabase.From("pixshoot_credits").
		Insert(transactionData, false, "", "", "").
		Execute()

	if err != nil {
		// 잔액은 이미 차감됨 - 기록 실패만 로그
		log.Printf("⚠️  Failed to record credit transaction for photoshoot %s: %v", photoshootID, err)
	}

	log.Printf("✅ Credits deducted successfully: %d credits from user %s", totalCredits, userID)
	return totalCredits, nil
}
