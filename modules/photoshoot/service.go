package photoshoot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	"pixshoot-server/modules/common/config"
	"pixshoot-server/modules/common/model"
	"pixshoot-server/modules/scale"
)

var (
	// ErrInvalidRequest - 요청 자체가 잘못된 경우 (검증 실패)
	ErrInvalidRequest = errors.New("invalid photoshoot request")

	// ErrInvalidState - 현재 상태에서 허용되지 않는 전이
	ErrInvalidState = errors.New("operation not allowed in current photoshoot status")

	// ErrAllBranchesFailed - 모든 브랜치가 실패한 런
	ErrAllBranchesFailed = errors.New("all generation branches failed")

	// ErrMissingSnapshot - 프롬프트 스냅샷 없이 생성을 시도한 경우
	ErrMissingSnapshot = errors.New("photoshoot has no final prompt snapshot")
)

// Store - 포토샷 영속성 계약 (database.Client가 구현)
type Store interface {
	GetProduct(ctx context.Context, productID, userID string) (*model.Product, error)
	GetModelProfile(ctx context.Context, modelID, userID string) (*model.ModelProfile, error)
	InsertPhotoshoot(ctx context.Context, shoot *model.Photoshoot) (*model.Photoshoot, error)
	GetPhotoshoot(ctx context.Context, photoshootID, userID string) (*model.Photoshoot, error)
	ListPhotoshoots(ctx context.Context, userID string) ([]model.Photoshoot, error)
	UpdatePhotoshootStatus(ctx context.Context, photoshootID, userID, status string) error
	UpdatePhotoshootSettings(ctx context.Context, photoshootID, userID string, settings model.GenerationSettings) error
	AppendGeneratedImages(ctx context.Context, photoshootID, userID string, newImages []model.GeneratedImage, creditsDelta int) error
	AddCreditsUsed(ctx context.Context, photoshootID, userID string, delta int) error
	RecordFailure(ctx context.Context, photoshootID, userID, errorMessage string) error
}

// Ledger - 크레딧 차감 계약 (credit.Client가 구현)
type Ledger interface {
	Debit(ctx context.Context, userID, photoshootID string, imageCount int) (int, error)
}

type Service struct {
	store     Store
	ledger    Ledger
	fanout    *Fanout
	uploader  Uploader
	publisher Publisher
}

func NewService(store Store, ledger Ledger, fanout *Fanout, uploader Uploader, publisher Publisher) *Service {
	return &Service{
		store:     store,
		ledger:    ledger,
		fanout:    fanout,
		uploader:  uploader,
		publisher: publisher,
	}
}

// CreatePhotoshoot - 파이프라인 1~3단계 결과를 스냅샷으로 저장
// 소유권 검증 후 pending 상태로 생성한다.
func (s *Service) CreatePhotoshoot(ctx context.Context, userID string, req CreateRequest) (*model.Photoshoot, error) {
	cfg := config.GetConfig()

	if !model.ValidType(req.PhotoshootType) {
		return nil, fmt.Errorf("%w: photoshoot_type must be with_model or product_only", ErrInvalidRequest)
	}
	if !model.ValidStyle(req.PhotoshootStyle) {
		return nil, fmt.Errorf("%w: photoshoot_style must be professional or ugc", ErrInvalidRequest)
	}

	// 소유권 검증 (타인 리소스는 ErrNotFound)
	if _, err := s.store.GetProduct(ctx, req.ProductID, userID); err != nil {
		return nil, err
	}

	var modelID *string
	if req.PhotoshootType == model.TypeWithModel {
		if req.ModelID == "" {
			return nil, fmt.Errorf("%w: model_id is required for with_model photoshoots", ErrInvalidRequest)
		}
		if _, err := s.store.GetModelProfile(ctx, req.ModelID, userID); err != nil {
			return nil, err
		}
		modelID = &req.ModelID
	}

	if len(req.FinalPrompts) > 0 && len(req.FinalPrompts) != cfg.PromptBatchSize {
		return nil, fmt.Errorf("%w: final_prompts must contain exactly %d prompts, got %d",
			ErrInvalidRequest, cfg.PromptBatchSize, len(req.FinalPrompts))
	}

	shoot := &model.Photoshoot{
		UserID:           userID,
		Name:             req.Name,
		ProductID:        req.ProductID,
		ModelID:          modelID,
		Type:             req.PhotoshootType,
		Style:            req.PhotoshootStyle,
		SceneDescription: req.SceneDescription,
		Status:           model.StatusPending,
		GeneratedImages:  []model.GeneratedImage{},
		Settings: model.GenerationSettings{
			Version:         model.SettingsVersion,
			SelectedScene:   req.SelectedScene,
			ProductAnalysis: req.ProductAnalysis,
			FinalPrompts:    req.FinalPrompts,
			ReferenceImages: req.ReferenceImages,
			ReferenceTags:   req.ReferenceTags,
		},
	}

	created, err := s.store.InsertPhotoshoot(ctx, shoot)
	if err != nil {
		return nil, err
	}

	log.Printf("📸 [Photoshoot] Created %s (type: %s, style: %s) for user %s",
		created.ID, created.Type, created.Style, userID)
	return created, nil
}

// GetPhotoshoot - 단건 조회 (소유권 포함)
func (s *Service) GetPhotoshoot(ctx context.Context, photoshootID, userID string) (*model.Photoshoot, error) {
	return s.store.GetPhotoshoot(ctx, photoshootID, userID)
}

// ListPhotoshoots - 사용자 포토샷 목록 (최신순)
func (s *Service) ListPhotoshoots(ctx context.Context, userID string) ([]model.Photoshoot, error) {
	return s.store.ListPhotoshoots(ctx, userID)
}

// Generate - pending/failed 포토샷의 생성 런 실행
// 요청에 프롬프트 배치가 실리면 generating 전이 시점에 스냅샷을 갱신한다.
func (s *Service) Generate(ctx context.Context, userID string, req GenerateRequest) (*GenerateResponse, error) {
	shoot, err := s.store.GetPhotoshoot(ctx, req.PhotoshootID, userID)
	if err != nil {
		return nil, err
	}

	if shoot.Status != model.StatusPending && shoot.Status != model.StatusFailed {
		return nil, fmt.Errorf("%w: status is %s (use regenerate for completed photoshoots)",
			ErrInvalidState, shoot.Status)
	}

	if len(req.FinalPrompts) > 0 {
		cfg := config.GetConfig()
		if len(req.FinalPrompts) != cfg.PromptBatchSize {
			return nil, fmt.Errorf("%w: final_prompts must contain exactly %d prompts, got %d",
				ErrInvalidRequest, cfg.PromptBatchSize, len(req.FinalPrompts))
		}
		shoot.Settings.FinalPrompts = req.FinalPrompts
		if len(req.ReferenceImages) > 0 {
			shoot.Settings.ReferenceImages = req.ReferenceImages
		}
		if len(req.ReferenceTags) > 0 {
			shoot.Settings.ReferenceTags = req.ReferenceTags
		}
		if err := s.store.UpdatePhotoshootSettings(ctx, shoot.ID, userID, shoot.Settings); err != nil {
			return nil, fmt.Errorf("failed to snapshot prompts: %w", err)
		}
	}

	return s.runGeneration(ctx, shoot, req.Seed)
}

// Regenerate - completed/failed 포토샷을 스냅샷으로 다시 생성
// 기존 generated_images는 보존되고 새 결과가 뒤에 추가된다.
func (s *Service) Regenerate(ctx context.Context, photoshootID, userID string, seed int64) (*GenerateResponse, error) {
	shoot, err := s.store.GetPhotoshoot(ctx, photoshootID, userID)
	if err != nil {
		return nil, err
	}

	if shoot.Status != model.StatusCompleted && shoot.Status != model.StatusFailed {
		return nil, fmt.Errorf("%w: status is %s", ErrInvalidState, shoot.Status)
	}

	return s.runGeneration(ctx, shoot, seed)
}

// runGeneration - 스케일 재유도, 팬아웃 실행, 집계, 크레딧 차감, 상태 전이
func (s *Service) runGeneration(ctx context.Context, shoot *model.Photoshoot, baseSeed int64) (*GenerateResponse, error) {
	basePrompts := shoot.Settings.FinalPrompts
	if len(basePrompts) == 0 {
		return nil, ErrMissingSnapshot
	}

	if baseSeed == 0 {
		baseSeed = time.Now().UnixNano() % 1_000_000_000
	}
	// 브랜치 seed(base + 번호)가 프로바이더의 int32 범위를 넘지 않게 막는다
	if baseSeed < 0 || baseSeed > math.MaxInt32-int64(len(basePrompts)) {
		return nil, fmt.Errorf("%w: seed %d out of range", ErrInvalidRequest, baseSeed)
	}
	runID := fmt.Sprintf("%08x", uint32(baseSeed))

	if err := s.store.UpdatePhotoshootStatus(ctx, shoot.ID, shoot.UserID, model.StatusGenerating); err != nil {
		return nil, err
	}

	// 스케일 문장은 디스패치 직전에 제품에서 다시 유도한다.
	// 프롬프트 배치가 이전 단계에서 캐시됐더라도 치수 변경이 반영된다.
	product, err := s.store.GetProduct(ctx, shoot.ProductID, shoot.UserID)
	if err != nil {
		return nil, s.failRun(ctx, shoot, len(basePrompts),
			fmt.Errorf("failed to load linked product: %w", err))
	}

	prompts := augmentWithScale(basePrompts, scale.Compute(product.Dimensions).Sentence)

	s.publishEvent(shoot.ID, RunEvent{
		Type: "run_started", PhotoshootID: shoot.ID, TotalBranches: len(prompts),
	})

	results := s.fanout.Run(ctx, FanoutParams{
		PhotoshootID:    shoot.ID,
		Prompts:         prompts,
		BaseSeed:        baseSeed,
		RunID:           runID,
		ReferenceImages: shoot.Settings.ReferenceImages,
		ReferenceTags:   shoot.Settings.ReferenceTags,
	})

	newImages, objectKeys, branchErrors := s.collectResults(results, shoot, runID)

	if len(newImages) == 0 {
		err := fmt.Errorf("%w: %s", ErrAllBranchesFailed, strings.Join(branchErrors, "; "))
		return nil, s.failRun(ctx, shoot, len(prompts), err)
	}

	// 영속화가 차감보다 먼저다: 전달되지 않은 이미지에 과금하지 않는다.
	if err := s.store.AppendGeneratedImages(ctx, shoot.ID, shoot.UserID, newImages, 0); err != nil {
		// 업로드는 성공했는데 DB 기록이 실패한 경우 업로드를 보상 삭제하고
		// failed로 전이해 재시도가 가능하게 남긴다
		s.compensateUploads(ctx, objectKeys)
		return nil, s.failRun(ctx, shoot, len(prompts),
			fmt.Errorf("failed to persist generated images: %w", err))
	}

	// 크레딧은 영속화된 이미지에 대해서만, 런이 끝난 뒤 한 번에 차감한다.
	// 차감 실패는 결과를 버리지 않는다 (이미지는 이미 전달됨).
	creditsUsed, err := s.ledger.Debit(ctx, shoot.UserID, shoot.ID, len(newImages))
	if err != nil {
		log.Printf("⚠️  [Photoshoot] Credit debit failed (images are kept): %v", err)
		creditsUsed = 0
	}
	if creditsUsed > 0 {
		if err := s.store.AddCreditsUsed(ctx, shoot.ID, shoot.UserID, creditsUsed); err != nil {
			log.Printf("⚠️  [Photoshoot] Failed to record credits_used: %v", err)
		}
	}

	// 부분 실패는 설정에 기록, 전체 성공이면 이전 에러를 지운다
	settings := shoot.Settings
	settings.LastError = strings.Join(branchErrors, "; ")
	if err := s.store.UpdatePhotoshootSettings(ctx, shoot.ID, shoot.UserID, settings); err != nil {
		log.Printf("⚠️  [Photoshoot] Failed to update settings: %v", err)
	}

	if err := s.store.UpdatePhotoshootStatus(ctx, shoot.ID, shoot.UserID, model.StatusCompleted); err != nil {
		return nil, err
	}

	s.publishEvent(shoot.ID, RunEvent{
		Type: "run_completed", PhotoshootID: shoot.ID,
		TotalBranches:  len(prompts),
		SucceededCount: len(newImages),
		FailedCount:    len(prompts) - len(newImages),
	})

	log.Printf("🎉 [Photoshoot] Run complete for %s: %d succeeded, %d failed, %d credits",
		shoot.ID, len(newImages), len(prompts)-len(newImages), creditsUsed)

	updated, err := s.store.GetPhotoshoot(ctx, shoot.ID, shoot.UserID)
	if err != nil {
		log.Printf("⚠️  [Photoshoot] Failed to reload photoshoot: %v", err)
		updated = nil
	}

	return &GenerateResponse{
		Success:         true,
		PhotoshootID:    shoot.ID,
		Status:          model.StatusCompleted,
		ImagesGenerated: len(newImages),
		CreditsUsed:     creditsUsed,
		GeneratedImages: newImages,
		Errors:          branchErrors,
		Photoshoot:      updated,
	}, nil
}

// failRun - 런 실패 처리: failed 전이 + 원인 기록 + 이벤트 발행
func (s *Service) failRun(ctx context.Context, shoot *model.Photoshoot, totalBranches int, cause error) error {
	s.publishEvent(shoot.ID, RunEvent{
		Type: "run_failed", PhotoshootID: shoot.ID,
		FailedCount: totalBranches, Error: cause.Error(),
	})
	if err := s.store.RecordFailure(ctx, shoot.ID, shoot.UserID, cause.Error()); err != nil {
		log.Printf("⚠️  [Photoshoot] Failed to record failure: %v", err)
	}
	return cause
}

// compensateUploads - DB 기록 실패 시 이미 올라간 오브젝트 정리
func (s *Service) compensateUploads(ctx context.Context, objectKeys []string) {
	for _, key := range objectKeys {
		if err := s.uploader.DeleteObject(ctx, key); err != nil {
			log.Printf("⚠️  [Photoshoot] Compensation delete failed for %s: %v", key, err)
		}
	}
}

// augmentWithScale - 각 프롬프트 뒤에 스케일 문장 부착
func augmentWithScale(prompts []string, sentence string) []string {
	if sentence == "" {
		return prompts
	}
	out := make([]string, len(prompts))
	for i, p := range prompts {
		out[i] = strings.TrimSpace(p) + " " + sentence
	}
	return out
}

// collectResults - 브랜치 결과를 저장용 이미지, 오브젝트 키, 에러 목록으로 집계
// 성공 중 가장 낮은 브랜치 번호가 primary 후보가 된다. 이미 대표
// 이미지가 있는 포토샷(재생성)에는 primary를 새로 표시하지 않는다.
func (s *Service) collectResults(results []BranchResult, shoot *model.Photoshoot, runID string) ([]model.GeneratedImage, []string, []string) {
	var newImages []model.GeneratedImage
	var objectKeys []string
	var branchErrors []string

	primaryAssigned := shoot.HasPrimary()
	now := time.Now().UTC()

	for _, r := range results {
		if r.Err != nil {
			branchErrors = append(branchErrors, fmt.Sprintf("branch %d: %v", r.Index, r.Err))
			continue
		}
		if r.Image == nil {
			continue
		}

		img := model.GeneratedImage{
			URL:          r.Image.URL,
			ThumbnailURL: r.Image.ThumbnailURL,
			Prompt:       r.Image.Prompt,
			BranchIndex:  r.Index,
			CreatedAt:    now,
			Metadata: map[string]interface{}{
				"seed":   r.Image.Seed,
				"run_id": runID,
			},
		}

		if !primaryAssigned {
			img.IsPrimary = true
			primaryAssigned = true
		}

		newImages = append(newImages, img)
		objectKeys = append(objectKeys, r.Image.ObjectKey)
	}

	return newImages, objectKeys, branchErrors
}

func (s *Service) publishEvent(photoshootID string, event RunEvent) {
	if s.publisher != nil {
		s.publisher.Publish(photoshootID, event)
	}
}
