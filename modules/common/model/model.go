package model

import "time"

// Photoshoot - pixshoot_photoshoots 테이블 구조
type Photoshoot struct {
	ID               string             `json:"photoshoot_id"`
	UserID           string             `json:"user_id"`
	Name             string             `json:"name"`
	ProductID        string             `json:"product_id"`
	ModelID          *string            `json:"model_id"`
	Type             string             `json:"photoshoot_type"`  // with_model | product_only
	Style            string             `json:"photoshoot_style"` // professional | ugc
	SceneDescription string             `json:"scene_description"`
	Status           string             `json:"status"`
	ImageURL         *string            `json:"image_url"` // 대표 이미지 (하위 호환용 포인터)
	GeneratedImages  []GeneratedImage   `json:"generated_images"`
	CreditsUsed      int                `json:"credits_used"`
	Settings         GenerationSettings `json:"generation_settings"`
	CreatedAt        time.Time          `json:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at"`
}

// GeneratedImage - 팬아웃 브랜치 하나의 성공 결과
type GeneratedImage struct {
	URL          string                 `json:"url"`
	ThumbnailURL string                 `json:"thumbnail_url"`
	Prompt       string                 `json:"prompt"` // 스케일 문장 포함, 실제 전송된 프롬프트
	BranchIndex  int                    `json:"branch_index"`
	IsPrimary    bool                   `json:"is_primary"`
	CreatedAt    time.Time              `json:"created_at"`
	Metadata     map[string]interface{} `json:"metadata,omitempty"`
}

// GenerationSettings - generation_settings JSONB 구조 (버전 명시)
// 재생성 시 1~3단계를 다시 돌지 않기 위한 스냅샷
type GenerationSettings struct {
	Version         int      `json:"version"`
	SelectedScene   *Scene   `json:"selected_scene,omitempty"`
	ProductAnalysis string   `json:"product_analysis,omitempty"`
	FinalPrompts    []string `json:"final_prompts,omitempty"`
	ReferenceImages []string `json:"reference_images,omitempty"`
	ReferenceTags   []string `json:"reference_tags,omitempty"`
	LastError       string   `json:"last_error,omitempty"`
}

// SettingsVersion - 현재 generation_settings 스키마 버전
const SettingsVersion = 1

// Scene - Scene Ideator가 반환하는 구조화된 장면 제안
type Scene struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Setting     string `json:"setting"`
	Lighting    string `json:"lighting"`
	Mood        string `json:"mood"`
}

// Product - pixshoot_products 테이블 구조
type Product struct {
	ID         string                 `json:"product_id"`
	UserID     string                 `json:"user_id"`
	Name       string                 `json:"name"`
	Tag        string                 `json:"tag"` // 프롬프트에서 참조용 슬러그
	ImageURL   string                 `json:"image_url"`
	Dimensions map[string]interface{} `json:"dimensions"` // width/length/depth/unit JSONB
	CreatedAt  time.Time              `json:"created_at"`
}

// ModelProfile - pixshoot_models 테이블 구조
type ModelProfile struct {
	ID        string    `json:"model_id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Tag       string    `json:"tag"`
	ImageURL  string    `json:"image_url"`
	CreatedAt time.Time `json:"created_at"`
}

// Photoshoot status 상수
const (
	StatusPending    = "pending"
	StatusGenerating = "generating"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// Photoshoot type 상수
const (
	TypeWithModel   = "with_model"
	TypeProductOnly = "product_only"
)

// Photoshoot style 상수
const (
	StyleProfessional = "professional"
	StyleUGC          = "ugc"
)

// ValidType - photoshoot_type 검증
func ValidType(t string) bool {
	return t == TypeWithModel || t == TypeProductOnly
}

// ValidStyle - photoshoot_style 검증
func ValidStyle(s string) bool {
	return s == StyleProfessional || s == StyleUGC
}

// HasPrimary - 대표 이미지가 이미 존재하는지 확인
func (p *Photoshoot) HasPrimary() bool {
	for _, img := range p.GeneratedImages {
		if img.IsPrimary {
			return true
		}
	}
	return false
}
