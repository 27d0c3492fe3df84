package photoshoot

import "pixshoot-server/modules/common/model"

// CreateRequest - 포토샷 생성 요청
// 1~3단계(분석/장면/프롬프트)의 결과를 스냅샷으로 받아 저장한다.
type CreateRequest struct {
	Name             string       `json:"name"`
	ProductID        string       `json:"product_id"`
	ModelID          string       `json:"model_id,omitempty"`
	PhotoshootType   string       `json:"photoshoot_type"`
	PhotoshootStyle  string       `json:"photoshoot_style"`
	SceneDescription string       `json:"scene_description,omitempty"`
	SelectedScene    *model.Scene `json:"selected_scene,omitempty"`
	ProductAnalysis  string       `json:"product_analysis,omitempty"`
	FinalPrompts     []string     `json:"final_prompts"`
	ReferenceImages  []string     `json:"reference_images"`
	ReferenceTags    []string     `json:"reference_tags"`
}

// GenerateRequest - 이미지 생성 실행 요청
// final_prompts가 실리면 generating 전이 시점에 스냅샷으로 갱신된다.
type GenerateRequest struct {
	PhotoshootID    string   `json:"photoshoot_id"`
	Seed            int64    `json:"seed,omitempty"`
	FinalPrompts    []string `json:"final_prompts,omitempty"`
	ReferenceImages []string `json:"reference_images,omitempty"`
	ReferenceTags   []string `json:"reference_tags,omitempty"`
}

// GenerateResponse - 생성 실행 응답
type GenerateResponse struct {
	Success         bool                   `json:"success"`
	PhotoshootID    string                 `json:"photoshoot_id"`
	Status          string                 `json:"status"`
	ImagesGenerated int                    `json:"images_generated"`
	CreditsUsed     int                    `json:"credits_used"`
	GeneratedImages []model.GeneratedImage `json:"generated_images"`
	Errors          []string               `json:"errors,omitempty"`
	Photoshoot      *model.Photoshoot      `json:"photoshoot,omitempty"`
}

// RunEvent - 생성 런 수준의 진행 이벤트
type RunEvent struct {
	Type           string `json:"type"` // run_started | run_completed | run_failed
	PhotoshootID   string `json:"photoshoot_id"`
	TotalBranches  int    `json:"total_branches,omitempty"`
	SucceededCount int    `json:"succeeded_count,omitempty"`
	FailedCount    int    `json:"failed_count,omitempty"`
	Error          string `json:"error,omitempty"`
}
