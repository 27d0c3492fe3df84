package prompts

import "pixshoot-server/modules/common/model"

// PromptRequest - 최종 프롬프트 합성 요청
type PromptRequest struct {
	ProductID       string       `json:"product_id"`
	ModelID         string       `json:"model_id,omitempty"`
	PhotoshootType  string       `json:"photoshoot_type"`
	PhotoshootStyle string       `json:"photoshoot_style"`
	ProductAnalysis string       `json:"product_analysis"`
	SelectedScene   *model.Scene `json:"selected_scene"`
}

// PromptResponse - 최종 프롬프트 합성 응답
type PromptResponse struct {
	Success         bool     `json:"success"`
	Prompts         []string `json:"final_prompts"`
	ReferenceImages []string `json:"reference_images"`
	ReferenceTags   []string `json:"reference_tags"`
}

// SynthesisResult - 서비스 계층 합성 결과
type SynthesisResult struct {
	Prompts         []string
	ReferenceImages []string
	ReferenceTags   []string
}
