package scenes

import "pixshoot-server/modules/common/model"

// SceneRequest - 장면 아이디어 요청
type SceneRequest struct {
	ProductAnalysis string `json:"product_analysis"`
	PhotoshootType  string `json:"photoshoot_type"`
	PhotoshootStyle string `json:"photoshoot_style"`
	UserHint        string `json:"user_hint,omitempty"`
}

// SceneResponse - 장면 아이디어 응답
type SceneResponse struct {
	Success bool          `json:"success"`
	Scenes  []model.Scene `json:"scene_ideas"`
}
