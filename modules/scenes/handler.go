package scenes

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"pixshoot-server/modules/common/model"
)

type SceneHandler struct {
	service *Service
}

func NewSceneHandler(service *Service) *SceneHandler {
	return &SceneHandler{service: service}
}

// RegisterRoutes - 라우터에 Scene 엔드포인트 등록
func (h *SceneHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/api/scene-ideas", h.GenerateSceneIdeas).Methods("POST", "OPTIONS")
	log.Println("✅ Scene routes registered: /api/scene-ideas")
}

// GenerateSceneIdeas - 장면 아이디어 생성 요청 처리
func (h *SceneHandler) GenerateSceneIdeas(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	userID := r.Header.Get("X-User-ID")
	if userID == "" {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{
			"error": "X-User-ID header is required",
		})
		return
	}

	var req SceneRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("❌ Failed to parse request: %v", err)
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{
			"error": "Invalid request format",
		})
		return
	}

	if req.ProductAnalysis == "" {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{
			"error": "Missing required field: product_analysis",
		})
		return
	}

	if req.PhotoshootType != "" && !model.ValidType(req.PhotoshootType) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{
			"error": "photoshoot_type must be with_model or product_only",
		})
		return
	}

	if req.PhotoshootStyle != "" && !model.ValidStyle(req.PhotoshootStyle) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{
			"error": "photoshoot_style must be professional or ugc",
		})
		return
	}

	ideas, err := h.service.GenerateSceneIdeas(r.Context(), req)
	if err != nil {
		log.Printf("❌ Failed to generate scene ideas: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{
			"error": "Failed to generate scene ideas",
		})
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(SceneResponse{
		Success: true,
		Scenes:  ideas,
	})
}
