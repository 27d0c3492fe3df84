package prompts

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"pixshoot-server/modules/common/database"
	"pixshoot-server/modules/common/model"
)

type PromptHandler struct {
	service *Service
}

func NewPromptHandler(service *Service) *PromptHandler {
	return &PromptHandler{service: service}
}

// RegisterRoutes - 라우터에 Prompt 엔드포인트 등록
func (h *PromptHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/api/final-prompt", h.SynthesizePrompts).Methods("POST", "OPTIONS")
	log.Println("✅ Prompt routes registered: /api/final-prompt")
}

// SynthesizePrompts - 최종 프롬프트 합성 요청 처리
func (h *PromptHandler) SynthesizePrompts(w http.ResponseWriter, r *http.Request) {
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

	var req PromptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("❌ Failed to parse request: %v", err)
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{
			"error": "Invalid request format",
		})
		return
	}

	if req.ProductID == "" || req.ProductAnalysis == "" || req.SelectedScene == nil {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{
			"error": "Missing required fields: product_id, product_analysis, selected_scene",
		})
		return
	}

	if !model.ValidType(req.PhotoshootType) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{
			"error": "photoshoot_type must be with_model or product_only",
		})
		return
	}

	if !model.ValidStyle(req.PhotoshootStyle) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{
			"error": "photoshoot_style must be professional or ugc",
		})
		return
	}

	result, err := h.service.SynthesizePrompts(r.Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, database.ErrNotFound):
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{
				"error": "Product or model not found",
			})
		case errors.Is(err, ErrGenerationCountMismatch):
			log.Printf("❌ Prompt count mismatch: %v", err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{
				"error":   "Language model returned wrong number of prompts",
				"details": err.Error(),
			})
		default:
			log.Printf("❌ Failed to synthesize prompts: %v", err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{
				"error": "Failed to synthesize prompts",
			})
		}
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(PromptResponse{
		Success:         true,
		Prompts:         result.Prompts,
		ReferenceImages: result.ReferenceImages,
		ReferenceTags:   result.ReferenceTags,
	})
}
