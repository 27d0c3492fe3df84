package photoshoot

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"pixshoot-server/modules/common/database"
)

type PhotoshootHandler struct {
	service *Service
}

func NewPhotoshootHandler(service *Service) *PhotoshootHandler {
	return &PhotoshootHandler{service: service}
}

// RegisterRoutes - 라우터에 Photoshoot 엔드포인트 등록
func (h *PhotoshootHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/api/photoshoots", h.CreatePhotoshoot).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/photoshoots", h.ListPhotoshoots).Methods("GET")
	r.HandleFunc("/api/photoshoots/generate", h.Generate).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/photoshoots/{photoshootId}", h.GetPhotoshoot).Methods("GET", "OPTIONS")
	r.HandleFunc("/api/photoshoots/{photoshootId}/regenerate", h.Regenerate).Methods("POST", "OPTIONS")
	log.Println("✅ Photoshoot routes registered: /api/photoshoots, /api/photoshoots/generate, /api/photoshoots/{photoshootId}/regenerate")
}

// CreatePhotoshoot - 포토샷 생성 (pending 상태로 저장)
func (h *PhotoshootHandler) CreatePhotoshoot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("❌ Failed to parse request: %v", err)
		writeError(w, http.StatusBadRequest, "Invalid request format")
		return
	}

	if req.Name == "" || req.ProductID == "" {
		writeError(w, http.StatusBadRequest, "Missing required fields: name, product_id")
		return
	}

	shoot, err := h.service.CreatePhotoshoot(r.Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, database.ErrNotFound):
			writeError(w, http.StatusNotFound, "Product or model not found")
		case errors.Is(err, ErrInvalidRequest):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			log.Printf("❌ Failed to create photoshoot: %v", err)
			writeError(w, http.StatusInternalServerError, "Failed to create photoshoot")
		}
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(shoot)
}

// ListPhotoshoots - 사용자 포토샷 목록
func (h *PhotoshootHandler) ListPhotoshoots(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	shoots, err := h.service.ListPhotoshoots(r.Context(), userID)
	if err != nil {
		log.Printf("❌ Failed to list photoshoots: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to list photoshoots")
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success":     true,
		"photoshoots": shoots,
	})
}

// GetPhotoshoot - 포토샷 단건 조회
func (h *PhotoshootHandler) GetPhotoshoot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	photoshootID := mux.Vars(r)["photoshootId"]
	shoot, err := h.service.GetPhotoshoot(r.Context(), photoshootID, userID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Photoshoot not found")
			return
		}
		log.Printf("❌ Failed to get photoshoot: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to get photoshoot")
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(shoot)
}

// Generate - 생성 런 실행 (동기)
func (h *PhotoshootHandler) Generate(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("❌ Failed to parse request: %v", err)
		writeError(w, http.StatusBadRequest, "Invalid request format")
		return
	}

	if req.PhotoshootID == "" {
		writeError(w, http.StatusBadRequest, "Missing required field: photoshoot_id")
		return
	}

	resp, err := h.service.Generate(r.Context(), userID, req)
	if err != nil {
		h.writeGenerationError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)
}

// Regenerate - 스냅샷 기반 재생성 (동기)
func (h *PhotoshootHandler) Regenerate(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	photoshootID := mux.Vars(r)["photoshootId"]

	var req GenerateRequest
	if r.Body != nil {
		// 바디는 선택 (seed 지정용)
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	resp, err := h.service.Regenerate(r.Context(), photoshootID, userID, req.Seed)
	if err != nil {
		h.writeGenerationError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)
}

// writeGenerationError - 생성 계열 에러를 상태 코드로 매핑
func (h *PhotoshootHandler) writeGenerationError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, database.ErrNotFound):
		writeError(w, http.StatusNotFound, "Photoshoot not found")
	case errors.Is(err, ErrInvalidState):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, ErrInvalidRequest):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrMissingSnapshot):
		writeError(w, http.StatusBadRequest, "Photoshoot has no final prompt snapshot")
	case errors.Is(err, ErrAllBranchesFailed):
		log.Printf("❌ Generation run failed: %v", err)
		writeError(w, http.StatusInternalServerError, "All generation branches failed")
	default:
		log.Printf("❌ Generation error: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to run generation")
	}
}

func requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := r.Header.Get("X-User-ID")
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "X-User-ID header is required")
		return "", false
	}
	return userID, true
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{
		"error": message,
	})
}
