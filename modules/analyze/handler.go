package analyze

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"pixshoot-server/modules/common/database"
)

type AnalyzeHandler struct {
	service *Service
}

func NewAnalyzeHandler(service *Service) *AnalyzeHandler {
	return &AnalyzeHandler{service: service}
}

// RegisterRoutes - 라우터에 Analyze 엔드포인트 등록
func (h *AnalyzeHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/api/analyze-product", h.AnalyzeProduct).Methods("POST", "OPTIONS")
	log.Println("✅ Analyze routes registered: /api/analyze-product")
}

// AnalyzeProduct - 제품 분석 요청 처리
func (h *AnalyzeHandler) AnalyzeProduct(w http.ResponseWriter, r *http.Request) {
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

	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("❌ Failed to parse request: %v", err)
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{
			"error": "Invalid request format",
		})
		return
	}

	if req.ProductID == "" {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{
			"error": "Missing required field: product_id",
		})
		return
	}

	analysis, product, cached, err := h.service.AnalyzeProduct(r.Context(), req.ProductID, userID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{
				"error": "Product not found",
			})
			return
		}
		log.Printf("❌ Failed to analyze product: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{
			"error": "Failed to analyze product",
		})
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(AnalyzeResponse{
		Success:  true,
		Analysis: analysis,
		Product: ProductSummary{
			ID:       product.ID,
			Name:     product.Name,
			ImageURL: product.ImageURL,
		},
		Cached: cached,
	})
}
