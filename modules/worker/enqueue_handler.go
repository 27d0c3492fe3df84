package worker

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"

	"pixshoot-server/modules/common/database"
	"pixshoot-server/modules/common/model"
)

// Lookup - 인큐 전 포토샷 검증용 조회 계약
type Lookup interface {
	GetPhotoshoot(ctx context.Context, photoshootID, userID string) (*model.Photoshoot, error)
}

// EnqueueHandler - 비동기 재생성 인큐 핸들러
type EnqueueHandler struct {
	rdb    *redis.Client
	lookup Lookup
}

// EnqueueRequest - Enqueue 요청
type EnqueueRequest struct {
	PhotoshootID string `json:"photoshoot_id"`
	Seed         int64  `json:"seed,omitempty"`
}

// EnqueueResponse - Enqueue 응답
type EnqueueResponse struct {
	Success       bool   `json:"success"`
	Message       string `json:"message,omitempty"`
	Error         string `json:"error,omitempty"`
	PhotoshootID  string `json:"photoshoot_id,omitempty"`
	Queue         string `json:"queue,omitempty"`
	QueuePosition int64  `json:"queuePosition,omitempty"`
}

func NewEnqueueHandler(rdb *redis.Client, lookup Lookup) *EnqueueHandler {
	if rdb == nil {
		log.Println("⚠️ [Enqueue] No Redis connection, async regenerate disabled")
		return nil
	}

	log.Println("✅ [Enqueue] Handler initialized with Redis connection")
	return &EnqueueHandler{rdb: rdb, lookup: lookup}
}

// RegisterRoutes - 라우트 등록
func (h *EnqueueHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/api/enqueue", h.HandleEnqueue).Methods("POST", "OPTIONS")
	log.Println("✅ Enqueue routes registered: /api/enqueue")
}

// HandleEnqueue - 재생성 작업을 큐에 넣고 대기 순번 반환
func (h *EnqueueHandler) HandleEnqueue(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	userID := r.Header.Get("X-User-ID")
	if userID == "" {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(EnqueueResponse{
			Success: false,
			Error:   "X-User-ID header is required",
		})
		return
	}

	var req EnqueueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("❌ [Enqueue] Invalid request: %v", err)
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(EnqueueResponse{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	if req.PhotoshootID == "" {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(EnqueueResponse{
			Success: false,
			Error:   "photoshoot_id is required",
		})
		return
	}

	// 소유권과 존재 여부를 인큐 전에 확인
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	shoot, err := h.lookup.GetPhotoshoot(ctx, req.PhotoshootID, userID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(EnqueueResponse{
				Success: false,
				Error:   "Photoshoot not found",
			})
			return
		}
		log.Printf("❌ [Enqueue] Lookup failed: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(EnqueueResponse{
			Success: false,
			Error:   "Failed to verify photoshoot",
		})
		return
	}

	if shoot.Status == model.StatusGenerating {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(EnqueueResponse{
			Success: false,
			Error:   "Photoshoot is already generating",
		})
		return
	}

	payload, _ := json.Marshal(RegenerateJob{
		PhotoshootID: req.PhotoshootID,
		UserID:       userID,
		Seed:         req.Seed,
	})

	if _, err := h.rdb.LPush(ctx, QueueKey, payload).Result(); err != nil {
		log.Printf("❌ [Enqueue] Redis LPUSH failed: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(EnqueueResponse{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	queueLen, _ := h.rdb.LLen(ctx, QueueKey).Result()

	log.Printf("✅ [Enqueue] Photoshoot %s enqueued (position: %d)", req.PhotoshootID, queueLen)

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(EnqueueResponse{
		Success:       true,
		Message:       "Regenerate job enqueued successfully",
		PhotoshootID:  req.PhotoshootID,
		Queue:         QueueKey,
		QueuePosition: queueLen,
	})
}
