package progress

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// 개발용 - 모든 origin 허용
		return true
	},
}

type ProgressHandler struct {
	hub *Hub
}

func NewProgressHandler(hub *Hub) *ProgressHandler {
	return &ProgressHandler{hub: hub}
}

// RegisterRoutes - 라우터에 Progress 엔드포인트 등록
func (h *ProgressHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/ws/progress", h.StreamProgress)
	r.HandleFunc("/api/progress/{photoshootId}/subscribers", h.GetSubscribers).Methods("GET")
	log.Println("✅ Progress routes registered: /ws/progress")
}

// StreamProgress - 포토샷 진행 이벤트 웹소켓 스트림
// ?photoshoot_id=... 쿼리로 구독 대상을 지정한다.
func (h *ProgressHandler) StreamProgress(w http.ResponseWriter, r *http.Request) {
	photoshootID := r.URL.Query().Get("photoshoot_id")
	if photoshootID == "" {
		http.Error(w, "photoshoot_id query parameter is required", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("❌ [Progress] WebSocket upgrade failed: %v", err)
		return
	}

	client := &Client{
		conn:         conn,
		photoshootID: photoshootID,
		send:         make(chan []byte, 64),
	}

	h.hub.Subscribe(client)

	go client.writePump()
	go client.readPump(h.hub)
}

// GetSubscribers - 토픽 구독자 수 조회
func (h *ProgressHandler) GetSubscribers(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	photoshootID := mux.Vars(r)["photoshootId"]
	json.NewEncoder(w).Encode(map[string]interface{}{
		"photoshoot_id": photoshootID,
		"subscribers":   h.hub.SubscriberCount(photoshootID),
	})
}
