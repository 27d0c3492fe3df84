package progress

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Client - 진행 스트림을 구독하는 웹소켓 연결
type Client struct {
	conn         *websocket.Conn
	photoshootID string
	send         chan []byte
}

// Hub - 포토샷별 진행 이벤트 브로드캐스터
// 토픽은 photoshoot_id이고, 구독자가 없으면 이벤트는 버려진다.
type Hub struct {
	mu     sync.RWMutex
	topics map[string]map[*Client]bool
}

func NewHub() *Hub {
	return &Hub{
		topics: make(map[string]map[*Client]bool),
	}
}

// Publish - 토픽 구독자 전원에게 이벤트 발행
// photoshoot 서비스의 Publisher 계약을 구현한다.
func (h *Hub) Publish(topic string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("⚠️  [Progress] Failed to marshal event: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.topics[topic] {
		select {
		case client.send <- data:
		default:
			// 밀린 클라이언트는 건너뛴다 (연결 정리는 pump가 담당)
		}
	}
}

// Subscribe - 클라이언트를 토픽에 등록
func (h *Hub) Subscribe(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.topics[client.photoshootID] == nil {
		h.topics[client.photoshootID] = make(map[*Client]bool)
	}
	h.topics[client.photoshootID][client] = true

	log.Printf("📡 [Progress] Client subscribed to photoshoot %s (%d subscribers)",
		client.photoshootID, len(h.topics[client.photoshootID]))
}

// Unsubscribe - 클라이언트 제거, 빈 토픽은 정리
func (h *Hub) Unsubscribe(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	subscribers, ok := h.topics[client.photoshootID]
	if !ok {
		return
	}
	if _, exists := subscribers[client]; !exists {
		return
	}

	delete(subscribers, client)
	close(client.send)

	if len(subscribers) == 0 {
		delete(h.topics, client.photoshootID)
	}

	log.Printf("👋 [Progress] Client left photoshoot %s (%d remaining)",
		client.photoshootID, len(subscribers))
}

// SubscriberCount - 토픽 구독자 수 (상태 조회용)
func (h *Hub) SubscriberCount(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.topics[topic])
}

// writePump - 이벤트를 연결로 흘려보내는 루프
func (c *Client) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump - 연결 종료 감지 (클라이언트 메시지는 무시)
func (c *Client) readPump(hub *Hub) {
	defer hub.Unsubscribe(c)

	c.conn.SetReadLimit(512)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("⚠️  [Progress] Unexpected close: %v", err)
			}
			return
		}
	}
}
