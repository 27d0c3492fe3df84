package progress

import (
	"encoding/json"
	"testing"
)

func newTestClient(photoshootID string) *Client {
	return &Client{
		photoshootID: photoshootID,
		send:         make(chan []byte, 4),
	}
}

func TestHubPublishToSubscribers(t *testing.T) {
	hub := NewHub()

	c1 := newTestClient("ps-1")
	c2 := newTestClient("ps-1")
	other := newTestClient("ps-2")

	hub.Subscribe(c1)
	hub.Subscribe(c2)
	hub.Subscribe(other)

	hub.Publish("ps-1", map[string]string{"type": "branch_started"})

	for _, c := range []*Client{c1, c2} {
		select {
		case msg := <-c.send:
			var decoded map[string]string
			if err := json.Unmarshal(msg, &decoded); err != nil {
				t.Fatalf("invalid JSON delivered: %v", err)
			}
			if decoded["type"] != "branch_started" {
				t.Errorf("unexpected event: %v", decoded)
			}
		default:
			t.Fatal("subscriber did not receive event")
		}
	}

	select {
	case <-other.send:
		t.Fatal("event leaked to another topic")
	default:
	}
}

func TestHubPublishNoSubscribers(t *testing.T) {
	hub := NewHub()
	// 구독자가 없어도 패닉 없이 버려진다
	hub.Publish("ps-none", map[string]string{"type": "run_started"})
}

func TestHubUnsubscribe(t *testing.T) {
	hub := NewHub()
	c := newTestClient("ps-1")
	hub.Subscribe(c)

	if got := hub.SubscriberCount("ps-1"); got != 1 {
		t.Fatalf("expected 1 subscriber, got %d", got)
	}

	hub.Unsubscribe(c)

	if got := hub.SubscriberCount("ps-1"); got != 0 {
		t.Fatalf("expected 0 subscribers, got %d", got)
	}

	// send 채널이 닫혔는지 확인
	if _, ok := <-c.send; ok {
		t.Error("send channel should be closed after unsubscribe")
	}

	// 중복 해지는 안전해야 한다
	hub.Unsubscribe(c)
}

func TestHubSlowSubscriberSkipped(t *testing.T) {
	hub := NewHub()
	c := &Client{photoshootID: "ps-1", send: make(chan []byte)} // 버퍼 없음, 수신자 없음
	hub.Subscribe(c)

	// 블로킹 없이 리턴해야 한다
	hub.Publish("ps-1", map[string]string{"type": "branch_completed"})
}
