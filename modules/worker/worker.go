package worker

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"pixshoot-server/modules/photoshoot"
)

// QueueKey - 재생성 작업 큐
const QueueKey = "photoshoot:jobs"

// RegenerateJob - 큐에 들어가는 작업 페이로드
type RegenerateJob struct {
	PhotoshootID string `json:"photoshoot_id"`
	UserID       string `json:"user_id"`
	Seed         int64  `json:"seed,omitempty"`
}

// Runner - 워커가 호출하는 재생성 계약 (photoshoot.Service가 구현)
type Runner interface {
	Regenerate(ctx context.Context, photoshootID, userID string, seed int64) (*photoshoot.GenerateResponse, error)
}

// Worker - Redis Queue에서 재생성 작업을 꺼내 처리
type Worker struct {
	rdb    *redis.Client
	runner Runner
}

func NewWorker(rdb *redis.Client, runner Runner) *Worker {
	return &Worker{rdb: rdb, runner: runner}
}

// Start - Queue 감시 루프 (고루틴으로 실행)
func (w *Worker) Start(ctx context.Context) {
	log.Println("🔄 Regenerate queue worker starting...")
	log.Printf("👀 Watching queue: %s", QueueKey)

	for {
		select {
		case <-ctx.Done():
			log.Println("🛑 Worker stopped")
			return
		default:
		}

		// Job 받기 (BRPOP - Blocking Right Pop)
		result, err := w.rdb.BRPop(ctx, 5*time.Second, QueueKey).Result()
		if err != nil {
			if err == redis.Nil {
				continue // 타임아웃, 다시 감시
			}
			if ctx.Err() != nil {
				return
			}
			log.Printf("❌ Redis BRPOP error: %v", err)
			time.Sleep(3 * time.Second)
			continue
		}

		// result[0]은 큐 이름, result[1]이 실제 페이로드
		w.processJob(ctx, result[1])
	}
}

// processJob - 작업 하나 처리 (실패해도 루프는 계속)
func (w *Worker) processJob(ctx context.Context, payload string) {
	var job RegenerateJob
	if err := json.Unmarshal([]byte(payload), &job); err != nil {
		log.Printf("❌ [Worker] Invalid job payload, dropping: %v", err)
		return
	}

	if job.PhotoshootID == "" || job.UserID == "" {
		log.Printf("❌ [Worker] Job missing photoshoot_id or user_id, dropping")
		return
	}

	log.Printf("🎬 ========== Processing regenerate job: %s ==========", job.PhotoshootID)

	resp, err := w.runner.Regenerate(ctx, job.PhotoshootID, job.UserID, job.Seed)
	if err != nil {
		log.Printf("❌ [Worker] Regenerate failed for %s: %v", job.PhotoshootID, err)
		return
	}

	log.Printf("✅ [Worker] Regenerate complete for %s: %d succeeded, %d failed",
		job.PhotoshootID, resp.ImagesGenerated, len(resp.Errors))
}
