package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"pixshoot-server/modules/analyze"
	"pixshoot-server/modules/common/config"
	"pixshoot-server/modules/common/credit"
	"pixshoot-server/modules/common/database"
	redisclient "pixshoot-server/modules/common/redis"
	"pixshoot-server/modules/common/storage"
	"pixshoot-server/modules/photoshoot"
	"pixshoot-server/modules/progress"
	"pixshoot-server/modules/prompts"
	"pixshoot-server/modules/provider"
	geminiprovider "pixshoot-server/modules/provider/gemini"
	"pixshoot-server/modules/provider/runware"
	"pixshoot-server/modules/scenes"
	"pixshoot-server/modules/worker"
)

// CORS 미들웨어
func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-User-ID")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// 헬스 체크 엔드포인트
func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "healthy",
		"service": "pixshoot-server",
	})
}

func main() {
	// 환경변수 로드
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	// 공용 클라이언트 초기화
	db := database.NewClient()
	storageClient := storage.NewClient()
	creditClient := credit.NewClient()
	rdb := redisclient.Connect(cfg)

	// 이미지 생성 프로바이더 선택
	var generator provider.Generator
	switch cfg.ImageProvider {
	case "runware":
		generator = runware.NewService()
	default:
		generator = geminiprovider.NewService(storageClient)
	}

	// 진행 이벤트 허브
	hub := progress.NewHub()

	// 팬아웃 엔진 + 포토샷 서비스
	fanout := photoshoot.NewFanout(
		generator,
		storageClient,
		hub,
		cfg.MaxConcurrentBranches,
		time.Duration(cfg.BranchTimeoutSeconds)*time.Second,
	)
	photoshootService := photoshoot.NewService(db, creditClient, fanout, storageClient, hub)

	// Redis Queue Worker 시작 (백그라운드)
	if rdb != nil {
		regenWorker := worker.NewWorker(rdb, photoshootService)
		go regenWorker.Start(context.Background())
	} else {
		log.Println("⚠️  Redis unavailable, async regenerate worker disabled")
	}

	// 라우터 설정
	r := mux.NewRouter()
	r.Use(enableCORS)

	r.HandleFunc("/", healthCheck).Methods("GET")
	r.HandleFunc("/health", healthCheck).Methods("GET")

	analyze.NewAnalyzeHandler(analyze.NewService(db, storageClient, rdb)).RegisterRoutes(r)
	scenes.NewSceneHandler(scenes.NewService()).RegisterRoutes(r)
	prompts.NewPromptHandler(prompts.NewService(db)).RegisterRoutes(r)
	photoshoot.NewPhotoshootHandler(photoshootService).RegisterRoutes(r)
	progress.NewProgressHandler(hub).RegisterRoutes(r)

	if enqueueHandler := worker.NewEnqueueHandler(rdb, db); enqueueHandler != nil {
		enqueueHandler.RegisterRoutes(r)
	}

	log.Printf("🚀 Pixshoot server starting on port %s", cfg.Port)
	log.Printf("📡 Progress stream: ws://localhost:%s/ws/progress", cfg.Port)
	log.Printf("❤️  Health check: http://localhost:%s/health", cfg.Port)

	// 서버 시작
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
