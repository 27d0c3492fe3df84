package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config 구조체 - 모든 환경변수를 담음
type Config struct {
	// Redis
	RedisHost     string
	RedisPort     string
	RedisUsername string
	RedisPassword string
	RedisUseTLS   bool

	// Supabase
	SupabaseURL            string
	SupabaseServiceKey     string
	SupabaseStorageBaseURL string

	// Gemini API
	GeminiAPIKeys    []string
	GeminiTextModel  string
	GeminiImageModel string

	// Runware API (대체 이미지 생성 프로바이더)
	RunwareAPIKey string
	RunwareAPIURL string

	// Image Provider 선택 (gemini | runware)
	ImageProvider string

	// Server
	Port string

	// Credit
	ImagePerPrice int

	// Pipeline
	PromptBatchSize       int
	BranchTimeoutSeconds  int
	MaxConcurrentBranches int
	AnalysisCacheTTLHours int
}

var globalConfig *Config

// LoadConfig - 환경변수 로드
func LoadConfig() (*Config, error) {
	// .env 파일 로드 (있으면)
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  .env file not found, using environment variables")
	}

	// Redis UseTLS 파싱
	useTLS := true // 기본값
	if tlsStr := os.Getenv("REDIS_USE_TLS"); tlsStr != "" {
		if parsed, err := strconv.ParseBool(tlsStr); err == nil {
			useTLS = parsed
		}
	}

	// Gemini API 키 파싱 (콤마 구분으로 여러 개 지원)
	var geminiKeys []string
	for _, key := range strings.Split(os.Getenv("GEMINI_API_KEYS"), ",") {
		if key = strings.TrimSpace(key); key != "" {
			geminiKeys = append(geminiKeys, key)
		}
	}
	if len(geminiKeys) == 0 {
		if key := strings.TrimSpace(os.Getenv("GEMINI_API_KEY")); key != "" {
			geminiKeys = append(geminiKeys, key)
		}
	}

	globalConfig = &Config{
		// Redis
		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisUsername: getEnv("REDIS_USERNAME", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisUseTLS:   useTLS,

		// Supabase
		SupabaseURL:            getEnv("SUPABASE_URL", ""),
		SupabaseServiceKey:     getEnv("SUPABASE_SERVICE_KEY", ""),
		SupabaseStorageBaseURL: getEnv("SUPABASE_STORAGE_BASE_URL", ""),

		// Gemini API
		GeminiAPIKeys:    geminiKeys,
		GeminiTextModel:  getEnv("GEMINI_TEXT_MODEL", "gemini-2.5-flash"),
		GeminiImageModel: getEnv("GEMINI_IMAGE_MODEL", "gemini-2.5-flash-image"),

		// Runware
		RunwareAPIKey: getEnv("RUNWARE_API_KEY", ""),
		RunwareAPIURL: getEnv("RUNWARE_API_URL", "https://api.runware.ai/v1"),

		// Provider
		ImageProvider: getEnv("IMAGE_PROVIDER", "gemini"),

		// Server
		Port: getEnv("PORT", "8080"),

		// Credit
		ImagePerPrice: getEnvInt("IMAGE_PER_PRICE", 5),

		// Pipeline
		PromptBatchSize:       getEnvInt("PROMPT_BATCH_SIZE", 5),
		BranchTimeoutSeconds:  getEnvInt("BRANCH_TIMEOUT_SECONDS", 180),
		MaxConcurrentBranches: getEnvInt("MAX_CONCURRENT_BRANCHES", 2),
		AnalysisCacheTTLHours: getEnvInt("ANALYSIS_CACHE_TTL_HOURS", 24),
	}

	// 필수 환경변수 검증
	if err := globalConfig.validate(); err != nil {
		return nil, err
	}

	log.Println("✅ Configuration loaded successfully")
	log.Printf("   Redis: %s:%s (TLS: %v)", globalConfig.RedisHost, globalConfig.RedisPort, globalConfig.RedisUseTLS)
	log.Printf("   Supabase: %s", globalConfig.SupabaseURL)
	log.Printf("   Gemini: text=%s, image=%s (%d keys)", globalConfig.GeminiTextModel, globalConfig.GeminiImageModel, len(globalConfig.GeminiAPIKeys))
	log.Printf("   Image provider: %s", globalConfig.ImageProvider)
	log.Printf("   Credit: %d per image, prompt batch %d", globalConfig.ImagePerPrice, globalConfig.PromptBatchSize)

	return globalConfig, nil
}

// GetConfig - 로드된 설정 가져오기
func GetConfig() *Config {
	if globalConfig == nil {
		log.Fatal("❌ Config not loaded. Call LoadConfig() first.")
	}
	return globalConfig
}

// validate - 필수 환경변수 검증
func (c *Config) validate() error {
	if c.RedisHost == "" {
		return fmt.Errorf("REDIS_HOST is required")
	}
	if c.SupabaseURL == "" {
		return fmt.Errorf("SUPABASE_URL is required")
	}
	if c.SupabaseServiceKey == "" {
		return fmt.Errorf("SUPABASE_SERVICE_KEY is required")
	}
	if len(c.GeminiAPIKeys) == 0 {
		return fmt.Errorf("GEMINI_API_KEY is required")
	}
	if c.ImageProvider == "runware" && c.RunwareAPIKey == "" {
		return fmt.Errorf("RUNWARE_API_KEY is required when IMAGE_PROVIDER=runware")
	}
	return nil
}

// getEnv - 환경변수 가져오기 (기본값 지원)
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt - 숫자 환경변수 가져오기 (기본값 지원)
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			return parsed
		}
	}
	return defaultValue
}

// GetRedisAddr - Redis 연결 문자열 생성
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.RedisHost, c.RedisPort)
}
