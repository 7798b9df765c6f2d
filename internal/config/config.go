package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	SMTP     SMTPConfig
	LLM      LLMConfig
	Pipeline PipelineConfig
	RAG      RAGConfig
	DualRate DualRateConfig
	Weather  WeatherConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	ClientURL          string
	Environment        string
	LogFilePath        string
	AuditLogFilePath   string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
}

type DatabaseConfig struct {
	Connection string
}

type SMTPConfig struct {
	Host       string
	Port       int
	Email      string
	Password   string
	SenderName string
}

type LLMConfig struct {
	Provider       string // "openai", "vectorengine" or "github"
	APIKey         string
	APIBase        string
	Model          string
	ResponseFormat string // "json_object" or "json_schema"
	TimeoutSeconds int
	MaxRetries     int

	EmbeddingModel string
}

type PipelineConfig struct {
	AuditLog         bool
	EnableBudgetRisk bool
}

type RAGConfig struct {
	Enabled    bool
	TopK       int
	UseKB      bool
	UseMemory  bool
	UseWeather bool
}

type DualRateConfig struct {
	Enabled        bool
	FastTokens     int
	SlowTokens     int
	SlowEvery      int
	SlowImportance float64
	RecentKeep     int
}

type WeatherConfig struct {
	MCPEnabled bool
	MCPURL     string
	MCPToken   string
	CacheTTL   int // minutes; 0 uses the package default
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	provider := strings.ToLower(strings.TrimSpace(getEnv("LLM_PROVIDER", "openai")))

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			ClientURL:          getEnv("CLIENT_URL", "http://localhost:5173"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			AuditLogFilePath:   getEnv("AUDIT_LOG_FILE_PATH", "pipeline_audit.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Email:      getEnv("SMTP_EMAIL", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			SenderName: getEnv("SMTP_SENDER_NAME", "TravelPlanner"),
		},
		LLM: LLMConfig{
			Provider:       provider,
			APIKey:         getEnv("LLM_API_KEY", ""),
			APIBase:        getEnv("LLM_API_BASE", defaultAPIBase(provider)),
			Model:          getEnv("LLM_MODEL", defaultModel(provider)),
			ResponseFormat: getEnv("LLM_RESPONSE_FORMAT", "json_object"),
			TimeoutSeconds: getEnvAsInt("LLM_TIMEOUT_SECONDS", 60),
			MaxRetries:     getEnvAsInt("LLM_MAX_RETRIES", 2),
			EmbeddingModel: getEnv("EMBEDDING_MODEL", "text-embedding-3-small"),
		},
		Pipeline: PipelineConfig{
			AuditLog:         getEnvAsBool("AGENT_AUDIT_LOG", false),
			EnableBudgetRisk: getEnvAsBool("ENABLE_BUDGET_RISK", false),
		},
		RAG: RAGConfig{
			Enabled:    getEnvAsBool("RAG_ENABLED", false),
			TopK:       getEnvAsInt("RAG_TOP_K", 4),
			UseKB:      getEnvAsBool("RAG_USE_KB", true),
			UseMemory:  getEnvAsBool("RAG_USE_MEMORY", true),
			UseWeather: getEnvAsBool("RAG_USE_WEATHER", true),
		},
		DualRate: DualRateConfig{
			Enabled:        getEnvAsBool("DUAL_RATE_ENABLED", false),
			FastTokens:     getEnvAsInt("DUAL_RATE_FAST_TOKENS", 250),
			SlowTokens:     getEnvAsInt("DUAL_RATE_SLOW_TOKENS", 300),
			SlowEvery:      getEnvAsInt("DUAL_RATE_SLOW_EVERY", 4),
			SlowImportance: getEnvAsFloat("DUAL_RATE_SLOW_IMPORTANCE", 3.0),
			RecentKeep:     getEnvAsInt("DUAL_RATE_RECENT_KEEP", 1),
		},
		Weather: WeatherConfig{
			MCPEnabled: getEnvAsBool("MCP_ENABLED", false),
			MCPURL:     getEnv("MCP_WEATHER_URL", ""),
			MCPToken:   getEnv("MCP_TOKEN", ""),
			CacheTTL:   getEnvAsInt("WEATHER_CACHE_TTL_MINUTES", 30),
		},
	}
}

func defaultAPIBase(provider string) string {
	switch provider {
	case "github":
		return "https://models.github.ai/inference"
	case "vectorengine":
		return "https://api.vectorengine.ai/v1"
	default:
		return "https://api.openai.com/v1"
	}
}

func defaultModel(provider string) string {
	if provider == "github" {
		return "openai/gpt-4.1"
	}
	return "gpt-4o-mini"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := strings.ToLower(strings.TrimSpace(getEnv(key, "")))
	switch strValue {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	default:
		return fallback
	}
}
