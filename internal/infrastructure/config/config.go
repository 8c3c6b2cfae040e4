package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ErrMissingAPIKey 缺少必要金鑰
var ErrMissingAPIKey = errors.New("missing api key")

// Config 應用配置
type Config struct {
	App         AppConfig         `mapstructure:"app"`
	Server      ServerConfig      `mapstructure:"server"`
	LLM         LLMConfig         `mapstructure:"llm"`
	Spoonacular SpoonacularConfig `mapstructure:"spoonacular"`
	Completion  CompletionConfig  `mapstructure:"completion"`
	Store       StoreConfig       `mapstructure:"store"`
	Queue       QueueConfig       `mapstructure:"queue"`
	RateLimit   RateLimitConfig   `mapstructure:"rate_limit"`
	Image       ImageConfig       `mapstructure:"image"`
	Output      OutputConfig      `mapstructure:"output"`
	DedupWindow time.Duration     `mapstructure:"dedup_window"`
	LogLevel    string            `mapstructure:"log_level"`
	LogDir      string            `mapstructure:"log_dir"`
}

// AppConfig 應用程式設定
type AppConfig struct {
	Env     string `mapstructure:"env"`
	Debug   bool   `mapstructure:"debug"`
	Version string `mapstructure:"version"`
	Name    string `mapstructure:"name"`
}

// ServerConfig 服務器配置
type ServerConfig struct {
	Port           int           `mapstructure:"port" validate:"min=1,max=65535"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	MaxBodyBytes   int64         `mapstructure:"max_body_bytes"`
}

// LLMConfig 模型供應商設定
type LLMConfig struct {
	Provider    string        `mapstructure:"provider" validate:"oneof=openai anthropic gemini openrouter"`
	APIKey      string        `mapstructure:"api_key"`
	Model       string        `mapstructure:"model" validate:"required"`
	Temperature float64       `mapstructure:"temperature" validate:"gte=0,lte=2"`
	MaxTokens   int           `mapstructure:"max_tokens" validate:"gt=0"`
	Timeout     time.Duration `mapstructure:"timeout"`
	BaseURL     string        `mapstructure:"base_url"`
}

// SpoonacularConfig 食譜目錄設定
type SpoonacularConfig struct {
	APIKey  string        `mapstructure:"api_key"`
	BaseURL string        `mapstructure:"base_url" validate:"required,url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// CompletionConfig 重試與記憶化設定
type CompletionConfig struct {
	MaxAttempts int           `mapstructure:"max_attempts" validate:"min=1"`
	BackoffMin  time.Duration `mapstructure:"backoff_min"`
	BackoffMax  time.Duration `mapstructure:"backoff_max"`
	Multiplier  time.Duration `mapstructure:"multiplier"`
	MemoSize    int           `mapstructure:"memo_size" validate:"min=0"`
}

// StoreConfig 結果存放設定
type StoreConfig struct {
	Backend         string        `mapstructure:"backend" validate:"oneof=memory redis"`
	RedisAddr       string        `mapstructure:"redis_addr"`
	RedisPassword   string        `mapstructure:"redis_password"`
	RedisDB         int           `mapstructure:"redis_db"`
	MaxSize         int           `mapstructure:"max_size"`
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// QueueConfig 任務隊列設定
type QueueConfig struct {
	Workers    int           `mapstructure:"workers"`
	MaxSize    int           `mapstructure:"max_size"`
	JobTimeout time.Duration `mapstructure:"job_timeout"`
}

// RateLimitConfig 速率限制配置
type RateLimitConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
}

// ImageConfig 圖片下載設定
type ImageConfig struct {
	MaxSizeBytes int64         `mapstructure:"max_size_bytes"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

// OutputConfig CLI 輸出設定
type OutputConfig struct {
	Path   string `mapstructure:"path"`
	Format string `mapstructure:"format" validate:"oneof=pdf json yaml"`
}

// LoadConfig 載入設定
func LoadConfig() (*Config, error) {
	return Load(viper.New())
}

// Load 以指定的 viper 實例載入設定，方便 CLI 綁定旗標
func Load(v *viper.Viper) (*Config, error) {
	// 加載 .env 文件，不存在時略過
	_ = godotenv.Load()

	setDefaults(v)

	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bindEnv(v)

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// bindEnv 綁定環境變量，同時接受舊版名稱
func bindEnv(v *viper.Viper) {
	_ = v.BindEnv("llm.api_key", "LLM_API_KEY", "OPENAI_API_KEY", "API_KEY")
	_ = v.BindEnv("llm.provider", "LLM_PROVIDER")
	_ = v.BindEnv("llm.model", "LLM_MODEL")
	_ = v.BindEnv("llm.max_tokens", "MODEL_MAX_TOKENS")
	_ = v.BindEnv("llm.base_url", "LLM_BASE_URL")
	_ = v.BindEnv("spoonacular.api_key", "SPOONACULAR_API_KEY", "spoonacular_API")
	_ = v.BindEnv("spoonacular.base_url", "SPOONACULAR_BASE_URL")
	_ = v.BindEnv("completion.memo_size", "COMPLETION_MEMO_SIZE")
	_ = v.BindEnv("store.backend", "STORE_BACKEND")
	_ = v.BindEnv("store.redis_addr", "REDIS_ADDR")
	_ = v.BindEnv("store.redis_password", "REDIS_PASSWORD")
	_ = v.BindEnv("rate_limit.enabled", "RATE_LIMIT_ENABLED")
	_ = v.BindEnv("rate_limit.requests", "RATE_LIMIT_REQUESTS")
	_ = v.BindEnv("rate_limit.window", "RATE_LIMIT_WINDOW")
	_ = v.BindEnv("dedup_window", "DEDUP_WINDOW")
	_ = v.BindEnv("log_level", "LOG_LEVEL")
	_ = v.BindEnv("log_dir", "LOG_DIR")
	_ = v.BindEnv("server.port", "PORT")
}

// setDefaults 設定預設值
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", "development")
	v.SetDefault("app.debug", false)
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.name", "recipe-finder")

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "180s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.request_timeout", "150s")
	v.SetDefault("server.max_body_bytes", 1<<20)

	// 模型固定參數
	v.SetDefault("llm.provider", "openai")
	v.SetDefault("llm.model", "gpt-4o")
	v.SetDefault("llm.temperature", 0.75)
	v.SetDefault("llm.max_tokens", 4096)
	v.SetDefault("llm.timeout", "90s")

	v.SetDefault("spoonacular.base_url", "https://api.spoonacular.com")
	v.SetDefault("spoonacular.timeout", "20s")

	v.SetDefault("completion.max_attempts", 3)
	v.SetDefault("completion.backoff_min", "4s")
	v.SetDefault("completion.backoff_max", "15s")
	v.SetDefault("completion.multiplier", "1s")
	v.SetDefault("completion.memo_size", 8)

	v.SetDefault("store.backend", "memory")
	v.SetDefault("store.redis_addr", "localhost:6379")
	v.SetDefault("store.max_size", 1000)
	v.SetDefault("store.ttl", "24h")
	v.SetDefault("store.cleanup_interval", "10m")

	v.SetDefault("queue.workers", 4)
	v.SetDefault("queue.max_size", 100)
	v.SetDefault("queue.job_timeout", "5m")

	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.requests", 60)
	v.SetDefault("rate_limit.window", "1m")

	v.SetDefault("image.max_size_bytes", 10*1024*1024) // 10MB
	v.SetDefault("image.timeout", "15s")

	v.SetDefault("output.path", "output/result.pdf")
	v.SetDefault("output.format", "pdf")

	v.SetDefault("dedup_window", "1s")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_dir", "logs")
}

// validateConfig 驗證設定
func validateConfig(cfg *Config) error {
	// 金鑰缺失必須在任何流程開始前報錯
	if strings.TrimSpace(cfg.LLM.APIKey) == "" {
		return fmt.Errorf("%w: completion provider (set LLM_API_KEY, OPENAI_API_KEY or API_KEY)", ErrMissingAPIKey)
	}
	if strings.TrimSpace(cfg.Spoonacular.APIKey) == "" {
		return fmt.Errorf("%w: recipe catalog (set SPOONACULAR_API_KEY or spoonacular_API)", ErrMissingAPIKey)
	}

	if err := validator.New().Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed on %s", fe.Namespace(), fe.Tag()))
			}
			return errors.New(strings.Join(msgs, "; "))
		}
		return err
	}

	if cfg.Completion.BackoffMin > cfg.Completion.BackoffMax {
		return fmt.Errorf("completion backoff_min must not exceed backoff_max")
	}
	if cfg.Queue.Workers <= 0 {
		return fmt.Errorf("invalid queue workers")
	}
	if cfg.Queue.MaxSize <= 0 {
		return fmt.Errorf("invalid queue max size")
	}
	if cfg.Store.Backend == "memory" && cfg.Store.MaxSize <= 0 {
		return fmt.Errorf("invalid store max size")
	}
	return nil
}
