package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/shouni/go-novel-comic/pkg/generator"
	"github.com/shouni/go-novel-comic/pkg/runner"
	"github.com/shouni/go-novel-comic/pkg/workflow"

	"github.com/shouni/go-utils/envutil"
)

// デフォルト値の定義なのだ
const (
	DefaultProjectRoot  = "."
	DefaultHTTPTimeout  = 120 * time.Second
	DefaultImageTimeout = workflow.DefaultImageTimeout
	DefaultTextTimeout  = workflow.DefaultTextTimeout
	DefaultRateInterval = time.Duration(0) // 0 なら呼び出し間隔を制限しないのだ
)

// Config はアプリケーション全体の環境設定（APIキーやストレージ設定）を保持する構造体なのだ。
type Config struct {
	GeminiAPIKey string
	GeminiModel  string

	ImageProvider     string
	ImageGeminiModel  string
	DoubaoAPIKey      string
	DoubaoBaseURL     string
	DoubaoImageModel  string
	DefaultStyleTag   string
	HTTPTimeout       time.Duration
	TextTimeout       time.Duration
	ImageTimeout      time.Duration
	ImageRateInterval time.Duration

	StorageBucket        string
	StoragePublicBaseURL string

	Options Options
}

// Options は CLI フラグから渡される実行時のパラメータなのだ。
type Options struct {
	ProjectRoot      string        // --project-root
	PanelsFile       string        // --panels-file: ステップ2の入力を差し替えるのだ
	ImageOptionsFile string        // --image-options: 画像生成オプションの YAML
	HTTPTimeout      time.Duration // --http-timeout
	Step             int           // --step
	Category         string        // --category: refs コマンドの登録先
}

// LoadConfig は環境変数から設定を読み込み、構造体を返すのだ！
func LoadConfig() *Config {
	return &Config{
		GeminiAPIKey:         envutil.GetEnv("GEMINI_API_KEY", ""),
		GeminiModel:          envutil.GetEnv("GEMINI_MODEL", workflow.DefaultGeminiModel),
		ImageProvider:        envutil.GetEnv("IMAGE_PROVIDER", workflow.DefaultImageProvider),
		ImageGeminiModel:     envutil.GetEnv("IMAGE_GEMINI_MODEL", workflow.DefaultImageModel),
		DoubaoAPIKey:         envutil.GetEnv("DOUBAO_API_KEY", ""),
		DoubaoBaseURL:        envutil.GetEnv("DOUBAO_API_BASE_URL", ""),
		DoubaoImageModel:     envutil.GetEnv("DOUBAO_IMAGE_MODEL_ID", ""),
		DefaultStyleTag:      envutil.GetEnv("DEFAULT_STYLE_TAG", runner.DefaultStyleTag),
		HTTPTimeout:          durationEnv("HTTP_TIMEOUT", DefaultHTTPTimeout),
		TextTimeout:          durationEnv("TEXT_TIMEOUT", DefaultTextTimeout),
		ImageTimeout:         durationEnv("IMAGE_TIMEOUT", DefaultImageTimeout),
		ImageRateInterval:    durationEnv("IMAGE_RATE_INTERVAL", DefaultRateInterval),
		StorageBucket:        envutil.GetEnv("STORAGE_BUCKET", ""),
		StoragePublicBaseURL: envutil.GetEnv("STORAGE_PUBLIC_BASE_URL", ""),
	}
}

// durationEnv は "90s" のような値を読み込むのだ。解釈できなければデフォルトに戻すのだ。
func durationEnv(key string, fallback time.Duration) time.Duration {
	raw := envutil.GetEnv(key, "")
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d < 0 {
		slog.Warn("環境変数の値を解釈できないのでデフォルト値を使うのだ", "key", key, "value", raw, "default", fallback)
		return fallback
	}
	return d
}

// MissingSettingError は必須の環境変数が設定されていないことを表すのだ。
type MissingSettingError struct {
	Name string
}

func (e *MissingSettingError) Error() string {
	return fmt.Sprintf("環境変数 %s が設定されていません", e.Name)
}

// RequireText はテキスト生成（ステップ1, 2）に必要な設定を確認するのだ。
func (c *Config) RequireText() error {
	if c.GeminiAPIKey == "" {
		return &MissingSettingError{Name: "GEMINI_API_KEY"}
	}
	return nil
}

// RequireImage は画像生成（ステップ3）に必要な設定をプロバイダごとに確認するのだ。
func (c *Config) RequireImage() error {
	switch c.ImageProvider {
	case workflow.ProviderDoubao, "":
		for _, s := range []struct{ name, value string }{
			{"DOUBAO_API_KEY", c.DoubaoAPIKey},
			{"DOUBAO_API_BASE_URL", c.DoubaoBaseURL},
			{"DOUBAO_IMAGE_MODEL_ID", c.DoubaoImageModel},
		} {
			if s.value == "" {
				return &MissingSettingError{Name: s.name}
			}
		}
		return nil
	case workflow.ProviderGemini:
		return c.RequireText()
	default:
		return fmt.Errorf("IMAGE_PROVIDER '%s' はサポートされていません (doubao または gemini)", c.ImageProvider)
	}
}

// RequireStorage はリファレンス画像のアップロードに必要な設定を確認するのだ。
func (c *Config) RequireStorage() error {
	if c.StorageBucket == "" {
		return &MissingSettingError{Name: "STORAGE_BUCKET"}
	}
	return nil
}

// ToWorkflowConfig は workflow パッケージ用の設定に変換するのだ。
func (c *Config) ToWorkflowConfig(imageOpts generator.Options) workflow.Config {
	cfg := workflow.DefaultConfig()
	cfg.GeminiAPIKey = c.GeminiAPIKey
	if c.GeminiModel != "" {
		cfg.GeminiModel = c.GeminiModel
	}
	if c.ImageProvider != "" {
		cfg.ImageProvider = c.ImageProvider
	}
	if c.ImageGeminiModel != "" {
		cfg.ImageModel = c.ImageGeminiModel
	}
	cfg.Doubao = generator.DoubaoConfig{
		APIKey:  c.DoubaoAPIKey,
		BaseURL: c.DoubaoBaseURL,
		ModelID: c.DoubaoImageModel,
	}
	cfg.ImageOptions = imageOpts
	if c.DefaultStyleTag != "" {
		cfg.DefaultStyleTag = c.DefaultStyleTag
	}
	if c.TextTimeout > 0 {
		cfg.TextTimeout = c.TextTimeout
	}
	if c.ImageTimeout > 0 {
		cfg.ImageTimeout = c.ImageTimeout
	}
	cfg.RateInterval = c.ImageRateInterval
	cfg.StorageBucket = c.StorageBucket
	cfg.StoragePublicBaseURL = c.StoragePublicBaseURL
	return cfg
}
