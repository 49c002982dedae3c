package workflow

import (
	"time"

	"github.com/shouni/go-novel-comic/pkg/generator"
	"github.com/shouni/go-novel-comic/pkg/runner"
)

const (
	ProviderDoubao = "doubao"
	ProviderGemini = "gemini"
)

// デフォルト値の定義なのだ
const (
	DefaultGeminiModel   = "gemini-3-flash-preview"
	DefaultImageModel    = "gemini-3-pro-image-preview"
	DefaultImageProvider = ProviderDoubao
	DefaultImageTimeout  = 120 * time.Second
	DefaultTextTimeout   = 300 * time.Second
)

// Config は各 Runner を動作させるための基本設定なのだ。
type Config struct {
	// --- Text Generation ---
	GeminiAPIKey string
	GeminiModel  string
	TextTimeout  time.Duration // テキスト生成1回あたりの上限なのだ

	// --- Image Generation ---
	ImageProvider string
	ImageModel    string // ImageProvider が gemini の場合のモデル名
	Doubao        generator.DoubaoConfig
	ImageOptions  generator.Options

	// --- Rendering ---
	DefaultStyleTag string
	RenderSize      string
	RenderStyle     string
	ImageTimeout    time.Duration
	RateInterval    time.Duration // 0 の場合は画像生成の呼び出し間隔を制限しない

	// --- Reference Storage ---
	StorageBucket        string
	StoragePublicBaseURL string
	StorageKeyPrefix     string
}

// DefaultConfig は推奨されるデフォルト設定を返すのだ。
func DefaultConfig() Config {
	return Config{
		GeminiModel:      DefaultGeminiModel,
		ImageProvider:    DefaultImageProvider,
		TextTimeout:      DefaultTextTimeout,
		ImageModel:       DefaultImageModel,
		ImageOptions:     generator.DefaultOptions(),
		DefaultStyleTag:  runner.DefaultStyleTag,
		RenderSize:       runner.DefaultRenderSize,
		RenderStyle:      runner.DefaultRenderStyle,
		ImageTimeout:     DefaultImageTimeout,
		StorageKeyPrefix: runner.DefaultKeyPrefix,
	}
}
