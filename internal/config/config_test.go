package config

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/shouni/go-novel-comic/pkg/generator"
	"github.com/shouni/go-novel-comic/pkg/workflow"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Run("未設定ならデフォルト値", func(t *testing.T) {
		for _, key := range []string{"GEMINI_MODEL", "IMAGE_PROVIDER", "DEFAULT_STYLE_TAG", "HTTP_TIMEOUT", "TEXT_TIMEOUT", "IMAGE_TIMEOUT", "IMAGE_RATE_INTERVAL"} {
			t.Setenv(key, "")
			require.NoError(t, os.Unsetenv(key))
		}
		cfg := LoadConfig()
		assert.Equal(t, workflow.DefaultGeminiModel, cfg.GeminiModel)
		assert.Equal(t, workflow.ProviderDoubao, cfg.ImageProvider)
		assert.Equal(t, "水粉暖阳", cfg.DefaultStyleTag)
		assert.Equal(t, DefaultHTTPTimeout, cfg.HTTPTimeout)
		assert.Equal(t, 120*time.Second, cfg.ImageTimeout)
		assert.Equal(t, 300*time.Second, cfg.TextTimeout)
		assert.Zero(t, cfg.ImageRateInterval)
	})

	t.Run("環境変数の値を読み込む", func(t *testing.T) {
		t.Setenv("GEMINI_API_KEY", "gk")
		t.Setenv("IMAGE_PROVIDER", "gemini")
		t.Setenv("IMAGE_TIMEOUT", "45s")
		t.Setenv("TEXT_TIMEOUT", "90s")
		t.Setenv("IMAGE_RATE_INTERVAL", "2s")
		t.Setenv("STORAGE_BUCKET", "refs")

		cfg := LoadConfig()
		assert.Equal(t, "gk", cfg.GeminiAPIKey)
		assert.Equal(t, "gemini", cfg.ImageProvider)
		assert.Equal(t, 45*time.Second, cfg.ImageTimeout)
		assert.Equal(t, 90*time.Second, cfg.TextTimeout)
		assert.Equal(t, 2*time.Second, cfg.ImageRateInterval)
		assert.Equal(t, "refs", cfg.StorageBucket)
	})

	t.Run("解釈できない時間はデフォルトに戻す", func(t *testing.T) {
		t.Setenv("HTTP_TIMEOUT", "soon")
		assert.Equal(t, DefaultHTTPTimeout, LoadConfig().HTTPTimeout)
	})
}

func TestConfig_Require(t *testing.T) {
	t.Run("テキスト生成には GEMINI_API_KEY が必要", func(t *testing.T) {
		err := (&Config{}).RequireText()
		var missing *MissingSettingError
		require.True(t, errors.As(err, &missing))
		assert.Equal(t, "GEMINI_API_KEY", missing.Name)
	})

	t.Run("Doubao は3つの設定がすべて必要", func(t *testing.T) {
		cfg := &Config{ImageProvider: "doubao", DoubaoAPIKey: "k", DoubaoBaseURL: "https://ark.example.com/api/v3"}
		var missing *MissingSettingError
		require.True(t, errors.As(cfg.RequireImage(), &missing))
		assert.Equal(t, "DOUBAO_IMAGE_MODEL_ID", missing.Name)

		cfg.DoubaoImageModel = "m"
		assert.NoError(t, cfg.RequireImage())
	})

	t.Run("Gemini 画像生成は GEMINI_API_KEY を確認する", func(t *testing.T) {
		cfg := &Config{ImageProvider: "gemini"}
		assert.Error(t, cfg.RequireImage())
		cfg.GeminiAPIKey = "gk"
		assert.NoError(t, cfg.RequireImage())
	})

	t.Run("不明なプロバイダ", func(t *testing.T) {
		assert.ErrorContains(t, (&Config{ImageProvider: "dalle"}).RequireImage(), "dalle")
	})

	t.Run("アップロードには STORAGE_BUCKET が必要", func(t *testing.T) {
		assert.Error(t, (&Config{}).RequireStorage())
		assert.NoError(t, (&Config{StorageBucket: "b"}).RequireStorage())
	})
}

func TestConfig_ToWorkflowConfig(t *testing.T) {
	cfg := &Config{
		GeminiAPIKey:      "gk",
		DoubaoAPIKey:      "dk",
		DoubaoBaseURL:     "https://ark.example.com/api/v3",
		DoubaoImageModel:  "seedream",
		ImageRateInterval: time.Second,
		TextTimeout:       time.Minute,
		StorageBucket:     "refs",
	}
	opts := generator.DefaultOptions()
	opts.Seed = 7

	wf := cfg.ToWorkflowConfig(opts)
	assert.Equal(t, "gk", wf.GeminiAPIKey)
	assert.Equal(t, workflow.DefaultGeminiModel, wf.GeminiModel)
	assert.Equal(t, "seedream", wf.Doubao.ModelID)
	assert.Equal(t, int64(7), wf.ImageOptions.Seed)
	assert.Equal(t, "水粉暖阳", wf.DefaultStyleTag)
	assert.Equal(t, "2048x2048", wf.RenderSize)
	assert.Equal(t, time.Second, wf.RateInterval)
	assert.Equal(t, time.Minute, wf.TextTimeout)
	assert.Equal(t, workflow.DefaultImageTimeout, wf.ImageTimeout)
	assert.Equal(t, "refs", wf.StorageBucket)
}
