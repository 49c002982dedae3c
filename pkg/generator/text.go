package generator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shouni/go-gemini-client/pkg/gemini"
)

// ContentGenerator は gemini.GenerativeModel のうちテキスト生成に使う部分です。
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, prompt string) (*gemini.Response, error)
}

// GeminiTextGenerator は Gemini を使った TextGenerator の実装です。
type GeminiTextGenerator struct {
	client  ContentGenerator
	model   string
	timeout time.Duration
}

// NewGeminiTextGenerator は GeminiTextGenerator を生成します。
func NewGeminiTextGenerator(client ContentGenerator, model string) (*GeminiTextGenerator, error) {
	if client == nil {
		return nil, fmt.Errorf("AIクライアントが nil です")
	}
	if model == "" {
		return nil, fmt.Errorf("テキスト生成モデル名が空です")
	}
	return &GeminiTextGenerator{client: client, model: model}, nil
}

// WithTimeout は1回の呼び出しの上限時間を設定します。0 以下の場合は ctx の期限だけに従います。
func (g *GeminiTextGenerator) WithTimeout(d time.Duration) *GeminiTextGenerator {
	g.timeout = d
	return g
}

// Generate はプロンプトを送信し、応答テキストの前後の空白を除いて返します。
func (g *GeminiTextGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	resp, err := g.client.GenerateContent(ctx, g.model, prompt)
	if err != nil {
		return "", fmt.Errorf("テキスト生成に失敗しました (model: %s): %w", g.model, err)
	}
	if resp == nil {
		return "", fmt.Errorf("テキスト生成の応答が空です (model: %s)", g.model)
	}
	return strings.TrimSpace(resp.Text), nil
}
