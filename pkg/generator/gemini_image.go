package generator

import (
	"context"
	"fmt"
	"strings"

	imagedom "github.com/shouni/gemini-image-kit/pkg/domain"
)

// PageGenerator は gemini-image-kit の画像生成器のうち、複数参照画像つき生成に使う部分です。
type PageGenerator interface {
	GenerateMangaPage(ctx context.Context, req imagedom.ImagePageRequest) (*imagedom.ImageResponse, error)
}

// GeminiImageGenerator は gemini-image-kit を使う ImageGenerator の実装です。
type GeminiImageGenerator struct {
	pageGen PageGenerator
	opts    Options
}

// NewGeminiImageGenerator は GeminiImageGenerator を生成します。
func NewGeminiImageGenerator(pageGen PageGenerator, opts Options) (*GeminiImageGenerator, error) {
	if pageGen == nil {
		return nil, fmt.Errorf("pageGen は必須です")
	}
	return &GeminiImageGenerator{pageGen: pageGen, opts: opts}, nil
}

// Generate は参照画像つきで1枚の画像を生成します。
// Size は縦横比に変換し、Style はプロンプト末尾に付け加えます。
func (g *GeminiImageGenerator) Generate(ctx context.Context, req ImageRequest) (*imagedom.ImageResponse, error) {
	size := req.Size
	if size == "" {
		size = g.opts.Size
	}
	style := req.Style
	if style == "" {
		style = g.opts.Style
	}

	prompt := req.Prompt
	if style != "" {
		prompt = fmt.Sprintf("%s\n\nStyle: %s", prompt, style)
	}
	seed := g.opts.Seed

	resp, err := g.pageGen.GenerateMangaPage(ctx, imagedom.ImagePageRequest{
		Prompt:         prompt,
		NegativePrompt: g.opts.NegativePrompt,
		AspectRatio:    AspectRatio(size),
		ReferenceURLs:  req.ReferenceURLs,
		Seed:           &seed,
	})
	if err != nil {
		return nil, fmt.Errorf("Gemini 画像生成に失敗しました: %w", err)
	}
	if resp == nil || len(resp.Data) == 0 {
		return nil, ErrEmptyImage
	}
	return resp, nil
}

// AspectRatio は "2048x2048" のようなサイズ指定を "1:1" のような縦横比に変換します。
// 解釈できない場合は空文字を返します。
func AspectRatio(size string) string {
	w, h, ok := parseSize(size)
	if !ok {
		return ""
	}
	d := gcd(w, h)
	return fmt.Sprintf("%d:%d", w/d, h/d)
}

func parseSize(size string) (int, int, bool) {
	parts := strings.SplitN(strings.ToLower(size), "x", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	var w, h int
	if _, err := fmt.Sscanf(parts[0]+" "+parts[1], "%d %d", &w, &h); err != nil || w <= 0 || h <= 0 {
		return 0, 0, false
	}
	return w, h, true
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
