package runner

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shouni/go-novel-comic/pkg/asset"
	"github.com/shouni/go-novel-comic/pkg/domain"
	"github.com/shouni/go-novel-comic/pkg/generator"
	"github.com/shouni/go-novel-comic/pkg/registry"
	"github.com/shouni/go-novel-comic/pkg/storage"

	"golang.org/x/time/rate"
)

const (
	DefaultRenderSize  = "2048x2048"
	DefaultRenderStyle = "anime"
	DefaultStyleTag    = "水粉暖阳"
)

// DuplicatePanelError はパネル番号が重複していて出力ファイル名が衝突する場合のエラーです。
type DuplicatePanelError struct {
	Numbers []int
}

func (e *DuplicatePanelError) Error() string {
	return fmt.Sprintf("パネル番号が重複しています: %v (画像ファイル名が衝突するため処理を中断します)", e.Numbers)
}

// RenderConfig は画像レンダリングの設定です。
type RenderConfig struct {
	Size            string
	Style           string
	DefaultStyleTag string
	// Timeout は1回の画像生成呼び出しのタイムアウトです。0 の場合は無制限です。
	Timeout time.Duration
}

// RenderSummary はステージ3の実行結果の集計です。
type RenderSummary struct {
	Rendered int
	Skipped  []int // 画像プロンプトがないパネル
	Failed   []int // 画像生成または保存に失敗したパネル
}

// PanelRenderRunner はパネルごとに画像を生成し、ローカルに保存します。
type PanelRenderRunner struct {
	imgGen  generator.ImageGenerator
	writer  storage.Writer
	layout  asset.Layout
	limiter *rate.Limiter
	cfg     RenderConfig
}

// NewPanelRenderRunner は依存関係を注入して初期化します。limiter が nil の場合は呼び出し間隔を制限しません。
func NewPanelRenderRunner(
	imgGen generator.ImageGenerator,
	writer storage.Writer,
	layout asset.Layout,
	limiter *rate.Limiter,
	cfg RenderConfig,
) (*PanelRenderRunner, error) {
	if imgGen == nil {
		return nil, fmt.Errorf("ImageGenerator は必須です")
	}
	if writer == nil {
		return nil, fmt.Errorf("Writer は必須です")
	}
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Inf, 1)
	}
	if cfg.Size == "" {
		cfg.Size = DefaultRenderSize
	}
	if cfg.Style == "" {
		cfg.Style = DefaultRenderStyle
	}
	return &PanelRenderRunner{
		imgGen:  imgGen,
		writer:  writer,
		layout:  layout,
		limiter: limiter,
		cfg:     cfg,
	}, nil
}

// ResolveReferenceURLs はパネルに対応する参照画像の URL を次の順で集めます。
//  1. characters の各名前
//  2. scene_tag
//  3. style_tag（未設定なら defaultStyleTag）
//
// レジストリにないキーは無視します。
func ResolveReferenceURLs(panel domain.Panel, refs registry.References, defaultStyleTag string) []string {
	var urls []string
	for _, name := range panel.Characters {
		if url, ok := refs.Lookup(registry.CategoryCharacters, name); ok {
			urls = append(urls, url)
		}
	}
	if panel.SceneTag != "" {
		if url, ok := refs.Lookup(registry.CategoryScenes, panel.SceneTag); ok {
			urls = append(urls, url)
		}
	}
	styleTag := panel.StyleTag
	if styleTag == "" {
		styleTag = defaultStyleTag
	}
	if styleTag != "" {
		if url, ok := refs.Lookup(registry.CategoryStyles, styleTag); ok {
			urls = append(urls, url)
		}
	}
	return urls
}

// Render は1パネル分の画像を生成して保存し、generated_image_path を付与したパネルを返します。
// number はファイル名に使うパネル番号です。
func (r *PanelRenderRunner) Render(ctx context.Context, panel domain.Panel, number int, refs registry.References) (domain.Panel, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return panel, err
	}

	callCtx := ctx
	if r.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, r.cfg.Timeout)
		defer cancel()
	}

	urls := ResolveReferenceURLs(panel, refs, r.cfg.DefaultStyleTag)
	slog.InfoContext(ctx, "Generating panel image", "panel", number, "references", len(urls))

	resp, err := r.imgGen.Generate(callCtx, generator.ImageRequest{
		Prompt:        panel.GeneratedImageDescription,
		ReferenceURLs: urls,
		Size:          r.cfg.Size,
		Style:         r.cfg.Style,
	})
	if err != nil {
		return panel, fmt.Errorf("画像生成に失敗しました: %w", err)
	}
	if resp == nil || len(resp.Data) == 0 {
		return panel, fmt.Errorf("パネル %d: %w", number, generator.ErrEmptyImage)
	}

	path := r.layout.PanelImagePath(number)
	if err := r.writer.Write(ctx, path, bytes.NewReader(resp.Data), resp.MimeType); err != nil {
		return panel, fmt.Errorf("画像の保存に失敗しました: %w", err)
	}
	rel, err := r.layout.Rel(path)
	if err != nil {
		return panel, err
	}

	panel.GeneratedImagePath = rel
	return panel, nil
}

// Run は全パネルを順番にレンダリングします。
// 個々のパネルの失敗はログに記録してスキップし、そのパネルは変更せずに結果へ含めます。
// 重複したパネル番号がある場合とコンテキストが中断された場合のみエラーを返します。
func (r *PanelRenderRunner) Run(ctx context.Context, panels domain.Panels, refs registry.References) (domain.Panels, RenderSummary, error) {
	var summary RenderSummary
	if dups := panels.DuplicateNumbers(); len(dups) > 0 {
		return nil, summary, &DuplicatePanelError{Numbers: dups}
	}

	out := make(domain.Panels, len(panels))
	copy(out, panels)

	for i, panel := range panels {
		number := panel.NumberAt(i)
		if panel.GeneratedImageDescription == "" {
			slog.WarnContext(ctx, "Panel has no image description, skipping", "panel", number)
			summary.Skipped = append(summary.Skipped, number)
			continue
		}

		rendered, err := r.Render(ctx, panel, number, refs)
		if err != nil {
			if ctx.Err() != nil {
				return nil, summary, fmt.Errorf("画像生成が中断されました (panel %d): %w", number, ctx.Err())
			}
			slog.ErrorContext(ctx, "Panel image generation failed, skipping", "panel", number, "error", err)
			summary.Failed = append(summary.Failed, number)
			continue
		}

		out[i] = rendered
		summary.Rendered++
		slog.InfoContext(ctx, "Panel image saved", "panel", number, "path", rendered.GeneratedImagePath)
	}

	slog.InfoContext(ctx, "Rendering completed",
		"rendered", summary.Rendered,
		"skipped", summary.Skipped,
		"failed", summary.Failed)
	return out, summary, nil
}
