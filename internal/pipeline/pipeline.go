package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shouni/go-novel-comic/internal/builder"
	"github.com/shouni/go-novel-comic/internal/config"
	"github.com/shouni/go-novel-comic/pkg/asset"
	"github.com/shouni/go-novel-comic/pkg/registry"
	"github.com/shouni/go-novel-comic/pkg/workflow"
)

// ErrInvalidStep は --step に 1, 2, 3 以外が指定されたことを表すのだ。
var ErrInvalidStep = errors.New("ステップは 1, 2, 3 のいずれかを指定してください")

const (
	producerSegment = "step 1"
	producerCompose = "step 2"
)

// ExecuteStep は --step の値に応じて 1 つの工程だけを実行するのだ。
// 不正なステップはファイルや API に触れる前に拒否するのだ。
func ExecuteStep(ctx context.Context, cfg *config.Config) error {
	switch cfg.Options.Step {
	case 1:
		return ExecuteSegment(ctx, cfg)
	case 2:
		return ExecuteCompose(ctx, cfg)
	case 3:
		return ExecuteRender(ctx, cfg)
	default:
		return fmt.Errorf("%w: %d", ErrInvalidStep, cfg.Options.Step)
	}
}

// ExecuteSegment は小説本文をパネルに分割して草稿 YAML を書き出すのだ（ステップ1）。
func ExecuteSegment(ctx context.Context, cfg *config.Config) error {
	appCtx, mgr, err := setup(ctx, cfg, builder.PurposeText)
	if err != nil {
		return err
	}
	return runSegment(ctx, mgr, appCtx.Layout)
}

// ExecuteCompose は草稿の各パネルに画像プロンプトを付けて JSON を書き出すのだ（ステップ2）。
func ExecuteCompose(ctx context.Context, cfg *config.Config) error {
	appCtx, mgr, err := setup(ctx, cfg, builder.PurposeText)
	if err != nil {
		return err
	}
	return runCompose(ctx, mgr, appCtx.Layout, appCtx.Options.PanelsFile)
}

// ExecuteRender は各パネルの画像を生成して最終 JSON を書き出すのだ（ステップ3）。
func ExecuteRender(ctx context.Context, cfg *config.Config) error {
	appCtx, mgr, err := setup(ctx, cfg, builder.PurposeImage)
	if err != nil {
		return err
	}
	return runRender(ctx, mgr, appCtx.Layout)
}

// ExecuteReferenceUpload は images/<category> の画像をアップロードしてレジストリに登録するのだ。
func ExecuteReferenceUpload(ctx context.Context, cfg *config.Config) error {
	if err := registry.ValidateCategory(cfg.Options.Category); err != nil {
		return err
	}
	appCtx, mgr, err := setup(ctx, cfg, builder.PurposeUpload)
	if err != nil {
		return err
	}
	return runReferenceUpload(ctx, mgr, appCtx.Layout, cfg.Options.Category)
}

// setup は、設定を確認してから AppContext と workflow.Manager を初期化して返すのだ。
func setup(ctx context.Context, cfg *config.Config, purpose builder.Purpose) (*builder.AppContext, *workflow.Manager, error) {
	appCtx, err := builder.NewAppContext(cfg)
	if err != nil {
		return nil, nil, err
	}
	mgr, err := builder.BuildManager(ctx, appCtx, purpose)
	if err != nil {
		return nil, nil, err
	}
	return appCtx, mgr, nil
}

// runSegment はステップ1の本体なのだ。
func runSegment(ctx context.Context, wf workflow.Workflow, layout asset.Layout) error {
	res, err := asset.LoadResources(layout)
	if err != nil {
		return err
	}

	segmentRunner, err := wf.BuildSegmentRunner(ctx)
	if err != nil {
		return fmt.Errorf("SegmentRunnerの構築に失敗したのだ: %w", err)
	}

	slog.Info("Step 1: パネル分割を開始するのだ...",
		"characters", len(res.CharacterImages),
		"terms", len(res.TermImages))
	panels, err := segmentRunner.Run(ctx, res.NovelText, res.CharacterImages.Names(), res.TermImages.Names())
	if err != nil {
		return fmt.Errorf("パネル分割に失敗したのだ: %w", err)
	}

	if err := asset.WritePanelsYAML(layout.DraftPath(), panels); err != nil {
		return err
	}
	slog.Info("パネル草稿を保存したのだ！", "panels", len(panels), "path", layout.DraftPath())
	return nil
}

// runCompose はステップ2の本体なのだ。panelsFile が空なら草稿 YAML を読むのだ。
func runCompose(ctx context.Context, wf workflow.Workflow, layout asset.Layout, panelsFile string) error {
	input := panelsFile
	if input == "" {
		input = layout.DraftPath()
	}
	panels, err := asset.ReadPanelsYAML(input, producerSegment)
	if err != nil {
		return err
	}

	characters, terms, err := asset.LoadImageIndexes(layout)
	if err != nil {
		return err
	}

	composeRunner, err := wf.BuildComposeRunner(ctx)
	if err != nil {
		return fmt.Errorf("ComposeRunnerの構築に失敗したのだ: %w", err)
	}

	slog.Info("Step 2: 画像プロンプトの作成を開始するのだ...", "panels", len(panels), "input", input)
	described, err := composeRunner.Run(ctx, panels, characters, terms)
	if err != nil {
		return fmt.Errorf("画像プロンプトの作成に失敗したのだ: %w", err)
	}

	if err := asset.WritePanelsJSON(layout.DescribedPath(), described); err != nil {
		return err
	}
	slog.Info("画像プロンプト付きのパネルを保存したのだ！", "path", layout.DescribedPath())
	return nil
}

// runRender はステップ3の本体なのだ。失敗したパネルがあっても最終 JSON は書き出すのだ。
func runRender(ctx context.Context, wf workflow.Workflow, layout asset.Layout) error {
	panels, err := asset.ReadPanelsJSON(layout.DescribedPath(), producerCompose)
	if err != nil {
		return err
	}

	refs, err := registry.Load(layout.RegistryPath())
	if err != nil {
		return err
	}

	renderRunner, err := wf.BuildRenderRunner(ctx)
	if err != nil {
		return fmt.Errorf("RenderRunnerの構築に失敗したのだ: %w", err)
	}

	slog.Info("Step 3: 画像生成を開始するのだ...", "panels", len(panels), "references", len(refs))
	rendered, summary, err := renderRunner.Run(ctx, panels, refs)
	if err != nil {
		return fmt.Errorf("画像生成に失敗したのだ: %w", err)
	}

	if err := asset.WritePanelsJSON(layout.FinalPath(), rendered); err != nil {
		return err
	}
	slog.Info("画像生成が完了したのだ！",
		"rendered", summary.Rendered,
		"skipped", summary.Skipped,
		"failed", summary.Failed,
		"path", layout.FinalPath())
	return nil
}

// runReferenceUpload は refs コマンドの本体なのだ。
func runReferenceUpload(ctx context.Context, wf workflow.Workflow, layout asset.Layout, category string) error {
	uploadRunner, err := wf.BuildUploadRunner(ctx)
	if err != nil {
		return fmt.Errorf("UploadRunnerの構築に失敗したのだ: %w", err)
	}

	dir := layout.SourceImageDir(category)
	slog.Info("リファレンス画像のアップロードを開始するのだ...", "category", category, "dir", dir)
	entries, err := uploadRunner.Run(ctx, dir, category)
	if err != nil {
		return fmt.Errorf("リファレンス画像のアップロードに失敗したのだ: %w", err)
	}

	if err := registry.MergeAndPersist(layout.RegistryPath(), category, entries); err != nil {
		return fmt.Errorf("レジストリの更新に失敗したのだ: %w", err)
	}
	slog.Info("レジストリを更新したのだ！", "category", category, "entries", len(entries), "path", layout.RegistryPath())
	return nil
}
