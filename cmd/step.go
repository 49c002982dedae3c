package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shouni/go-novel-comic/internal/config"
	"github.com/shouni/go-novel-comic/internal/pipeline"

	"github.com/spf13/cobra"
)

// stepCmd は、--step で指定した1つの工程だけを実行するのだ。
var stepCmd = &cobra.Command{
	Use:   "step",
	Short: "指定したステップ（1, 2, 3）を実行するのだ。",
	Long: `1: 小説をパネルに分割して output/comic_panels_draft.yaml に保存するのだ。
2: パネルごとの画像プロンプトを作って output/generated_comic_data.json に保存するのだ。
3: パネル画像を生成して output/final_comic_data_with_images.json に保存するのだ。`,
	RunE: stepCommand,
}

var (
	segmentCmd = newStageCmd("segment", 1, "小説をパネルに分割するのだ（step 1 と同じ）。")
	composeCmd = newStageCmd("compose", 2, "パネルごとの画像プロンプトを作るのだ（step 2 と同じ）。")
	renderCmd  = newStageCmd("render", 3, "パネル画像を生成するのだ（step 3 と同じ）。")
)

func init() {
	stepCmd.Flags().IntVarP(&opts.Step, "step", "s", 0, "実行するステップ番号（1, 2, 3）なのだ。")
	_ = stepCmd.MarkFlagRequired("step")
}

func stepCommand(cmd *cobra.Command, args []string) error {
	return runStep(cmd.Context(), opts.Step)
}

// newStageCmd は、ステップ番号を固定したエイリアスコマンドを作るのだ。
func newStageCmd(use string, step int, short string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStep(cmd.Context(), step)
		},
	}
}

func runStep(ctx context.Context, step int) error {
	cfg := loadConfig()
	cfg.Options.Step = step

	slog.Info("パイプラインを起動するのだ！",
		"step", step,
		"project_root", cfg.Options.ProjectRoot,
		"text_model", cfg.GeminiModel,
		"image_provider", imageProviderOf(cfg, step))

	if err := pipeline.ExecuteStep(ctx, cfg); err != nil {
		return fmt.Errorf("step %d の実行中にエラーが発生したのだ: %w", step, err)
	}

	slog.Info("ステップが完了したのだ！", "step", step)
	return nil
}

func imageProviderOf(cfg *config.Config, step int) string {
	if step != 3 {
		return "-"
	}
	return cfg.ImageProvider
}
