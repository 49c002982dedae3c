package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/shouni/go-novel-comic/internal/config"

	"github.com/spf13/cobra"
)

const appName = "novel-comic"

// opts は全コマンドで共有する CLI フラグの値なのだ。
var opts config.Options

var rootCmd = &cobra.Command{
	Use:   appName,
	Short: "小説から漫画のパネル画像を作るのだ。",
	Long: `data/novel.txt をパネルに分割し（step 1）、パネルごとの画像プロンプトを作り（step 2）、
リファレンス画像を参照しながらパネル画像を生成する（step 3）のだ。
各ステップの成果物は output/ に保存されるので、ステップの間で手で編集できるのだ。`,
	SilenceUsage:      true,
	PersistentPreRunE: preRunAppE,
}

// addAppFlags は、アプリケーション全般に適用されるグローバルフラグを定義するのだ。
func addAppFlags(rootCmd *cobra.Command) {
	rootCmd.PersistentFlags().StringVarP(&opts.ProjectRoot, "project-root", "r", config.DefaultProjectRoot, "data/ と output/ を含むプロジェクトのルートなのだ。")
	rootCmd.PersistentFlags().StringVarP(&opts.PanelsFile, "panels-file", "f", "", "step 2 の入力にする編集済みパネル YAML なのだ（省略時は output/comic_panels_draft.yaml）。")
	rootCmd.PersistentFlags().StringVar(&opts.ImageOptionsFile, "image-options", "", "画像生成オプションの YAML なのだ（省略時は data/image_options.yaml）。")
	rootCmd.PersistentFlags().DurationVar(&opts.HTTPTimeout, "http-timeout", 0, "画像 API の HTTP タイムアウトなのだ（0 なら HTTP_TIMEOUT を使うのだ）。")
}

// preRunAppE は、コマンド実行前にプロジェクトルートの存在を確認するのだ。
// API キーなどの必須チェックは、工程ごとに必要なものだけをビルダーで行うのだ。
func preRunAppE(cmd *cobra.Command, args []string) error {
	info, err := os.Stat(opts.ProjectRoot)
	if err != nil {
		return fmt.Errorf("プロジェクトルート '%s' を開けないのだ: %w", opts.ProjectRoot, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("プロジェクトルート '%s' はディレクトリではないのだ", opts.ProjectRoot)
	}
	return nil
}

// loadConfig は環境変数の設定に CLI フラグの値を載せて返すのだ。
func loadConfig() *config.Config {
	cfg := config.LoadConfig()
	cfg.Options = opts
	return cfg
}

// Execute は、アプリケーションのメインエントリポイントなのだ。
// main.go から呼び出されて、cobra のコマンドライン解析を開始するのだよ。
func Execute() {
	addAppFlags(rootCmd)
	rootCmd.AddCommand(
		stepCmd,
		segmentCmd,
		composeCmd,
		renderCmd,
		refsCmd,
	)

	// Ctrl+C で生成中の API 呼び出しを中断できるようにするのだ
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		slog.Error("実行に失敗したのだ", "error", err)
		os.Exit(1)
	}
}
