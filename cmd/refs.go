package cmd

import (
	"fmt"
	"log/slog"

	"github.com/shouni/go-novel-comic/internal/pipeline"
	"github.com/shouni/go-novel-comic/pkg/registry"

	"github.com/spf13/cobra"
)

// refsCmd は、images/<category> の画像をアップロードしてリファレンス画像レジストリに登録するのだ。
var refsCmd = &cobra.Command{
	Use:   "refs",
	Short: "リファレンス画像をアップロードしてレジストリに登録するのだ。",
	Long: `images/<category>/ 直下の画像（png, jpg, jpeg, webp）を STORAGE_BUCKET にアップロードし、
公開 URL を data/reference_images.yaml の該当カテゴリにマージするのだ。
ほかのカテゴリの内容はそのまま残るのだよ。`,
	RunE: refsCommand,
}

func init() {
	refsCmd.Flags().StringVarP(&opts.Category, "category", "c", registry.CategoryCharacters, "登録先のカテゴリ（characters, scenes, styles）なのだ。")
}

func refsCommand(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	slog.Info("リファレンス画像の登録を開始するのだ！",
		"category", cfg.Options.Category,
		"bucket", cfg.StorageBucket)

	if err := pipeline.ExecuteReferenceUpload(cmd.Context(), cfg); err != nil {
		return fmt.Errorf("リファレンス画像の登録中にエラーが発生したのだ: %w", err)
	}

	slog.Info("リファレンス画像の登録が完了したのだ！")
	return nil
}
