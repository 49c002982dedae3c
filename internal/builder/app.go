package builder

import (
	"github.com/shouni/go-novel-comic/internal/config"
	"github.com/shouni/go-novel-comic/pkg/asset"
)

// AppContext は、アプリケーション実行に必要な共通コンテキストを保持する
// これを各Build関数に渡すことで、依存関係の注入を簡素化します。
type AppContext struct {
	Config  *config.Config // Configは、環境変数から読み込まれたグローバルな設定です（APIキー、バケット名など）。
	Options config.Options // Optionsは、コマンドラインから渡された実行時の設定です（ステップ、入力ファイルなど）。
	Layout  asset.Layout   // Layoutは、プロジェクトルートを基準にした入出力パスの構成です。
}

// NewAppContext は AppContext の新しいインスタンスを生成する
func NewAppContext(cfg *config.Config) (*AppContext, error) {
	layout, err := asset.NewLayout(cfg.Options.ProjectRoot)
	if err != nil {
		return nil, err
	}
	return &AppContext{
		Config:  cfg,
		Options: cfg.Options,
		Layout:  layout,
	}, nil
}
