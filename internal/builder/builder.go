package builder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shouni/go-novel-comic/internal/config"
	"github.com/shouni/go-novel-comic/pkg/asset"
	"github.com/shouni/go-novel-comic/pkg/generator"
	"github.com/shouni/go-novel-comic/pkg/workflow"

	"github.com/shouni/go-http-kit/pkg/httpkit"
	"github.com/shouni/go-remote-io/pkg/gcsfactory"
)

// Purpose は Manager を構築する目的（どの工程を実行するか）です。
type Purpose int

const (
	PurposeText   Purpose = iota // ステップ1, 2
	PurposeImage                 // ステップ3
	PurposeUpload                // refs コマンド
)

// CheckSettings は目的に応じた必須設定を確認します。クライアントの生成より前に呼び出します。
func CheckSettings(cfg *config.Config, purpose Purpose) error {
	switch purpose {
	case PurposeText:
		return cfg.RequireText()
	case PurposeImage:
		return cfg.RequireImage()
	case PurposeUpload:
		return cfg.RequireStorage()
	default:
		return fmt.Errorf("不明な Purpose です: %d", purpose)
	}
}

// BuildManager は、目的に必要なクライアントだけを初期化して workflow.Manager を構築します。
func BuildManager(ctx context.Context, appCtx *AppContext, purpose Purpose) (*workflow.Manager, error) {
	cfg := appCtx.Config
	if err := CheckSettings(cfg, purpose); err != nil {
		return nil, err
	}

	imageOpts := generator.DefaultOptions()
	if purpose == PurposeImage {
		opts, err := LoadImageOptions(appCtx)
		if err != nil {
			return nil, err
		}
		imageOpts = opts
	}

	args := workflow.ManagerArgs{
		Config: cfg.ToWorkflowConfig(imageOpts),
		Layout: appCtx.Layout,
	}

	switch purpose {
	case PurposeImage:
		args.HTTPClient = httpkit.New(httpTimeout(appCtx))
		if args.Config.ImageProvider == workflow.ProviderGemini {
			factory, err := gcsfactory.NewGCSClientFactory(ctx)
			if err != nil {
				return nil, fmt.Errorf("GCS クライアントファクトリの作成に失敗しました: %w", err)
			}
			reader, err := factory.NewInputReader()
			if err != nil {
				return nil, fmt.Errorf("InputReader の作成に失敗しました: %w", err)
			}
			args.Reader = reader
		}
	case PurposeUpload:
		factory, err := gcsfactory.NewGCSClientFactory(ctx)
		if err != nil {
			return nil, fmt.Errorf("GCS クライアントファクトリの作成に失敗しました: %w", err)
		}
		writer, err := factory.NewOutputWriter()
		if err != nil {
			return nil, fmt.Errorf("OutputWriter の作成に失敗しました: %w", err)
		}
		args.RemoteWriter = writer
	}

	return workflow.New(args)
}

// LoadImageOptions は --image-options で指定されたファイル、なければ data/image_options.yaml を読み込みます。
// 明示的に指定されたファイルが存在しない場合はエラーにします。
func LoadImageOptions(appCtx *AppContext) (generator.Options, error) {
	path := appCtx.Options.ImageOptionsFile
	if path != "" {
		if err := asset.RequireArtifact(path, ""); err != nil {
			return generator.Options{}, err
		}
	} else {
		path = appCtx.Layout.ImageOptionsPath()
	}

	opts, err := generator.LoadOptions(path)
	if err != nil {
		return generator.Options{}, err
	}
	slog.Debug("Image options loaded", "path", path, "size", opts.Size, "n", opts.N)
	return opts, nil
}

// httpTimeout は --http-timeout が指定されていればそれを、なければ HTTP_TIMEOUT を返します。
func httpTimeout(appCtx *AppContext) time.Duration {
	if appCtx.Options.HTTPTimeout > 0 {
		return appCtx.Options.HTTPTimeout
	}
	if appCtx.Config.HTTPTimeout > 0 {
		return appCtx.Config.HTTPTimeout
	}
	return config.DefaultHTTPTimeout
}
