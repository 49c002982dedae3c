package workflow

import (
	"context"

	"github.com/shouni/go-novel-comic/pkg/asset"
	"github.com/shouni/go-novel-comic/pkg/domain"
	"github.com/shouni/go-novel-comic/pkg/registry"
	"github.com/shouni/go-novel-comic/pkg/runner"
)

// Workflow は、各工程を担当する Runner を構築するためのインターフェースを定義します。
type Workflow interface {
	BuildSegmentRunner(ctx context.Context) (SegmentRunner, error)
	BuildComposeRunner(ctx context.Context) (ComposeRunner, error)
	BuildRenderRunner(ctx context.Context) (RenderRunner, error)
	BuildUploadRunner(ctx context.Context) (UploadRunner, error)
}

// SegmentRunner は、小説本文をパネルのリストに分割する責務を持ちます。
type SegmentRunner interface {
	Run(ctx context.Context, novelText string, characterNames, termNames []string) (domain.Panels, error)
}

// ComposeRunner は、各パネルに画像生成用のプロンプトを付与する責務を持ちます。
type ComposeRunner interface {
	Run(ctx context.Context, panels domain.Panels, characterImages, termImages asset.ImageIndex) (domain.Panels, error)
}

// RenderRunner は、各パネルの画像を生成して保存する責務を持ちます。
type RenderRunner interface {
	Run(ctx context.Context, panels domain.Panels, refs registry.References) (domain.Panels, runner.RenderSummary, error)
}

// UploadRunner は、ローカルのリファレンス画像をアップロードし、名前と URL の対応を返す責務を持ちます。
type UploadRunner interface {
	Run(ctx context.Context, dir, category string) (map[string]string, error)
}
