package workflow

import (
	"context"
	"fmt"

	"github.com/shouni/go-novel-comic/pkg/runner"
	"github.com/shouni/go-novel-comic/pkg/storage"

	"golang.org/x/time/rate"
)

// BuildSegmentRunner は、パネル分割を担当する Runner を作成します。
func (m *Manager) BuildSegmentRunner(ctx context.Context) (SegmentRunner, error) {
	textGen, err := m.getTextGenerator(ctx)
	if err != nil {
		return nil, err
	}
	pb, err := m.getPromptBuilder()
	if err != nil {
		return nil, err
	}
	return runner.NewNovelSegmentRunner(textGen, pb)
}

// BuildComposeRunner は、画像プロンプト作成を担当する Runner を作成します。
func (m *Manager) BuildComposeRunner(ctx context.Context) (ComposeRunner, error) {
	textGen, err := m.getTextGenerator(ctx)
	if err != nil {
		return nil, err
	}
	pb, err := m.getPromptBuilder()
	if err != nil {
		return nil, err
	}
	return runner.NewImagePromptComposeRunner(textGen, pb)
}

// BuildRenderRunner は、パネル画像生成を担当する Runner を作成します。
func (m *Manager) BuildRenderRunner(ctx context.Context) (RenderRunner, error) {
	imgGen, err := m.getImageGenerator(ctx)
	if err != nil {
		return nil, err
	}

	return runner.NewPanelRenderRunner(
		imgGen,
		m.writer,
		m.layout,
		newRateLimiter(m.cfg),
		runner.RenderConfig{
			Size:            m.cfg.RenderSize,
			Style:           m.cfg.RenderStyle,
			DefaultStyleTag: m.cfg.DefaultStyleTag,
			Timeout:         m.cfg.ImageTimeout,
		},
	)
}

// BuildUploadRunner は、リファレンス画像のアップロードを担当する Runner を作成します。
func (m *Manager) BuildUploadRunner(ctx context.Context) (UploadRunner, error) {
	if m.remoteWriter == nil {
		return nil, fmt.Errorf("アップロード用の OutputWriter が設定されていません")
	}
	uploader, err := storage.NewRemoteUploader(m.remoteWriter, m.cfg.StorageBucket, m.cfg.StoragePublicBaseURL)
	if err != nil {
		return nil, err
	}
	return runner.NewReferenceUploadRunner(uploader, m.cfg.StorageKeyPrefix)
}

// newRateLimiter は画像生成の呼び出し間隔を制御するリミッターを返します。
func newRateLimiter(cfg Config) *rate.Limiter {
	if cfg.RateInterval <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(cfg.RateInterval), 1)
}
