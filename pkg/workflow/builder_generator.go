package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/shouni/go-novel-comic/pkg/generator"

	"github.com/patrickmn/go-cache"
	imagekit "github.com/shouni/gemini-image-kit/pkg/generator"
	"github.com/shouni/go-gemini-client/pkg/gemini"
	"github.com/shouni/go-http-kit/pkg/httpkit"
	"github.com/shouni/go-remote-io/pkg/remoteio"
)

// 参照画像キャッシュの設定
const (
	refCacheExpiration = 5 * time.Minute
	refCacheCleanup    = 15 * time.Minute
	refCacheTTL        = 5 * time.Minute
)

// getImageGenerator は設定された ImageProvider に応じた画像生成器を返します。
func (m *Manager) getImageGenerator(ctx context.Context) (generator.ImageGenerator, error) {
	if m.imageGen != nil {
		return m.imageGen, nil
	}
	if m.httpClient == nil {
		return nil, fmt.Errorf("httpClient は必須です")
	}

	var (
		imgGen generator.ImageGenerator
		err    error
	)
	switch m.cfg.ImageProvider {
	case ProviderDoubao, "":
		imgGen, err = generator.NewDoubaoGenerator(m.httpClient, m.cfg.Doubao, m.cfg.ImageOptions)
	case ProviderGemini:
		imgGen, err = m.buildGeminiImageGenerator(ctx)
	default:
		return nil, fmt.Errorf("不明な画像生成プロバイダです: '%s' (doubao または gemini)", m.cfg.ImageProvider)
	}
	if err != nil {
		return nil, fmt.Errorf("画像生成エンジンの初期化に失敗しました: %w", err)
	}

	m.imageGen = imgGen
	return imgGen, nil
}

// buildGeminiImageGenerator は gemini-image-kit を使った画像生成器を構築します。
func (m *Manager) buildGeminiImageGenerator(ctx context.Context) (generator.ImageGenerator, error) {
	if m.reader == nil {
		return nil, fmt.Errorf("InputReader は必須です")
	}
	aiClient, err := m.getAIClient(ctx)
	if err != nil {
		return nil, err
	}

	core, err := initializeCore(m.reader, m.httpClient, aiClient)
	if err != nil {
		return nil, err
	}
	pageGen, err := initializeImageGenerator(m.cfg.ImageModel, core)
	if err != nil {
		return nil, fmt.Errorf("ImageGeneratorの初期化に失敗しました: %w", err)
	}
	return generator.NewGeminiImageGenerator(pageGen, m.cfg.ImageOptions)
}

// initializeCore は参照画像の取得とキャッシュを担う GeminiImageCore を作成します。
func initializeCore(reader remoteio.InputReader, httpClient httpkit.ClientInterface, aiClient gemini.GenerativeModel) (*imagekit.GeminiImageCore, error) {
	imgCache := cache.New(refCacheExpiration, refCacheCleanup)
	core, err := imagekit.NewGeminiImageCore(
		aiClient,
		reader,
		httpClient,
		imgCache,
		refCacheTTL,
	)
	if err != nil {
		return nil, fmt.Errorf("GeminiImageCore の初期化に失敗しました: %w", err)
	}

	return core, nil
}

// initializeImageGenerator は core の上に model を使う gemini-image-kit の生成器を作成します。
func initializeImageGenerator(model string, core *imagekit.GeminiImageCore) (imagekit.ImageGenerator, error) {
	return imagekit.NewGeminiGenerator(
		model,
		core,
	)
}
