package workflow

import (
	"context"
	"fmt"

	"github.com/shouni/go-novel-comic/pkg/asset"
	"github.com/shouni/go-novel-comic/pkg/generator"
	"github.com/shouni/go-novel-comic/pkg/prompts"
	"github.com/shouni/go-novel-comic/pkg/storage"

	"github.com/shouni/go-gemini-client/pkg/gemini"
	"github.com/shouni/go-http-kit/pkg/httpkit"
	"github.com/shouni/go-remote-io/pkg/remoteio"
	"google.golang.org/genai"
)

// ManagerArgs は Manager の初期化に使う依存関係です。
// AIClient, TextGenerator, ImageGenerator, PromptBuilder は nil の場合に必要になった時点で生成します。
type ManagerArgs struct {
	Config     Config
	Layout     asset.Layout
	HTTPClient httpkit.ClientInterface

	// Reader は Gemini 画像生成で参照画像を読み込むのに使います (ImageProvider が gemini の場合のみ必須)。
	Reader remoteio.InputReader
	// Writer はパネル画像の保存先です。nil の場合はローカルファイルに書き込みます。
	Writer storage.Writer
	// RemoteWriter はリファレンス画像のアップロード先です (UploadRunner のみ必須)。
	RemoteWriter storage.Writer

	AIClient       gemini.GenerativeModel
	TextGenerator  generator.TextGenerator
	ImageGenerator generator.ImageGenerator
	PromptBuilder  prompts.PromptBuilder
}

// Manager は、ワークフローの各工程を担う Runner 群を構築・管理します。
type Manager struct {
	cfg          Config
	layout       asset.Layout
	httpClient   httpkit.ClientInterface
	reader       remoteio.InputReader
	writer       storage.Writer
	remoteWriter storage.Writer

	aiClient      gemini.GenerativeModel
	textGen       generator.TextGenerator
	imageGen      generator.ImageGenerator
	promptBuilder prompts.PromptBuilder
}

// New は、設定と依存関係を基に新しい Manager を初期化します。
// API クライアントはこの時点では生成しないため、ネットワーク通信は発生しません。
func New(args ManagerArgs) (*Manager, error) {
	if args.Layout.Root == "" {
		return nil, fmt.Errorf("プロジェクトルートは必須です")
	}
	writer := args.Writer
	if writer == nil {
		writer = storage.NewLocalWriter()
	}

	return &Manager{
		cfg:           args.Config,
		layout:        args.Layout,
		httpClient:    args.HTTPClient,
		reader:        args.Reader,
		writer:        writer,
		remoteWriter:  args.RemoteWriter,
		aiClient:      args.AIClient,
		textGen:       args.TextGenerator,
		imageGen:      args.ImageGenerator,
		promptBuilder: args.PromptBuilder,
	}, nil
}

// Layout はプロジェクトのパス構成を返します。
func (m *Manager) Layout() asset.Layout {
	return m.layout
}

// Config は設定を返します。
func (m *Manager) Config() Config {
	return m.cfg
}

// textTemperature はテキスト生成に使う temperature です。
const textTemperature = float32(0.2)

// initializeAIClient は gemini クライアントを初期化します。
func initializeAIClient(ctx context.Context, apiKey string) (gemini.GenerativeModel, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Gemini API キーが設定されていません")
	}
	clientConfig := gemini.Config{
		APIKey:      apiKey,
		Temperature: genai.Ptr(textTemperature),
	}
	aiClient, err := gemini.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("AIクライアントの初期化に失敗しました: %w", err)
	}
	return aiClient, nil
}

// getAIClient は AI クライアントを返します。未生成の場合はここで初期化します。
func (m *Manager) getAIClient(ctx context.Context) (gemini.GenerativeModel, error) {
	if m.aiClient != nil {
		return m.aiClient, nil
	}
	aiClient, err := initializeAIClient(ctx, m.cfg.GeminiAPIKey)
	if err != nil {
		return nil, err
	}
	m.aiClient = aiClient
	return aiClient, nil
}

// getTextGenerator はテキスト生成器を返します。
func (m *Manager) getTextGenerator(ctx context.Context) (generator.TextGenerator, error) {
	if m.textGen != nil {
		return m.textGen, nil
	}
	aiClient, err := m.getAIClient(ctx)
	if err != nil {
		return nil, err
	}
	textGen, err := generator.NewGeminiTextGenerator(aiClient, m.cfg.GeminiModel)
	if err != nil {
		return nil, err
	}
	m.textGen = textGen.WithTimeout(m.cfg.TextTimeout)
	return m.textGen, nil
}

// getPromptBuilder は PromptBuilder を返します。
// 引数として既存のビルダーが渡されていた場合はそれを返し、nil の場合は新規作成します。
func (m *Manager) getPromptBuilder() (prompts.PromptBuilder, error) {
	if m.promptBuilder != nil {
		return m.promptBuilder, nil
	}
	pb, err := prompts.NewTextPromptBuilder()
	if err != nil {
		return nil, fmt.Errorf("TextPromptBuilder の新規作成に失敗しました: %w", err)
	}
	m.promptBuilder = pb
	return pb, nil
}
