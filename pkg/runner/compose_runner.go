package runner

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shouni/go-novel-comic/pkg/asset"
	"github.com/shouni/go-novel-comic/pkg/domain"
	"github.com/shouni/go-novel-comic/pkg/generator"
	"github.com/shouni/go-novel-comic/pkg/prompts"
)

// ImagePromptComposeRunner はパネルごとに画像生成用の詳細なプロンプトを AI で作成します。
type ImagePromptComposeRunner struct {
	textGen       generator.TextGenerator
	promptBuilder prompts.PromptBuilder
}

// NewImagePromptComposeRunner は依存関係を注入して初期化します。
func NewImagePromptComposeRunner(textGen generator.TextGenerator, pb prompts.PromptBuilder) (*ImagePromptComposeRunner, error) {
	if textGen == nil {
		return nil, fmt.Errorf("TextGenerator は必須です")
	}
	if pb == nil {
		return nil, fmt.Errorf("PromptBuilder は必須です")
	}
	return &ImagePromptComposeRunner{textGen: textGen, promptBuilder: pb}, nil
}

// Compose は1パネル分の画像プロンプトを生成します。応答は前後の空白を除くだけで検証しません。
func (r *ImagePromptComposeRunner) Compose(ctx context.Context, panel domain.Panel, characterImages, termImages asset.ImageIndex) (string, error) {
	prompt, err := r.promptBuilder.Build(prompts.ModeCompose, prompts.TemplateData{
		Panel:          panel,
		CharacterNames: characterImages.Names(),
		TermNames:      termImages.Names(),
	})
	if err != nil {
		return "", fmt.Errorf("画像プロンプト用の指示の構築に失敗しました: %w", err)
	}

	description, err := r.textGen.Generate(ctx, prompt)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(description), nil
}

// Run はパネルを順番に処理し、generated_image_description を付与した新しいリストを返します。
// panel_number が未設定のパネルには位置から番号を補います。1つでも失敗したらステージ全体を中断します。
func (r *ImagePromptComposeRunner) Run(ctx context.Context, panels domain.Panels, characterImages, termImages asset.ImageIndex) (domain.Panels, error) {
	if dups := panels.DuplicateNumbers(); len(dups) > 0 {
		slog.WarnContext(ctx, "Duplicate panel numbers in draft", "numbers", dups)
	}
	slog.InfoContext(ctx, "Composing image prompts",
		"panels", len(panels),
		"characters", panels.UniqueCharacterNames())

	out := make(domain.Panels, len(panels))
	for i, panel := range panels {
		panel.PanelNumber = panel.NumberAt(i)
		slog.InfoContext(ctx, "Composing image prompt", "panel", panel.PanelNumber, "progress", fmt.Sprintf("%d/%d", i+1, len(panels)))

		description, err := r.Compose(ctx, panel, characterImages, termImages)
		if err != nil {
			return nil, fmt.Errorf("パネル %d の画像プロンプト生成に失敗しました: %w", panel.PanelNumber, err)
		}
		panel.GeneratedImageDescription = description
		out[i] = panel
	}
	return out, nil
}
