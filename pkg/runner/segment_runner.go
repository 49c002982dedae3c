package runner

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shouni/go-novel-comic/pkg/domain"
	"github.com/shouni/go-novel-comic/pkg/generator"
	"github.com/shouni/go-novel-comic/pkg/parser"
	"github.com/shouni/go-novel-comic/pkg/prompts"
)

// NovelSegmentRunner は小説本文を AI でパネルのリストに分割します。
type NovelSegmentRunner struct {
	textGen       generator.TextGenerator
	promptBuilder prompts.PromptBuilder
}

// NewNovelSegmentRunner は依存関係を注入して初期化します。
func NewNovelSegmentRunner(textGen generator.TextGenerator, pb prompts.PromptBuilder) (*NovelSegmentRunner, error) {
	if textGen == nil {
		return nil, fmt.Errorf("TextGenerator は必須です")
	}
	if pb == nil {
		return nil, fmt.Errorf("PromptBuilder は必須です")
	}
	return &NovelSegmentRunner{textGen: textGen, promptBuilder: pb}, nil
}

// Run は本文を1回の AI 呼び出しでパネルに分割します。
// 既知のキャラクター名と用語名はヒントとしてプロンプトに含めます。
func (r *NovelSegmentRunner) Run(ctx context.Context, novelText string, characterNames, termNames []string) (domain.Panels, error) {
	prompt, err := r.promptBuilder.Build(prompts.ModeSegment, prompts.TemplateData{
		InputText:      novelText,
		CharacterNames: characterNames,
		TermNames:      termNames,
	})
	if err != nil {
		return nil, fmt.Errorf("分割プロンプトの構築に失敗しました: %w", err)
	}

	slog.InfoContext(ctx, "Segmenting novel into panels", "known_characters", len(characterNames), "known_terms", len(termNames))
	raw, err := r.textGen.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("パネル分割の生成に失敗しました: %w", err)
	}

	panels, err := parser.ParsePanels(raw)
	if err != nil {
		return nil, err
	}

	if dups := panels.DuplicateNumbers(); len(dups) > 0 {
		slog.WarnContext(ctx, "Duplicate panel numbers in segmenter output", "numbers", dups)
	}
	slog.InfoContext(ctx, "Segmentation completed", "panels", len(panels))
	return panels, nil
}
