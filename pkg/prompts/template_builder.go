package prompts

import (
	"embed"
	"fmt"
	"strings"
	"text/template"
)

// templateFS には "<mode>.md" という名前でモードごとのテンプレートが入っています。
//
//go:embed *.md
var templateFS embed.FS

// PromptBuilder は、AIプロンプトを構築する契約です。
type PromptBuilder interface {
	Build(mode string, data TemplateData) (string, error)
}

// TextPromptBuilder は埋め込みテンプレート一式からモード別のプロンプト文字列を生成します。
type TextPromptBuilder struct {
	set *template.Template
}

// NewTextPromptBuilder は全モードのテンプレートを1つのセットとして解析します。
// 既知のモードに対応するテンプレートが欠けている場合はエラーです。
func NewTextPromptBuilder() (*TextPromptBuilder, error) {
	set, err := template.New("prompts").
		Funcs(template.FuncMap{"join": strings.Join}).
		Option("missingkey=error").
		ParseFS(templateFS, "*.md")
	if err != nil {
		return nil, fmt.Errorf("プロンプトテンプレートの解析に失敗しました: %w", err)
	}

	for _, mode := range []string{ModeSegment, ModeCompose} {
		if set.Lookup(templateName(mode)) == nil {
			return nil, fmt.Errorf("プロンプトテンプレート '%s' が見つかりません", templateName(mode))
		}
	}
	return &TextPromptBuilder{set: set}, nil
}

// Build は mode のテンプレートを data で実行します。
// compose モードで StyleDirectives が空の場合は既定のスタイル指定を使います。
func (b *TextPromptBuilder) Build(mode string, data TemplateData) (string, error) {
	name := templateName(mode)
	if b.set.Lookup(name) == nil {
		return "", fmt.Errorf("不明なモードです: '%s'", mode)
	}
	if mode == ModeCompose && len(data.StyleDirectives) == 0 {
		data.StyleDirectives = StyleDirectives
	}

	var sb strings.Builder
	if err := b.set.ExecuteTemplate(&sb, name, data); err != nil {
		return "", fmt.Errorf("プロンプト '%s' の実行に失敗しました: %w", mode, err)
	}
	return sb.String(), nil
}

func templateName(mode string) string {
	return mode + ".md"
}
