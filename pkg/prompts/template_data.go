package prompts

import (
	"github.com/shouni/go-novel-comic/pkg/domain"
)

const (
	ModeSegment = "segment"
	ModeCompose = "compose"
)

// StyleDirectives は全パネルの画像プロンプトに必ず含めるスタイル指定です。
var StyleDirectives = []string{
	"Hand-painted gouache illustration with cel-shading.",
	"Clear, sharp outlines and distinct blocks of colour.",
	"Hard-edged shadows. No complex gradients.",
	"Natural, visible brushstrokes.",
	"High-saturation poster-colour palette.",
}

// TemplateData はプロンプトテンプレートに渡すデータ構造です。
type TemplateData struct {
	// InputText は分割対象の小説本文です (segment)。
	InputText string
	// CharacterNames と TermNames は利用可能なリファレンス画像の名前です。
	CharacterNames []string
	TermNames      []string
	// Panel は画像プロンプトを作成するパネルです (compose)。
	Panel domain.Panel
	// StyleDirectives は compose で使うスタイル指定です。
	StyleDirectives []string
}
