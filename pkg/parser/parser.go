package parser

import (
	"fmt"
	"strings"

	"github.com/shouni/go-novel-comic/pkg/domain"

	"gopkg.in/yaml.v3"
)

// ParseError は AI の応答や入力ファイルがパネルのリストとして解釈できない場合のエラーです。
type ParseError struct {
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("パネルリストの解析に失敗しました: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("パネルリストの解析に失敗しました: %s", e.Reason)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// StripFences は先頭と末尾のコードフェンス（"```yaml" など）を取り除きます。
func StripFences(raw string) string {
	s := leadingFenceRegex.ReplaceAllString(raw, "")
	s = trailingFenceRegex.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// ParsePanels は AI の応答テキストからコードフェンスを除去し、YAML のパネルリストとして解析します。
func ParsePanels(raw string) (domain.Panels, error) {
	return DecodePanels([]byte(StripFences(raw)))
}

// DecodePanels は YAML（JSON も可）のパネルリストを解析します。
// トップレベルがリストでない場合と、マッピングでないパネルがある場合は ParseError を返します。
// 引用符付きの panel_number や単一名の characters は受け付け、壊れた dialogue は警告して捨てます。
func DecodePanels(data []byte) (domain.Panels, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &ParseError{Reason: "YAML として解釈できません", Err: err}
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, &ParseError{Reason: "内容が空です"}
	}

	root := doc.Content[0]
	if root.Kind != yaml.SequenceNode {
		return nil, &ParseError{Reason: fmt.Sprintf("トップレベルがリストではありません (%s)", kindName(root.Kind))}
	}

	var panels domain.Panels
	if err := root.Decode(&panels); err != nil {
		return nil, &ParseError{Reason: "パネルの項目を解釈できません", Err: err}
	}
	return panels, nil
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return "unknown"
	}
}
