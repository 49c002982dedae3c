package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// panelFields は Panel のメソッドを持たない別名で、既定のエンコードに使います。
type panelFields Panel

// knownPanelKeys は Panel のフィールドに対応するキーです。これ以外のキーは Extra に入ります。
var knownPanelKeys = map[string]bool{
	"panel_number":                true,
	"scene_description":           true,
	"characters":                  true,
	"dialogue":                    true,
	"scene_tag":                   true,
	"style_tag":                   true,
	"generated_image_description": true,
	"generated_image_path":        true,
}

// UnmarshalYAML はパネルを項目ごとに寛容に読み込みます。
// 型の合わない項目は警告を出して既定値のままにし、パネル全体を失敗させません。
// 失敗するのはパネルがマッピングでない場合だけです。
func (p *Panel) UnmarshalYAML(value *yaml.Node) error {
	value = resolveAlias(value)
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("パネルはマッピングである必要があります (line %d)", value.Line)
	}

	var out Panel
	for i := 0; i+1 < len(value.Content); i += 2 {
		key := value.Content[i].Value
		node := resolveAlias(value.Content[i+1])

		switch key {
		case "panel_number":
			out.PanelNumber = decodePanelNumber(node)
		case "scene_description":
			out.SceneDescription = decodeText(key, node)
		case "characters":
			out.Characters = decodeNames(node)
		case "dialogue":
			out.Dialogue = decodeDialogue(node)
		case "scene_tag":
			out.SceneTag = decodeText(key, node)
		case "style_tag":
			out.StyleTag = decodeText(key, node)
		case "generated_image_description":
			out.GeneratedImageDescription = decodeText(key, node)
		case "generated_image_path":
			out.GeneratedImagePath = decodeText(key, node)
		default:
			var v interface{}
			if err := node.Decode(&v); err != nil {
				slog.Warn("Dropping undecodable panel field", "key", key, "line", node.Line, "error", err)
				continue
			}
			if out.Extra == nil {
				out.Extra = make(map[string]interface{})
			}
			out.Extra[key] = v
		}
	}

	*p = out
	return nil
}

// UnmarshalJSON は JSON を YAML として読み、UnmarshalYAML と同じ寛容な規則を適用します。
func (p *Panel) UnmarshalJSON(data []byte) error {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return err
	}
	if len(doc.Content) == 0 {
		return fmt.Errorf("パネルが空です")
	}
	if isNull(doc.Content[0]) {
		return nil
	}
	return p.UnmarshalYAML(doc.Content[0])
}

// MarshalJSON は既知の項目を定義順に出力し、その後に Extra のキーを名前順に続けます。
func (p Panel) MarshalJSON() ([]byte, error) {
	base, err := encodeJSON(panelFields(p))
	if err != nil {
		return nil, err
	}
	if len(p.Extra) == 0 {
		return base, nil
	}

	keys := make([]string, 0, len(p.Extra))
	for k := range p.Extra {
		if !knownPanelKeys[k] {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	var buf bytes.Buffer
	buf.Write(bytes.TrimSuffix(base, []byte("}")))
	for _, k := range keys {
		name, err := encodeJSON(k)
		if err != nil {
			return nil, err
		}
		val, err := encodeJSON(p.Extra[k])
		if err != nil {
			return nil, fmt.Errorf("パネルの追加項目 '%s' をエンコードできません: %w", k, err)
		}
		buf.WriteByte(',')
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// encodeJSON は HTML エスケープなしで v をエンコードします。
func encodeJSON(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func resolveAlias(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

func isNull(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.ShortTag() == "!!null"
}

// decodePanelNumber は 3, "3", 3.0 を受け付けます。解釈できない場合は 0（位置から補う）を返します。
func decodePanelNumber(n *yaml.Node) int {
	if isNull(n) {
		return 0
	}
	if n.Kind == yaml.ScalarNode {
		s := strings.TrimSpace(n.Value)
		if v, err := strconv.Atoi(s); err == nil {
			return v
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil && f == math.Trunc(f) {
			return int(f)
		}
	}
	slog.Warn("Ignoring invalid panel_number", "value", n.Value, "line", n.Line)
	return 0
}

func decodeText(key string, n *yaml.Node) string {
	if isNull(n) {
		return ""
	}
	if n.Kind != yaml.ScalarNode {
		slog.Warn("Ignoring non-text panel field", "key", key, "line", n.Line)
		return ""
	}
	return n.Value
}

// decodeNames はリストのほか、単一の名前だけのスカラーも受け付けます。
func decodeNames(n *yaml.Node) []string {
	switch {
	case isNull(n):
		return nil
	case n.Kind == yaml.ScalarNode:
		if s := strings.TrimSpace(n.Value); s != "" {
			return []string{s}
		}
		return nil
	case n.Kind == yaml.SequenceNode:
		names := make([]string, 0, len(n.Content))
		for _, item := range n.Content {
			item = resolveAlias(item)
			if item.Kind != yaml.ScalarNode || isNull(item) {
				slog.Warn("Dropping invalid character entry", "line", item.Line)
				continue
			}
			names = append(names, item.Value)
		}
		return names
	default:
		slog.Warn("Ignoring invalid characters field", "line", n.Line)
		return nil
	}
}

// decodeDialogue は character と line を持つマッピングのリストを読み込みます。形の合わない項目は捨てます。
func decodeDialogue(n *yaml.Node) []Dialogue {
	if isNull(n) {
		return nil
	}
	if n.Kind != yaml.SequenceNode {
		slog.Warn("Dropping malformed dialogue", "line", n.Line)
		return nil
	}

	lines := make([]Dialogue, 0, len(n.Content))
	for _, item := range n.Content {
		item = resolveAlias(item)
		if item.Kind != yaml.MappingNode {
			slog.Warn("Dropping malformed dialogue entry", "line", item.Line)
			continue
		}
		var d Dialogue
		valid := true
		for i := 0; i+1 < len(item.Content); i += 2 {
			v := resolveAlias(item.Content[i+1])
			if v.Kind != yaml.ScalarNode {
				valid = false
				break
			}
			switch item.Content[i].Value {
			case "character":
				d.Character = v.Value
			case "line":
				d.Line = v.Value
			}
		}
		if !valid {
			slog.Warn("Dropping malformed dialogue entry", "line", item.Line)
			continue
		}
		lines = append(lines, d)
	}
	return lines
}
