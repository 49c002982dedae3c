package registry

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// CategoryCharacters などはレジストリファイルのトップレベルのキーです。
	CategoryCharacters = "characters"
	CategoryScenes     = "scenes"
	CategoryStyles     = "styles"
)

// categoryPrefix はカテゴリごとの名前空間キーの接頭辞です。
var categoryPrefix = map[string]string{
	CategoryCharacters: "character",
	CategoryScenes:     "scene",
	CategoryStyles:     "style",
}

var schemeRegex = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9+.\-]*://`)

// Registry は data/reference_images.yaml の内容です。
// 3つの既知カテゴリ以外のトップレベルキーは Extra に保持され、書き戻し時にそのまま出力されます。
type Registry struct {
	Characters map[string]string      `yaml:"characters"`
	Scenes     map[string]string      `yaml:"scenes"`
	Styles     map[string]string      `yaml:"styles"`
	Extra      map[string]interface{} `yaml:",inline"`
}

// References は "<category>:<name>" 形式のキーから正規化済み URL へのマップです。
type References map[string]string

// Key は名前空間付きのキーを返します。category は "characters" / "scenes" / "styles" です。
func Key(category, name string) string {
	return categoryPrefix[category] + ":" + name
}

// Lookup はカテゴリと名前で URL を引きます。
func (r References) Lookup(category, name string) (string, bool) {
	url, ok := r[Key(category, name)]
	return url, ok
}

// NormalizeURL はスキーム付きの URL をそのまま返し、スキームがない場合は https:// を補います。
func NormalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if schemeRegex.MatchString(raw) {
		return raw
	}
	return "https://" + strings.TrimLeft(raw, "/")
}

// ValidateCategory はカテゴリ名が既知のものかを検証します。
func ValidateCategory(category string) error {
	if _, ok := categoryPrefix[category]; !ok {
		return fmt.Errorf("不明なカテゴリです: '%s' (characters, scenes, styles のいずれかを指定してください)", category)
	}
	return nil
}

// Read はレジストリファイルを読み込みます。ファイルが存在しない場合は空のレジストリと fs.ErrNotExist を返します。
func Read(path string) (*Registry, error) {
	reg := &Registry{}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			reg.ensureCategories()
			return reg, err
		}
		return nil, fmt.Errorf("レジストリファイルの読み込みに失敗しました (%s): %w", path, err)
	}

	if err := yaml.Unmarshal(data, reg); err != nil {
		return nil, fmt.Errorf("レジストリファイルのパースに失敗しました (%s): %w", path, err)
	}
	reg.ensureCategories()
	return reg, nil
}

// Load はレジストリファイルを読み込み、全カテゴリを名前空間付きのキーでまとめた References を返します。
// ファイルがない場合は警告を出して空の結果を返します。
func Load(path string) (References, error) {
	reg, err := Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			slog.Warn("リファレンス画像レジストリが見つかりません。参照画像なしで続行します", "path", path)
			return References{}, nil
		}
		return nil, err
	}
	return reg.References(), nil
}

// References はレジストリを名前空間付きのフラットなマップに変換します。
func (r *Registry) References() References {
	refs := make(References)
	for category, entries := range r.categories() {
		for name, raw := range entries {
			if strings.TrimSpace(raw) == "" {
				slog.Warn("URL が空のエントリをスキップします", "category", category, "name", name)
				continue
			}
			refs[Key(category, name)] = NormalizeURL(raw)
		}
	}
	return refs
}

// Merge は指定カテゴリに entries を上書きマージします。他のカテゴリには触れません。
func (r *Registry) Merge(category string, entries map[string]string) error {
	if err := ValidateCategory(category); err != nil {
		return err
	}
	r.ensureCategories()
	target := r.categories()[category]
	for name, url := range entries {
		target[name] = url
	}
	return nil
}

// Save はレジストリを YAML として path に書き出します。
func (r *Registry) Save(path string) error {
	r.ensureCategories()

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("レジストリのエンコードに失敗しました: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("レジストリのエンコードに失敗しました: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("レジストリのディレクトリ作成に失敗しました: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("レジストリファイルの書き込みに失敗しました (%s): %w", path, err)
	}
	return nil
}

// MergeAndPersist は既存のレジストリ（なければ空）を読み込み、1カテゴリ分のエントリをマージして書き戻します。
// 同じ入力で繰り返し呼んでも結果は変わりません。
func MergeAndPersist(path, category string, entries map[string]string) error {
	if err := ValidateCategory(category); err != nil {
		return err
	}

	reg, err := Read(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	if err := reg.Merge(category, entries); err != nil {
		return err
	}

	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	sort.Strings(names)
	slog.Info("Reference registry updated", "path", path, "category", category, "entries", names)

	return reg.Save(path)
}

func (r *Registry) ensureCategories() {
	if r.Characters == nil {
		r.Characters = map[string]string{}
	}
	if r.Scenes == nil {
		r.Scenes = map[string]string{}
	}
	if r.Styles == nil {
		r.Styles = map[string]string{}
	}
}

func (r *Registry) categories() map[string]map[string]string {
	return map[string]map[string]string{
		CategoryCharacters: r.Characters,
		CategoryScenes:     r.Scenes,
		CategoryStyles:     r.Styles,
	}
}
