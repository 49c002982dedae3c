package asset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/shouni/go-novel-comic/pkg/domain"
	"github.com/shouni/go-novel-comic/pkg/parser"

	"gopkg.in/yaml.v3"
)

// ReadPanelsYAML はパネル草稿 (YAML リスト) を読み込みます。
// ファイルがない場合は producer を含む MissingArtifactError を返します。
func ReadPanelsYAML(path, producer string) (domain.Panels, error) {
	if err := RequireArtifact(path, producer); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("パネルファイルの読み込みに失敗しました (%s): %w", path, err)
	}
	panels, err := parser.DecodePanels(data)
	if err != nil {
		return nil, fmt.Errorf("パネルファイルの形式が不正です (%s): %w", path, err)
	}
	return panels, nil
}

// WritePanelsYAML はパネルを2スペースインデントの YAML リストとして書き出します。
func WritePanelsYAML(path string, panels domain.Panels) error {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(panels); err != nil {
		return fmt.Errorf("パネルの YAML エンコードに失敗しました: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("パネルの YAML エンコードに失敗しました: %w", err)
	}
	return writeFile(path, buf.Bytes())
}

// ReadPanelsJSON は JSON 配列のパネルファイルを読み込みます。
func ReadPanelsJSON(path, producer string) (domain.Panels, error) {
	if err := RequireArtifact(path, producer); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("パネルファイルの読み込みに失敗しました (%s): %w", path, err)
	}

	var panels domain.Panels
	if err := json.Unmarshal(data, &panels); err != nil {
		return nil, fmt.Errorf("パネル JSON のパースに失敗しました (%s): %w", path, err)
	}
	return panels, nil
}

// WritePanelsJSON はパネルを2スペースインデントの JSON として書き出します。非 ASCII 文字はエスケープしません。
func WritePanelsJSON(path string, panels domain.Panels) error {
	if panels == nil {
		panels = domain.Panels{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(panels); err != nil {
		return fmt.Errorf("パネルの JSON エンコードに失敗しました: %w", err)
	}
	return writeFile(path, buf.Bytes())
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("出力ディレクトリの作成に失敗しました (%s): %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("ファイルの書き込みに失敗しました (%s): %w", path, err)
	}
	return nil
}
