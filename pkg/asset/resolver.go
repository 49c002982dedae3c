package asset

import (
	"fmt"
	"path/filepath"
)

const (
	// DataDir は入力データを格納するディレクトリ名です。
	DataDir = "data"
	// OutputDir は各ステージの成果物を格納するディレクトリ名です。
	OutputDir = "output"

	// NovelFileName は小説本文のファイル名です。
	NovelFileName = "novel.txt"
	// RegistryFileName はリファレンス画像レジストリのファイル名です。
	RegistryFileName = "reference_images.yaml"
	// ImageOptionsFileName は画像生成オプションの上書き設定ファイル名です（任意）。
	ImageOptionsFileName = "image_options.yaml"

	// DraftFileName はステージ1が出力するパネル草稿のファイル名です。
	DraftFileName = "comic_panels_draft.yaml"
	// DescribedFileName はステージ2が出力する画像プロンプト付きパネルのファイル名です。
	DescribedFileName = "generated_comic_data.json"
	// FinalFileName はステージ3が出力する最終成果物のファイル名です。
	FinalFileName = "final_comic_data_with_images.json"

	// ComicImageDir は生成されたパネル画像を格納する output 配下のディレクトリ名です。
	ComicImageDir = "comic_images"
	// PanelFileFormat はパネル画像のファイル名形式です。
	PanelFileFormat = "panel_%03d.png"
)

// Layout はプロジェクトルートを基準に各成果物のパスを解決します。
type Layout struct {
	Root string
}

// NewLayout は root を絶対パスに解決した Layout を返します。
func NewLayout(root string) (Layout, error) {
	if root == "" {
		root = "."
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return Layout{}, fmt.Errorf("プロジェクトルートの解決に失敗しました (%s): %w", root, err)
	}
	return Layout{Root: abs}, nil
}

func (l Layout) NovelPath() string        { return filepath.Join(l.Root, DataDir, NovelFileName) }
func (l Layout) RegistryPath() string     { return filepath.Join(l.Root, DataDir, RegistryFileName) }
func (l Layout) ImageOptionsPath() string { return filepath.Join(l.Root, DataDir, ImageOptionsFileName) }
func (l Layout) DraftPath() string        { return filepath.Join(l.Root, OutputDir, DraftFileName) }
func (l Layout) DescribedPath() string    { return filepath.Join(l.Root, OutputDir, DescribedFileName) }
func (l Layout) FinalPath() string        { return filepath.Join(l.Root, OutputDir, FinalFileName) }
func (l Layout) ComicImageDir() string    { return filepath.Join(l.Root, OutputDir, ComicImageDir) }

// SourceImageDir は images/<category> のパスを返します。category は "characters" や "terms" などです。
func (l Layout) SourceImageDir(category string) string {
	return filepath.Join(l.Root, "images", category)
}

// PanelImagePath はパネル番号に対応する画像の絶対パスを返します。
func (l Layout) PanelImagePath(panelNumber int) string {
	return filepath.Join(l.ComicImageDir(), PanelFileName(panelNumber))
}

// Rel は path をプロジェクトルートからのスラッシュ区切りの相対パスに変換します。
func (l Layout) Rel(path string) (string, error) {
	rel, err := filepath.Rel(l.Root, path)
	if err != nil {
		return "", fmt.Errorf("相対パスの解決に失敗しました (%s): %w", path, err)
	}
	return filepath.ToSlash(rel), nil
}

// PanelFileName はパネル番号を3桁ゼロ埋めしたファイル名を返します。例: 1 -> "panel_001.png"
func PanelFileName(panelNumber int) string {
	return fmt.Sprintf(PanelFileFormat, panelNumber)
}
