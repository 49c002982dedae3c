package asset

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	// CharacterImageCategory はキャラクター画像のディレクトリ名です。
	CharacterImageCategory = "characters"
	// TermImageCategory は用語（小道具・場所など）画像のディレクトリ名です。
	TermImageCategory = "terms"
)

// ImageIndex は名前（ファイル名の拡張子を除いた部分）からローカルパスへのマップです。
type ImageIndex map[string]string

// Names は名前を昇順で返します。
func (idx ImageIndex) Names() []string {
	names := make([]string, 0, len(idx))
	for name := range idx {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resources は1回の実行で使うローカル資源のインデックスです。
type Resources struct {
	NovelText       string
	CharacterImages ImageIndex
	TermImages      ImageIndex
}

// LoadNovelText は data/novel.txt を読み込みます。
func LoadNovelText(layout Layout) (string, error) {
	path := layout.NovelPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", &MissingArtifactError{Path: path}
		}
		return "", fmt.Errorf("小説ファイルの読み込みに失敗しました (%s): %w", path, err)
	}
	return string(data), nil
}

// ScanImages はディレクトリ直下のファイルを列挙し、ファイル名の stem をキーにしたインデックスを返します。
// ディレクトリが存在しない場合は空のインデックスを返します。
func ScanImages(dir string) (ImageIndex, error) {
	idx := make(ImageIndex)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			slog.Debug("Image directory not found", "dir", dir)
			return idx, nil
		}
		return nil, fmt.Errorf("画像ディレクトリの読み込みに失敗しました (%s): %w", dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		stem := strings.TrimSuffix(name, filepath.Ext(name))
		idx[stem] = filepath.Join(dir, name)
	}
	return idx, nil
}

// LoadImageIndexes は images/characters と images/terms をスキャンします。
func LoadImageIndexes(layout Layout) (characters, terms ImageIndex, err error) {
	characters, err = ScanImages(layout.SourceImageDir(CharacterImageCategory))
	if err != nil {
		return nil, nil, err
	}
	terms, err = ScanImages(layout.SourceImageDir(TermImageCategory))
	if err != nil {
		return nil, nil, err
	}
	return characters, terms, nil
}

// LoadResources は小説本文と画像インデックスをまとめて読み込みます。
func LoadResources(layout Layout) (*Resources, error) {
	text, err := LoadNovelText(layout)
	if err != nil {
		return nil, err
	}
	chars, terms, err := LoadImageIndexes(layout)
	if err != nil {
		return nil, err
	}

	slog.Info("Resources loaded",
		"novel_chars", len([]rune(text)),
		"character_images", len(chars),
		"term_images", len(terms))

	return &Resources{
		NovelText:       text,
		CharacterImages: chars,
		TermImages:      terms,
	}, nil
}
