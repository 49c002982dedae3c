package runner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"mime"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/shouni/go-novel-comic/pkg/storage"
)

// DefaultKeyPrefix はアップロード先のオブジェクトキーの接頭辞です。
const DefaultKeyPrefix = "comic_refs"

// referenceImageExts はアップロード対象の拡張子です。
var referenceImageExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".webp": true,
}

// nameSuffixKeywords は衣装やポーズを表すファイル名中のキーワードです。
var nameSuffixKeywords = []string{"常服", "战斗服", "便服", "立绘", "全身", "头像"}

// ReferenceUploadRunner はローカルのリファレンス画像をストレージにアップロードし、名前と公開 URL の対応を返します。
type ReferenceUploadRunner struct {
	uploader  storage.Uploader
	keyPrefix string
}

// NewReferenceUploadRunner は依存関係を注入して初期化します。
func NewReferenceUploadRunner(uploader storage.Uploader, keyPrefix string) (*ReferenceUploadRunner, error) {
	if uploader == nil {
		return nil, fmt.Errorf("Uploader は必須です")
	}
	if keyPrefix == "" {
		keyPrefix = DefaultKeyPrefix
	}
	return &ReferenceUploadRunner{uploader: uploader, keyPrefix: strings.Trim(keyPrefix, "/")}, nil
}

// GuessEntityName はファイル名からキャラクターなどの名前を推定します。
// 衣装やポーズのキーワードが先頭以外に現れた場合は、最も手前のキーワードの直前までを名前とします。
// 例: "林墨常服.png" -> "林墨"
func GuessEntityName(fileName string) string {
	stem := strings.TrimSuffix(fileName, filepath.Ext(fileName))
	cut := -1
	for _, kw := range nameSuffixKeywords {
		if idx := strings.Index(stem, kw); idx > 0 && (cut < 0 || idx < cut) {
			cut = idx
		}
	}
	if cut < 0 {
		return stem
	}
	if name := strings.TrimRight(stem[:cut], " _-"); name != "" {
		return name
	}
	return stem
}

// Run は dir 直下の画像を名前順にアップロードし、名前から公開 URL へのマップを返します。
// 同じ名前に複数の画像がある場合は後のものが優先されます。
func (r *ReferenceUploadRunner) Run(ctx context.Context, dir, category string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("リファレンス画像のディレクトリが存在しません: %s", dir)
		}
		return nil, fmt.Errorf("リファレンス画像のディレクトリの読み込みに失敗しました (%s): %w", dir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !referenceImageExts[strings.ToLower(filepath.Ext(entry.Name()))] {
			continue
		}
		files = append(files, entry.Name())
	}
	sort.Strings(files)

	uploaded := make(map[string]string, len(files))
	for _, fileName := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		data, err := os.ReadFile(filepath.Join(dir, fileName))
		if err != nil {
			return nil, fmt.Errorf("画像の読み込みに失敗しました (%s): %w", fileName, err)
		}

		name := GuessEntityName(fileName)
		key := path.Join(r.keyPrefix, category, name, fileName)
		url, err := r.uploader.Upload(ctx, key, data, contentTypeOf(fileName, data))
		if err != nil {
			return nil, fmt.Errorf("%s のアップロードに失敗しました: %w", fileName, err)
		}

		slog.InfoContext(ctx, "Reference image uploaded", "name", name, "file", fileName, "url", url)
		uploaded[name] = url
	}

	if len(uploaded) == 0 {
		slog.WarnContext(ctx, "No reference images found", "dir", dir)
	}
	return uploaded, nil
}

func contentTypeOf(fileName string, data []byte) string {
	if ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(fileName))); ct != "" {
		return ct
	}
	return http.DetectContentType(data)
}
