package generator

import (
	"context"
	"errors"

	imagedom "github.com/shouni/gemini-image-kit/pkg/domain"
)

// ErrEmptyImage は画像 API が成功応答を返したものの画像データを含まなかった場合のエラーです。
var ErrEmptyImage = errors.New("画像 API の応答に画像データが含まれていません")

// TextGenerator はプロンプトから1つのテキスト応答を生成するテキスト生成 API の契約です。
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ImageRequest は1枚の画像生成リクエストです。
type ImageRequest struct {
	Prompt string
	// ReferenceURLs は条件付けに使う参照画像の URL です。順序は意味を持ちます。
	ReferenceURLs []string
	// Size は "2048x2048" のような出力サイズです。空の場合は Options の値を使います。
	Size string
	// Style は "anime" のようなスタイル名です。空の場合は Options の値を使います。
	Style string
}

// ImageGenerator は1回の呼び出しで1枚の画像を生成する画像生成 API の契約です。
type ImageGenerator interface {
	Generate(ctx context.Context, req ImageRequest) (*imagedom.ImageResponse, error)
}
