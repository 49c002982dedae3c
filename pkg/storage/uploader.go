package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"path"
	"strings"
)

const gcsPublicHost = "storage.googleapis.com"

// Uploader はオブジェクトストレージへアップロードし、公開 URL を返す契約です。
type Uploader interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// Writer は remoteio.OutputWriter のうちアップロードに使う部分です。
type Writer interface {
	Write(ctx context.Context, path string, r io.Reader, contentType string) error
}

// RemoteUploader は GCS バケットへ書き込む Uploader の実装です。
type RemoteUploader struct {
	writer        Writer
	baseURI       string // gs://<bucket>/
	publicBaseURL string
}

// NewRemoteUploader は RemoteUploader を生成します。
// publicBaseURL が空の場合は https://storage.googleapis.com/<bucket>/ を公開 URL の基点にします。
func NewRemoteUploader(writer Writer, bucket, publicBaseURL string) (*RemoteUploader, error) {
	if writer == nil {
		return nil, fmt.Errorf("OutputWriter は必須です")
	}
	bucket = strings.Trim(strings.TrimPrefix(bucket, "gs://"), "/")
	if bucket == "" {
		return nil, fmt.Errorf("バケット名が空です")
	}
	return &RemoteUploader{
		writer:        writer,
		baseURI:       "gs://" + bucket + "/",
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}, nil
}

// Upload は data を key に書き込み、公開 URL を返します。
func (u *RemoteUploader) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	key = strings.TrimLeft(key, "/")
	dest := u.baseURI + key
	if err := u.writer.Write(ctx, dest, bytes.NewReader(data), contentType); err != nil {
		return "", fmt.Errorf("アップロードに失敗しました (%s): %w", dest, err)
	}

	publicURL := u.PublicURL(key)
	slog.InfoContext(ctx, "Uploaded reference image", "dest", dest, "url", publicURL)
	return publicURL, nil
}

// PublicURL は key の公開 URL を返します。
func (u *RemoteUploader) PublicURL(key string) string {
	if u.publicBaseURL != "" {
		return u.publicBaseURL + "/" + strings.TrimLeft(key, "/")
	}
	return GCSPublicURL(u.baseURI + strings.TrimLeft(key, "/"))
}

// GCSPublicURL は gs://bucket/key を https://storage.googleapis.com/bucket/key に変換します。
// gs スキームでない場合はそのまま返します。
func GCSPublicURL(uri string) string {
	u, err := url.Parse(uri)
	if err != nil || u.Scheme != "gs" {
		return uri
	}
	public := &url.URL{
		Scheme: "https",
		Host:   gcsPublicHost,
		Path:   "/" + path.Join(u.Host, u.Path),
	}
	return public.String()
}
