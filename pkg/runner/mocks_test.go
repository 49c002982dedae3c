package runner

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/shouni/go-novel-comic/pkg/generator"

	imagedom "github.com/shouni/gemini-image-kit/pkg/domain"
	"github.com/shouni/go-gemini-client/pkg/gemini"
)

// --- Mocks ---

type mockTextGenerator struct {
	prompts      []string
	generateFunc func(ctx context.Context, prompt string) (string, error)
}

func (m *mockTextGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	m.prompts = append(m.prompts, prompt)
	return m.generateFunc(ctx, prompt)
}

// hangingContentGenerator は ctx が終わるまで応答しない AI クライアントです。
type hangingContentGenerator struct{}

func (hangingContentGenerator) GenerateContent(ctx context.Context, model string, prompt string) (*gemini.Response, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

type mockImageGenerator struct {
	requests     []generator.ImageRequest
	generateFunc func(ctx context.Context, req generator.ImageRequest) (*imagedom.ImageResponse, error)
}

func (m *mockImageGenerator) Generate(ctx context.Context, req generator.ImageRequest) (*imagedom.ImageResponse, error) {
	m.requests = append(m.requests, req)
	if m.generateFunc != nil {
		return m.generateFunc(ctx, req)
	}
	return &imagedom.ImageResponse{Data: []byte("png:" + req.Prompt), MimeType: "image/png"}, nil
}

type mockWriter struct {
	mu    sync.Mutex
	files map[string][]byte
	err   error
}

func (m *mockWriter) Write(ctx context.Context, path string, r io.Reader, contentType string) error {
	if m.err != nil {
		return m.err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.files == nil {
		m.files = map[string][]byte{}
	}
	m.files[path] = data
	return nil
}

type mockUploader struct {
	keys []string
	err  error
}

func (m *mockUploader) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.keys = append(m.keys, key)
	return fmt.Sprintf("https://cdn.example.com/%s", key), nil
}
