package generator

import (
	"bytes"
	"context"
	"io"
	"net/http"

	imagedom "github.com/shouni/gemini-image-kit/pkg/domain"
	"github.com/shouni/go-gemini-client/pkg/gemini"
)

// --- Mocks ---

type mockContentGenerator struct {
	lastModel  string
	lastPrompt string
	resp       *gemini.Response
	err        error
	block      bool // true の場合は ctx が終わるまで応答しない
}

func (m *mockContentGenerator) GenerateContent(ctx context.Context, model string, prompt string) (*gemini.Response, error) {
	m.lastModel = model
	m.lastPrompt = prompt
	if m.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return m.resp, m.err
}

// mockHTTPClient は実際の HTTP 通信を http.Client で行い、DoRequest と FetchBytes の呼び出しを記録します。
type mockHTTPClient struct {
	client      *http.Client
	lastRequest *http.Request
	lastBody    []byte
	fetchedURLs []string
}

func (m *mockHTTPClient) DoRequest(req *http.Request) ([]byte, error) {
	m.lastRequest = req
	if req.Body != nil {
		body, _ := io.ReadAll(req.Body)
		m.lastBody = body
		req.Body = io.NopCloser(bytes.NewReader(body))
	}
	return m.do(req)
}

func (m *mockHTTPClient) do(req *http.Request) ([]byte, error) {
	resp, err := m.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 300 {
		return nil, &statusError{code: resp.StatusCode}
	}
	return data, nil
}

func (m *mockHTTPClient) FetchBytes(ctx context.Context, url string) ([]byte, error) {
	m.fetchedURLs = append(m.fetchedURLs, url)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	return m.do(req)
}

type statusError struct{ code int }

func (e *statusError) Error() string { return http.StatusText(e.code) }

type mockPageGenerator struct {
	lastReq imagedom.ImagePageRequest
	resp    *imagedom.ImageResponse
	err     error
}

func (m *mockPageGenerator) GenerateMangaPage(ctx context.Context, req imagedom.ImagePageRequest) (*imagedom.ImageResponse, error) {
	m.lastReq = req
	return m.resp, m.err
}
