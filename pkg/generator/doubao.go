package generator

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	imagedom "github.com/shouni/gemini-image-kit/pkg/domain"
)

const doubaoGenerationsPath = "/images/generations"

// HTTPClient は Doubao バックエンドが使う HTTP 操作です。httpkit.ClientInterface がこれを満たします。
type HTTPClient interface {
	DoRequest(req *http.Request) ([]byte, error)
	FetchBytes(ctx context.Context, url string) ([]byte, error)
}

// DoubaoConfig は Doubao 画像生成 API の接続情報です。
type DoubaoConfig struct {
	APIKey  string
	BaseURL string
	ModelID string
}

// doubaoImagesPerCall は1リクエストで生成する枚数です。応答は先頭の1枚しか読みません。
const doubaoImagesPerCall = 1

// DoubaoGenerator は Doubao (Seedream) の画像生成 API を使う ImageGenerator の実装です。
type DoubaoGenerator struct {
	httpClient HTTPClient
	cfg        DoubaoConfig
	opts       Options
}

type doubaoExtraParams struct {
	Seed              int64   `json:"seed"`
	Style             string  `json:"style"`
	Quality           string  `json:"quality"`
	Steps             int     `json:"steps"`
	CFGScale          float64 `json:"cfg_scale"`
	Sampler           string  `json:"sampler"`
	NegativePrompt    string  `json:"negative_prompt"`
	DetailLevel       string  `json:"detail_level"`
	Enhance           bool    `json:"enhance"`
	Contrast          float64 `json:"contrast"`
	Saturation        float64 `json:"saturation"`
	Brightness        float64 `json:"brightness"`
	SeedOverride      bool    `json:"seed_override"`
	VariationStrength float64 `json:"variation_strength"`
}

type doubaoRequest struct {
	Model          string            `json:"model"`
	Prompt         string            `json:"prompt"`
	Image          []string          `json:"image"`
	ImageStrength  float64           `json:"image_strength"`
	N              int               `json:"n"`
	Size           string            `json:"size"`
	ResponseFormat string            `json:"response_format"`
	ExtraParams    doubaoExtraParams `json:"extra_params"`
}

type doubaoResponse struct {
	Data []struct {
		URL     string `json:"url"`
		B64JSON string `json:"b64_json"`
	} `json:"data"`
}

// NewDoubaoGenerator は DoubaoGenerator を生成します。
func NewDoubaoGenerator(httpClient HTTPClient, cfg DoubaoConfig, opts Options) (*DoubaoGenerator, error) {
	if httpClient == nil {
		return nil, fmt.Errorf("httpClient は必須です")
	}
	if cfg.APIKey == "" || cfg.BaseURL == "" || cfg.ModelID == "" {
		return nil, fmt.Errorf("Doubao の APIKey, BaseURL, ModelID はすべて必須です")
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &DoubaoGenerator{httpClient: httpClient, cfg: cfg, opts: opts}, nil
}

// Generate は1枚の画像を生成し、画像データを返します。
// 応答が URL の場合は画像をダウンロードします。
func (g *DoubaoGenerator) Generate(ctx context.Context, req ImageRequest) (*imagedom.ImageResponse, error) {
	body, err := json.Marshal(g.buildRequest(req))
	if err != nil {
		return nil, fmt.Errorf("リクエストのエンコードに失敗しました: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.cfg.BaseURL+doubaoGenerationsPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("リクエストの作成に失敗しました: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+g.cfg.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")

	slog.DebugContext(ctx, "Doubao image request", "model", g.cfg.ModelID, "refs", len(req.ReferenceURLs))
	respBody, err := g.httpClient.DoRequest(httpReq)
	if err != nil {
		return nil, fmt.Errorf("Doubao 画像生成リクエストに失敗しました: %w", err)
	}

	var resp doubaoResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("Doubao 応答のデコードに失敗しました: %w", err)
	}
	data, err := g.fetchImage(ctx, resp)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, ErrEmptyImage
	}

	return &imagedom.ImageResponse{
		Data:     data,
		MimeType: http.DetectContentType(data),
		UsedSeed: g.opts.Seed,
	}, nil
}

// fetchImage は先頭の生成結果から画像データを取り出します。
func (g *DoubaoGenerator) fetchImage(ctx context.Context, resp doubaoResponse) ([]byte, error) {
	if len(resp.Data) == 0 {
		return nil, ErrEmptyImage
	}

	item := resp.Data[0]
	switch {
	case item.B64JSON != "":
		data, err := base64.StdEncoding.DecodeString(item.B64JSON)
		if err != nil {
			return nil, fmt.Errorf("base64 画像のデコードに失敗しました: %w", err)
		}
		return data, nil
	case item.URL != "":
		data, err := g.httpClient.FetchBytes(ctx, item.URL)
		if err != nil {
			return nil, fmt.Errorf("生成画像のダウンロードに失敗しました (%s): %w", item.URL, err)
		}
		return data, nil
	default:
		return nil, ErrEmptyImage
	}
}

func (g *DoubaoGenerator) buildRequest(req ImageRequest) doubaoRequest {
	o := g.opts
	size := o.Size
	if req.Size != "" {
		size = req.Size
	}
	style := o.Style
	if req.Style != "" {
		style = req.Style
	}
	refs := req.ReferenceURLs
	if refs == nil {
		refs = []string{}
	}

	return doubaoRequest{
		Model:          g.cfg.ModelID,
		Prompt:         req.Prompt,
		Image:          refs,
		ImageStrength:  o.ImageStrength,
		N:              doubaoImagesPerCall,
		Size:           size,
		ResponseFormat: o.ResponseFormat,
		ExtraParams: doubaoExtraParams{
			Seed:              o.Seed,
			Style:             style,
			Quality:           o.Quality,
			Steps:             o.Steps,
			CFGScale:          o.CFGScale,
			Sampler:           o.Sampler,
			NegativePrompt:    o.NegativePrompt,
			DetailLevel:       o.DetailLevel,
			Enhance:           o.Enhance,
			Contrast:          o.Contrast,
			Saturation:        o.Saturation,
			Brightness:        o.Brightness,
			SeedOverride:      o.SeedOverride,
			VariationStrength: o.VariationStrength,
		},
	}
}
