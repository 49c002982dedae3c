package generator

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultImageSize      = "1280x720"
	DefaultResponseFormat = "url"
	DefaultNegativePrompt = "blurry, gradient, soft shadow, low saturation, flat color, digital painting, smooth brush, overdetailed, messy lines, dull light, gray tone, watermark"
)

// Options は画像生成 API に渡す全パラメータです。未指定の項目は DefaultOptions の値になります。
type Options struct {
	N              int     `yaml:"n" json:"n"`
	Size           string  `yaml:"size" json:"size"`
	ResponseFormat string  `yaml:"response_format" json:"response_format"`
	ImageStrength  float64 `yaml:"image_strength" json:"image_strength"`

	Seed              int64   `yaml:"seed" json:"seed"`
	Style             string  `yaml:"style" json:"style"`
	Quality           string  `yaml:"quality" json:"quality"`
	Steps             int     `yaml:"steps" json:"steps"`
	CFGScale          float64 `yaml:"cfg_scale" json:"cfg_scale"`
	Sampler           string  `yaml:"sampler" json:"sampler"`
	NegativePrompt    string  `yaml:"negative_prompt" json:"negative_prompt"`
	DetailLevel       string  `yaml:"detail_level" json:"detail_level"`
	Enhance           bool    `yaml:"enhance" json:"enhance"`
	Contrast          float64 `yaml:"contrast" json:"contrast"`
	Saturation        float64 `yaml:"saturation" json:"saturation"`
	Brightness        float64 `yaml:"brightness" json:"brightness"`
	SeedOverride      bool    `yaml:"seed_override" json:"seed_override"`
	VariationStrength float64 `yaml:"variation_strength" json:"variation_strength"`
}

// DefaultOptions は既定の画像生成パラメータを返します。
func DefaultOptions() Options {
	return Options{
		N:                 1,
		Size:              DefaultImageSize,
		ResponseFormat:    DefaultResponseFormat,
		ImageStrength:     0.6,
		Seed:              42,
		Style:             "anime",
		Quality:           "hd",
		Steps:             40,
		CFGScale:          10.0,
		Sampler:           "DPM++ 2M Karras",
		NegativePrompt:    DefaultNegativePrompt,
		DetailLevel:       "high",
		Enhance:           true,
		Contrast:          1.2,
		Saturation:        1.4,
		Brightness:        1.1,
		SeedOverride:      true,
		VariationStrength: 0.1,
	}
}

// DecodeOptions は YAML を既定値の上に重ねて Options を返します。未知のキーはエラーになります。
func DecodeOptions(r io.Reader) (Options, error) {
	opts := DefaultOptions()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&opts); err != nil && !errors.Is(err, io.EOF) {
		return Options{}, fmt.Errorf("画像生成オプションの解析に失敗しました: %w", err)
	}
	if err := opts.Validate(); err != nil {
		return Options{}, err
	}
	return opts, nil
}

// LoadOptions は path の YAML を読み込みます。ファイルがない場合は既定値を返します。
func LoadOptions(path string) (Options, error) {
	if path == "" {
		return DefaultOptions(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return DefaultOptions(), nil
		}
		return Options{}, fmt.Errorf("画像生成オプションの読み込みに失敗しました (%s): %w", path, err)
	}
	opts, err := DecodeOptions(bytes.NewReader(data))
	if err != nil {
		return Options{}, fmt.Errorf("%s: %w", path, err)
	}
	return opts, nil
}

// Validate は値の範囲を検証します。
func (o Options) Validate() error {
	if o.N != 1 {
		return fmt.Errorf("n は1のみ指定できます (1回の呼び出しで1枚を生成します): %d", o.N)
	}
	if o.Size == "" {
		return fmt.Errorf("size が空です")
	}
	if o.ResponseFormat != "url" && o.ResponseFormat != "b64_json" {
		return fmt.Errorf("response_format は url または b64_json である必要があります: %s", o.ResponseFormat)
	}
	if o.ImageStrength < 0 || o.ImageStrength > 1 {
		return fmt.Errorf("image_strength は0から1の範囲である必要があります: %v", o.ImageStrength)
	}
	return nil
}
