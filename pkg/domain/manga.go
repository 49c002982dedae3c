package domain

// Dialogue は1つのセリフと話者を保持します。
type Dialogue struct {
	Character string `yaml:"character" json:"character"`
	Line      string `yaml:"line" json:"line"`
}

// Panel は漫画の1コマの構成、登場人物、セリフ、および各ステージの生成結果を保持します。
type Panel struct {
	PanelNumber      int        `yaml:"panel_number,omitempty" json:"panel_number,omitempty"`
	SceneDescription string     `yaml:"scene_description" json:"scene_description"`
	Characters       []string   `yaml:"characters" json:"characters"`
	Dialogue         []Dialogue `yaml:"dialogue" json:"dialogue"`

	// SceneTag と StyleTag はリファレンス画像レジストリのキーです。省略可能です。
	SceneTag string `yaml:"scene_tag,omitempty" json:"scene_tag,omitempty"`
	StyleTag string `yaml:"style_tag,omitempty" json:"style_tag,omitempty"`

	// GeneratedImageDescription はステージ2で付与される画像生成プロンプトです。
	GeneratedImageDescription string `yaml:"generated_image_description,omitempty" json:"generated_image_description,omitempty"`
	// GeneratedImagePath はステージ3で付与される、プロジェクトルートからの相対パスです。
	GeneratedImagePath string `yaml:"generated_image_path,omitempty" json:"generated_image_path,omitempty"`

	// Extra は上記以外のキーです。手で追加された項目も後段のファイルへそのまま引き継がれます。
	Extra map[string]interface{} `yaml:",inline" json:"-"`
}

// Panels はパネルの順序付きリストです。
type Panels []Panel
