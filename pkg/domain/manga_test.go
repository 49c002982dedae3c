package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestPanel_YAML(t *testing.T) {
	t.Run("セグメンターのYAML形式をパースできる", func(t *testing.T) {
		input := `
- panel_number: 1
  scene_description: 雨の夜、路地裏
  characters: [林墨, 苏晴]
  dialogue:
    - character: 林墨
      line: 走吧。
`
		var panels Panels
		require.NoError(t, yaml.Unmarshal([]byte(input), &panels))
		require.Len(t, panels, 1)
		assert.Equal(t, 1, panels[0].PanelNumber)
		assert.Equal(t, []string{"林墨", "苏晴"}, panels[0].Characters)
		assert.Equal(t, Dialogue{Character: "林墨", Line: "走吧。"}, panels[0].Dialogue[0])
	})
}

func TestPanel_JSONOmitsUnsetStageFields(t *testing.T) {
	data, err := json.Marshal(Panel{PanelNumber: 2, SceneDescription: "丘の上"})
	require.NoError(t, err)

	assert.NotContains(t, string(data), "generated_image_path")
	assert.NotContains(t, string(data), "generated_image_description")
	assert.Contains(t, string(data), `"panel_number":2`)
}

func TestPanel_NumberAt(t *testing.T) {
	assert.Equal(t, 7, Panel{PanelNumber: 7}.NumberAt(0))
	assert.Equal(t, 3, Panel{}.NumberAt(2))
}

func TestPanels_DuplicateNumbers(t *testing.T) {
	t.Run("重複がなければ空", func(t *testing.T) {
		ps := Panels{{PanelNumber: 1}, {PanelNumber: 2}, {PanelNumber: 5}}
		assert.Empty(t, ps.DuplicateNumbers())
	})

	t.Run("位置から補った番号も含めて重複を検出する", func(t *testing.T) {
		ps := Panels{{PanelNumber: 2}, {}, {PanelNumber: 3}, {PanelNumber: 3}}
		assert.Equal(t, []int{2, 3}, ps.DuplicateNumbers())
	})
}

func TestPanels_UniqueCharacterNames(t *testing.T) {
	ps := Panels{
		{Characters: []string{"B", "A"}},
		{Characters: []string{"A", ""}},
	}
	assert.Equal(t, []string{"A", "B"}, ps.UniqueCharacterNames())
}
