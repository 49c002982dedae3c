package parser

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const plainPanels = `- panel_number: 1
  scene_description: 夕暮れの屋上
  characters:
    - 林墨
  dialogue:
    - character: 林墨
      line: 来了。
- panel_number: 2
  scene_description: 扉が開く
  characters: []
  dialogue: []`

func TestParsePanels(t *testing.T) {
	want, err := ParsePanels(plainPanels)
	require.NoError(t, err)
	require.Len(t, want, 2)
	assert.Equal(t, "夕暮れの屋上", want[0].SceneDescription)
	assert.Equal(t, "来了。", want[0].Dialogue[0].Line)

	t.Run("フェンス付きの応答もフェンスなしと同じ結果になる", func(t *testing.T) {
		for _, raw := range []string{
			"```yaml\n" + plainPanels + "\n```",
			"```\n" + plainPanels + "\n```",
			"  ```yml\n" + plainPanels + "\n```\n\n",
		} {
			got, err := ParsePanels(raw)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		}
	})

	t.Run("リストでない応答は ParseError", func(t *testing.T) {
		_, err := ParsePanels("panel_number: 1\nscene_description: x")
		var pe *ParseError
		require.True(t, errors.As(err, &pe))
	})

	t.Run("YAML でない応答は ParseError", func(t *testing.T) {
		_, err := ParsePanels("- [unclosed")
		var pe *ParseError
		require.True(t, errors.As(err, &pe))
	})

	t.Run("空の応答は ParseError", func(t *testing.T) {
		_, err := ParsePanels("```yaml\n```")
		var pe *ParseError
		require.True(t, errors.As(err, &pe))
	})
}

func TestStripFences(t *testing.T) {
	assert.Equal(t, "a: 1", StripFences("```yaml\na: 1\n```"))
	assert.Equal(t, "a: 1", StripFences("a: 1"))
}

func TestDecodePanels_JSON(t *testing.T) {
	panels, err := DecodePanels([]byte(`[{"panel_number": 3, "scene_description": "x"}]`))
	require.NoError(t, err)
	require.Len(t, panels, 1)
	assert.Equal(t, 3, panels[0].PanelNumber)
}

func TestDecodePanels_LenientFields(t *testing.T) {
	t.Run("引用符付きの panel_number を受け付ける", func(t *testing.T) {
		panels, err := ParsePanels("- panel_number: \"1\"\n  scene_description: x\n- panel_number: '2'\n  scene_description: y\n")
		require.NoError(t, err)
		require.Len(t, panels, 2)
		assert.Equal(t, 1, panels[0].PanelNumber)
		assert.Equal(t, 2, panels[1].PanelNumber)
	})

	t.Run("スカラーの characters を1人として受け付ける", func(t *testing.T) {
		panels, err := ParsePanels("- panel_number: 1\n  characters: 林墨\n")
		require.NoError(t, err)
		assert.Equal(t, []string{"林墨"}, panels[0].Characters)
	})

	t.Run("壊れた dialogue は捨てて他の項目を残す", func(t *testing.T) {
		panels, err := ParsePanels("- panel_number: 1\n  scene_description: 屋上\n  characters: [林墨]\n  dialogue: 林墨が叫ぶ\n- panel_number: 2\n  dialogue:\n    - 来了\n    - character: 苏晴\n      line: 嗯。\n")
		require.NoError(t, err)
		require.Len(t, panels, 2)
		assert.Empty(t, panels[0].Dialogue)
		assert.Equal(t, "屋上", panels[0].SceneDescription)
		assert.Equal(t, []string{"林墨"}, panels[0].Characters)
		require.Len(t, panels[1].Dialogue, 1)
		assert.Equal(t, "苏晴", panels[1].Dialogue[0].Character)
	})

	t.Run("数値にならない panel_number は位置で補う", func(t *testing.T) {
		panels, err := ParsePanels("- panel_number: abc\n  scene_description: x\n")
		require.NoError(t, err)
		assert.Equal(t, 0, panels[0].PanelNumber)
		assert.Equal(t, 1, panels[0].NumberAt(0))
	})

	t.Run("マッピングでないパネルは ParseError", func(t *testing.T) {
		_, err := ParsePanels("- just a string\n")
		var pe *ParseError
		require.True(t, errors.As(err, &pe))
	})
}
