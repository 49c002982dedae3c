package prompts

import (
	"testing"

	"github.com/shouni/go-novel-comic/pkg/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextPromptBuilder_Segment(t *testing.T) {
	b, err := NewTextPromptBuilder()
	require.NoError(t, err)

	t.Run("本文と既知の名前を含む", func(t *testing.T) {
		got, err := b.Build(ModeSegment, TemplateData{
			InputText:      "林墨推开了门。",
			CharacterNames: []string{"林墨", "苏晴"},
			TermNames:      []string{"古剑"},
		})
		require.NoError(t, err)
		assert.Contains(t, got, "林墨推开了门。")
		assert.Contains(t, got, "林墨, 苏晴")
		assert.Contains(t, got, "古剑")
		assert.Contains(t, got, "panel_number")
		assert.Contains(t, got, "YAML list")
	})

	t.Run("既知の名前がなければその行を出さない", func(t *testing.T) {
		got, err := b.Build(ModeSegment, TemplateData{InputText: "x"})
		require.NoError(t, err)
		assert.NotContains(t, got, "Known characters")
		assert.NotContains(t, got, "Known terms")
	})
}

func TestTextPromptBuilder_Compose(t *testing.T) {
	b, err := NewTextPromptBuilder()
	require.NoError(t, err)

	got, err := b.Build(ModeCompose, TemplateData{
		Panel: domain.Panel{
			PanelNumber:      4,
			SceneDescription: "月下の竹林",
			Characters:       []string{"林墨"},
			Dialogue:         []domain.Dialogue{{Character: "林墨", Line: "谁？"}},
		},
		CharacterNames: []string{"林墨"},
	})
	require.NoError(t, err)

	assert.Contains(t, got, "Panel 4")
	assert.Contains(t, got, "月下の竹林")
	assert.Contains(t, got, "林墨: 谁？")
	assert.Contains(t, got, "Character reference images available for: 林墨")
	for _, directive := range StyleDirectives {
		assert.Contains(t, got, directive)
	}
	assert.NotContains(t, got, "Term reference images")
}

func TestTextPromptBuilder_UnknownMode(t *testing.T) {
	b, err := NewTextPromptBuilder()
	require.NoError(t, err)

	_, err = b.Build("summary", TemplateData{})
	assert.Error(t, err)
}
