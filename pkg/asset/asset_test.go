package asset

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shouni/go-novel-comic/pkg/domain"
	"github.com/shouni/go-novel-comic/pkg/parser"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLayout(t *testing.T) Layout {
	t.Helper()
	layout, err := NewLayout(t.TempDir())
	require.NoError(t, err)
	return layout
}

func touch(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestPanelFileName(t *testing.T) {
	assert.Equal(t, "panel_001.png", PanelFileName(1))
	assert.Equal(t, "panel_002.png", PanelFileName(2))
	assert.Equal(t, "panel_042.png", PanelFileName(42))
	assert.Equal(t, "panel_1234.png", PanelFileName(1234))
}

func TestLayout_Rel(t *testing.T) {
	layout := newTestLayout(t)
	rel, err := layout.Rel(layout.PanelImagePath(3))
	require.NoError(t, err)
	assert.Equal(t, "output/comic_images/panel_003.png", rel)
}

func TestLoadNovelText(t *testing.T) {
	layout := newTestLayout(t)

	t.Run("ファイルがなければ MissingArtifactError", func(t *testing.T) {
		_, err := LoadNovelText(layout)
		var missing *MissingArtifactError
		require.True(t, errors.As(err, &missing))
		assert.Equal(t, layout.NovelPath(), missing.Path)
		assert.True(t, errors.Is(err, fs.ErrNotExist))
	})

	t.Run("本文をそのまま返す", func(t *testing.T) {
		touch(t, layout.NovelPath(), "第一章\n雨が降っていた。")
		text, err := LoadNovelText(layout)
		require.NoError(t, err)
		assert.Equal(t, "第一章\n雨が降っていた。", text)
	})
}

func TestScanImages(t *testing.T) {
	layout := newTestLayout(t)

	t.Run("ディレクトリがなければ空", func(t *testing.T) {
		idx, err := ScanImages(layout.SourceImageDir(CharacterImageCategory))
		require.NoError(t, err)
		assert.Empty(t, idx)
	})

	t.Run("ファイル名の stem をキーにする", func(t *testing.T) {
		dir := layout.SourceImageDir(CharacterImageCategory)
		touch(t, filepath.Join(dir, "林墨.png"), "x")
		touch(t, filepath.Join(dir, "苏晴.jpg"), "x")
		require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested"), 0o755))

		idx, err := ScanImages(dir)
		require.NoError(t, err)
		assert.Equal(t, []string{"林墨", "苏晴"}, idx.Names())
		assert.Equal(t, filepath.Join(dir, "林墨.png"), idx["林墨"])
	})
}

func TestLoadResources(t *testing.T) {
	layout := newTestLayout(t)
	touch(t, layout.NovelPath(), "本文")
	touch(t, filepath.Join(layout.SourceImageDir(TermImageCategory), "古剑.webp"), "x")

	res, err := LoadResources(layout)
	require.NoError(t, err)
	assert.Equal(t, "本文", res.NovelText)
	assert.Empty(t, res.CharacterImages)
	assert.Equal(t, []string{"古剑"}, res.TermImages.Names())
}

func TestPanelsArtifacts(t *testing.T) {
	layout := newTestLayout(t)
	panels := domain.Panels{
		{
			PanelNumber:      1,
			SceneDescription: "雨の路地",
			Characters:       []string{"林墨"},
			Dialogue:         []domain.Dialogue{{Character: "林墨", Line: "<走吧>"}},
		},
	}

	t.Run("YAML 草稿を書き出して読み戻せる", func(t *testing.T) {
		require.NoError(t, WritePanelsYAML(layout.DraftPath(), panels))
		got, err := ReadPanelsYAML(layout.DraftPath(), "step 1")
		require.NoError(t, err)
		assert.Equal(t, panels, got)
	})

	t.Run("JSON は非 ASCII と記号をエスケープしない", func(t *testing.T) {
		require.NoError(t, WritePanelsJSON(layout.DescribedPath(), panels))
		data, err := os.ReadFile(layout.DescribedPath())
		require.NoError(t, err)
		assert.Contains(t, string(data), "雨の路地")
		assert.Contains(t, string(data), "<走吧>")
		assert.True(t, strings.HasPrefix(string(data), "[\n  {"))

		got, err := ReadPanelsJSON(layout.DescribedPath(), "step 2")
		require.NoError(t, err)
		assert.Equal(t, panels, got)
	})

	t.Run("ファイルがなければ生成元のステージを示す", func(t *testing.T) {
		_, err := ReadPanelsJSON(layout.FinalPath(), "step 3")
		var missing *MissingArtifactError
		require.True(t, errors.As(err, &missing))
		assert.Equal(t, "step 3", missing.Producer)
		assert.Contains(t, err.Error(), layout.FinalPath())
		assert.Contains(t, err.Error(), "step 3")
	})

	t.Run("草稿に手で足した項目は JSON まで引き継がれる", func(t *testing.T) {
		path := filepath.Join(layout.Root, "output", "edited.yaml")
		touch(t, path, "- panel_number: \"7\"\n  scene_description: 屋上\n  characters: 林墨\n  shot: close-up\n")
		draft, err := ReadPanelsYAML(path, "step 1")
		require.NoError(t, err)
		require.Len(t, draft, 1)
		assert.Equal(t, 7, draft[0].PanelNumber)

		out := filepath.Join(layout.Root, "output", "edited.json")
		require.NoError(t, WritePanelsJSON(out, draft))
		got, err := ReadPanelsJSON(out, "step 2")
		require.NoError(t, err)
		assert.Equal(t, []string{"林墨"}, got[0].Characters)
		assert.Equal(t, "close-up", got[0].Extra["shot"])
	})

	t.Run("リストでない YAML は ParseError", func(t *testing.T) {
		path := filepath.Join(layout.Root, "output", "bad.yaml")
		touch(t, path, "panel_number: 1\n")
		_, err := ReadPanelsYAML(path, "step 1")
		var pe *parser.ParseError
		require.True(t, errors.As(err, &pe))
	})
}
