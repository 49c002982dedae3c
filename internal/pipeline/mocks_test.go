package pipeline

import (
	"context"

	"github.com/shouni/go-novel-comic/pkg/asset"
	"github.com/shouni/go-novel-comic/pkg/domain"
	"github.com/shouni/go-novel-comic/pkg/registry"
	"github.com/shouni/go-novel-comic/pkg/runner"
	"github.com/shouni/go-novel-comic/pkg/workflow"
)

type mockWorkflow struct {
	segment *mockSegmentRunner
	compose *mockComposeRunner
	render  *mockRenderRunner
	upload  *mockUploadRunner
}

func (m *mockWorkflow) BuildSegmentRunner(ctx context.Context) (workflow.SegmentRunner, error) {
	return m.segment, nil
}

func (m *mockWorkflow) BuildComposeRunner(ctx context.Context) (workflow.ComposeRunner, error) {
	return m.compose, nil
}

func (m *mockWorkflow) BuildRenderRunner(ctx context.Context) (workflow.RenderRunner, error) {
	return m.render, nil
}

func (m *mockWorkflow) BuildUploadRunner(ctx context.Context) (workflow.UploadRunner, error) {
	return m.upload, nil
}

type mockSegmentRunner struct {
	panels         domain.Panels
	err            error
	novelText      string
	characterNames []string
	termNames      []string
}

func (m *mockSegmentRunner) Run(ctx context.Context, novelText string, characterNames, termNames []string) (domain.Panels, error) {
	m.novelText = novelText
	m.characterNames = characterNames
	m.termNames = termNames
	return m.panels, m.err
}

type mockComposeRunner struct {
	err      error
	received domain.Panels
}

func (m *mockComposeRunner) Run(ctx context.Context, panels domain.Panels, characterImages, termImages asset.ImageIndex) (domain.Panels, error) {
	m.received = panels
	if m.err != nil {
		return nil, m.err
	}
	out := make(domain.Panels, len(panels))
	for i, p := range panels {
		p.GeneratedImageDescription = "prompt for " + p.SceneDescription
		out[i] = p
	}
	return out, nil
}

type mockRenderRunner struct {
	err  error
	refs registry.References
}

func (m *mockRenderRunner) Run(ctx context.Context, panels domain.Panels, refs registry.References) (domain.Panels, runner.RenderSummary, error) {
	m.refs = refs
	if m.err != nil {
		return nil, runner.RenderSummary{}, m.err
	}
	out := make(domain.Panels, len(panels))
	for i, p := range panels {
		p.GeneratedImagePath = "output/comic_images/" + asset.PanelFileName(p.NumberAt(i))
		out[i] = p
	}
	return out, runner.RenderSummary{Rendered: len(out)}, nil
}

type mockUploadRunner struct {
	entries  map[string]string
	err      error
	dir      string
	category string
}

func (m *mockUploadRunner) Run(ctx context.Context, dir, category string) (map[string]string, error) {
	m.dir = dir
	m.category = category
	return m.entries, m.err
}
