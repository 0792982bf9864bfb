package tools

import (
	"context"
	"fmt"
	"strings"

	"pagescope/pkg/api"
	"pagescope/pkg/schema"
)

// SnapshotTool walks the selected page and returns a text outline in which
// every element carries a uid. Element-scoped tools resolve those uids until
// the next snapshot replaces them.
type SnapshotTool struct {
	browser Browser
}

func NewSnapshotTool(browser Browser) *SnapshotTool {
	return &SnapshotTool{browser: browser}
}

func (t *SnapshotTool) Name() string {
	return "take_snapshot"
}

func (t *SnapshotTool) Description() string {
	return "Capture a text snapshot of the selected page. Each element is tagged with a uid that element-scoped tools accept. Taking a new snapshot invalidates previous uids."
}

func (t *SnapshotTool) Schema() schema.Object {
	return schema.Object{Properties: map[string]schema.Property{}}
}

func (t *SnapshotTool) Execute(ctx context.Context, _ map[string]any) (*api.ToolResult, error) {
	page, err := t.browser.SelectedPage()
	if err != nil {
		return nil, err
	}
	snap, err := page.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return &api.ToolResult{
		Content: []api.ContentBlock{
			api.TextBlock(fmt.Sprintf("Captured snapshot %s of the current page.", snap.ID)),
			api.TextBlock(snap.Text),
		},
		Details: map[string]any{"snapshot_id": snap.ID},
	}, nil
}

// NavigateTool points the selected page at a URL and waits for the load.
type NavigateTool struct {
	browser Browser
}

func NewNavigateTool(browser Browser) *NavigateTool {
	return &NavigateTool{browser: browser}
}

func (t *NavigateTool) Name() string {
	return "navigate_page"
}

func (t *NavigateTool) Description() string {
	return "Navigate the selected page to a URL and wait for the page to load."
}

func (t *NavigateTool) Schema() schema.Object {
	return schema.Object{
		Properties: map[string]schema.Property{
			"url": {
				Type:        "string",
				Description: "The URL to navigate to.",
			},
		},
		Required: []string{"url"},
	}
}

func (t *NavigateTool) Execute(ctx context.Context, args map[string]any) (*api.ToolResult, error) {
	url := args["url"].(string)
	page, err := t.browser.SelectedPage()
	if err != nil {
		return nil, err
	}
	info, err := page.Navigate(ctx, url)
	if err != nil {
		return nil, err
	}
	line := fmt.Sprintf("Navigated to %s.", info.URL)
	if info.Title != "" {
		line = fmt.Sprintf("Navigated to %s (%q).", info.URL, info.Title)
	}
	return &api.ToolResult{
		Content: []api.ContentBlock{api.TextBlock(line)},
		Details: map[string]any{"url": info.URL, "title": info.Title},
	}, nil
}

// PagesTool lists the open pages and marks the selected one.
type PagesTool struct {
	browser Browser
}

func NewPagesTool(browser Browser) *PagesTool {
	return &PagesTool{browser: browser}
}

func (t *PagesTool) Name() string {
	return "list_pages"
}

func (t *PagesTool) Description() string {
	return "List the open browser pages with their index, URL and title. The selected page is marked."
}

func (t *PagesTool) Schema() schema.Object {
	return schema.Object{Properties: map[string]schema.Property{}}
}

func (t *PagesTool) Execute(ctx context.Context, _ map[string]any) (*api.ToolResult, error) {
	pages, err := t.browser.Pages(ctx)
	if err != nil {
		return nil, err
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d open page(s):\n", len(pages)))
	for _, p := range pages {
		marker := " "
		if p.Selected {
			marker = "*"
		}
		fmt.Fprintf(&sb, "%s %d: %s", marker, p.Index, p.URL)
		if p.Title != "" {
			fmt.Fprintf(&sb, " (%q)", p.Title)
		}
		sb.WriteString("\n")
	}
	return &api.ToolResult{
		Content: []api.ContentBlock{api.TextBlock(strings.TrimRight(sb.String(), "\n"))},
		Details: map[string]any{"count": len(pages)},
	}, nil
}

// SelectPageTool changes which page subsequent page-scoped tools act on.
type SelectPageTool struct {
	browser Browser
}

func NewSelectPageTool(browser Browser) *SelectPageTool {
	return &SelectPageTool{browser: browser}
}

func (t *SelectPageTool) Name() string {
	return "select_page"
}

func (t *SelectPageTool) Description() string {
	return "Select the page at the given index (see list_pages) as the target for page-scoped tools."
}

func (t *SelectPageTool) Schema() schema.Object {
	zero := float64(0)
	return schema.Object{
		Properties: map[string]schema.Property{
			"index": {
				Type:        "integer",
				Description: "Index of the page to select.",
				Minimum:     &zero,
			},
		},
		Required: []string{"index"},
	}
}

func (t *SelectPageTool) Execute(ctx context.Context, args map[string]any) (*api.ToolResult, error) {
	index := args["index"].(int)
	if _, err := t.browser.SelectPage(ctx, index); err != nil {
		return nil, err
	}
	return &api.ToolResult{
		Content: []api.ContentBlock{api.TextBlock(fmt.Sprintf("Selected page %d.", index))},
		Details: map[string]any{"index": index},
	}, nil
}
