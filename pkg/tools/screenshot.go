package tools

import (
	"context"
	"fmt"
	"strconv"

	"pagescope/pkg/api"
	"pagescope/pkg/schema"
)

const (
	// defaultScreenshotQuality governs the size/fidelity tradeoff for lossy
	// formats when the caller does not ask for a specific quality.
	defaultScreenshotQuality = 60
	// inlineImageLimit is the maximum byte size attached inline. Tool
	// responses travel over a context-constrained channel; anything bigger
	// spills to a file instead.
	inlineImageLimit = 100_000
)

// ScreenshotTool captures the selected page, the full page, or a single
// snapshotted element, and returns the image inline or as a saved file.
type ScreenshotTool struct {
	browser Browser
	store   ArtifactStore
}

// NewScreenshotTool creates a screenshot tool bound to a browser and a store.
func NewScreenshotTool(browser Browser, store ArtifactStore) *ScreenshotTool {
	return &ScreenshotTool{browser: browser, store: store}
}

func (t *ScreenshotTool) Name() string {
	return "take_screenshot"
}

func (t *ScreenshotTool) Description() string {
	return "Take a screenshot of the selected page's viewport, the full page, or a specific element identified by uid from the latest snapshot. Returns the image inline unless it is too large or a filePath is given."
}

func (t *ScreenshotTool) Schema() schema.Object {
	zero, hundred := float64(0), float64(100)
	return schema.Object{
		Properties: map[string]schema.Property{
			"format": {
				Type:        "string",
				Description: "Image encoding format.",
				Enum:        []string{"png", "jpeg", "webp"},
				Default:     "jpeg",
			},
			"quality": {
				Type:        "integer",
				Description: "Compression quality for jpeg/webp (0-100). Ignored for png. Defaults to 60.",
				Minimum:     &zero,
				Maximum:     &hundred,
			},
			"uid": {
				Type:        "string",
				Description: "Element uid from the latest take_snapshot call. Cannot be combined with fullPage.",
			},
			"fullPage": {
				Type:        "boolean",
				Description: "Capture the full scrollable page instead of the viewport. Cannot be combined with uid.",
			},
			"filePath": {
				Type:        "string",
				Description: "Absolute or CWD-relative path to save the screenshot to instead of attaching it inline.",
			},
		},
	}
}

func (t *ScreenshotTool) Execute(ctx context.Context, args map[string]any) (*api.ToolResult, error) {
	format := args["format"].(string)
	uid, _ := args["uid"].(string)
	fullPage, _ := args["fullPage"].(bool)
	filePath, _ := args["filePath"].(string)

	if uid != "" && fullPage {
		return nil, fmt.Errorf("%w: uid and fullPage cannot be combined", ErrInvalidArgument)
	}

	quality := effectiveQuality(format, args)
	req := CaptureRequest{
		Format:           format,
		Quality:          quality,
		FullPage:         fullPage,
		OptimizeForSpeed: true,
	}

	var data []byte
	if uid != "" {
		element, err := t.browser.ElementByUID(uid)
		if err != nil {
			return nil, err
		}
		data, err = element.Capture(ctx, req)
		if err != nil {
			return nil, err
		}
	} else {
		page, err := t.browser.SelectedPage()
		if err != nil {
			return nil, err
		}
		data, err = page.Capture(ctx, req)
		if err != nil {
			return nil, err
		}
	}

	mimeType := "image/" + format
	qualityLabel := "lossless"
	if quality != nil {
		qualityLabel = strconv.Itoa(*quality)
	}

	blocks := []api.ContentBlock{}
	switch {
	case uid != "":
		blocks = append(blocks, api.TextBlock(fmt.Sprintf("Took a screenshot of the node with uid %q.", uid)))
	case fullPage:
		blocks = append(blocks, api.TextBlock("Took a screenshot of the full current page."))
	default:
		blocks = append(blocks, api.TextBlock("Took a screenshot of the current page's viewport."))
	}
	blocks = append(blocks, api.TextBlock(fmt.Sprintf("Screenshot size: %dKB (%s, quality: %s).",
		roundKB(len(data)), format, qualityLabel)))

	details := map[string]any{"bytes": len(data), "format": format}

	switch {
	case filePath != "":
		name, err := t.store.SaveTo(filePath, data)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, api.TextBlock(fmt.Sprintf("Saved screenshot to %s.", name)))
		details["file"] = name
	case len(data) >= inlineImageLimit:
		name, err := t.store.SaveTemp("screenshot", data, mimeType)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, api.TextBlock(fmt.Sprintf(
			"The screenshot is too large to attach inline (limit %dKB). Saved it to %s instead.",
			inlineImageLimit/1000, name)))
		details["file"] = name
	default:
		blocks = append(blocks, api.ImageBlock(Base64Encode(data), mimeType))
	}

	return &api.ToolResult{Content: blocks, Details: details}, nil
}

// effectiveQuality centralizes the quality contract: nil for png (lossless,
// quality is meaningless), otherwise the requested value or the default.
func effectiveQuality(format string, args map[string]any) *int {
	if format == "png" {
		return nil
	}
	q := defaultScreenshotQuality
	if v, ok := args["quality"].(int); ok {
		q = v
	}
	return &q
}

// roundKB converts a byte count to kilobytes, rounded to nearest.
func roundKB(n int) int {
	return (n + 512) / 1024
}
