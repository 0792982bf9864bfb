package tools

import (
	"context"
	"errors"
)

// ErrInvalidArgument marks argument combinations a tool rejects before doing
// any work. The gateway maps it to a client-facing invalid-request error.
var ErrInvalidArgument = errors.New("invalid argument")

// CaptureRequest carries the rasterization options for a single screenshot.
type CaptureRequest struct {
	Format string // "png", "jpeg" or "webp"
	// Quality is the encoder quality (0-100) for lossy formats, nil for
	// lossless formats where quality is meaningless.
	Quality  *int
	FullPage bool // capture the whole scrollable page instead of the viewport
	// OptimizeForSpeed biases the encoder toward lower latency over maximal
	// compression. Interactive tooling wants the bytes back fast.
	OptimizeForSpeed bool
}

// PageInfo summarizes one open page for listings.
type PageInfo struct {
	Index    int    `json:"index"`
	URL      string `json:"url"`
	Title    string `json:"title"`
	Selected bool   `json:"selected"`
}

// SnapshotResult is the outcome of snapshotting the selected page: an
// identifier for the snapshot generation and a text outline in which every
// element carries a uid usable by element-scoped tools.
type SnapshotResult struct {
	ID   string
	Text string
}

// Browser is the controller surface the page tools operate through.
// It is intentionally narrow so tools can be tested with fakes.
type Browser interface {
	// SelectedPage returns the currently selected page.
	SelectedPage() (Page, error)
	// SelectPage changes the selection to the page at the given index.
	SelectPage(ctx context.Context, index int) (Page, error)
	// Pages lists all open pages.
	Pages(ctx context.Context) ([]PageInfo, error)
	// ElementByUID resolves a uid assigned by the most recent snapshot.
	ElementByUID(uid string) (Element, error)
}

// Page is the handle tools use to act on a single browser page.
type Page interface {
	Capture(ctx context.Context, req CaptureRequest) ([]byte, error)
	Navigate(ctx context.Context, url string) (PageInfo, error)
	Snapshot(ctx context.Context) (*SnapshotResult, error)
}

// Element is the handle for a single snapshotted page element.
// FullPage has no meaning for element captures and is ignored.
type Element interface {
	Capture(ctx context.Context, req CaptureRequest) ([]byte, error)
}

// ArtifactStore persists tool output that should not travel inline.
type ArtifactStore interface {
	// SaveTo writes data to an explicit path and returns the absolute filename.
	SaveTo(path string, data []byte) (string, error)
	// SaveTemp writes data to a generated filename and returns the absolute filename.
	SaveTemp(prefix string, data []byte, mimeType string) (string, error)
}
