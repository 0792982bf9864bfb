package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/dom"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/target"
	"github.com/chromedp/chromedp"

	"pagescope/pkg/tools"
)

// Page wraps one browser target with its own chromedp context.
type Page struct {
	session  *Session
	ctx      context.Context
	cancel   context.CancelFunc
	targetID target.ID
}

// Capture rasterizes the page viewport or, when req.FullPage is set, the
// whole scrollable page.
func (p *Page) Capture(ctx context.Context, req tools.CaptureRequest) ([]byte, error) {
	var buf []byte
	err := p.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		params := captureParams(req)
		if req.FullPage {
			// Clip to the full content size so the capture extends past
			// the viewport.
			_, _, _, _, _, contentSize, err := page.GetLayoutMetrics().Do(ctx)
			if err != nil {
				return fmt.Errorf("failed to measure page: %w", err)
			}
			if contentSize != nil {
				params = params.
					WithCaptureBeyondViewport(true).
					WithClip(&page.Viewport{
						X:      contentSize.X,
						Y:      contentSize.Y,
						Width:  contentSize.Width,
						Height: contentSize.Height,
						Scale:  1,
					})
			}
		}
		var err error
		buf, err = params.Do(ctx)
		return err
	}))
	if err != nil {
		return nil, fmt.Errorf("screenshot capture failed: %w", err)
	}
	return buf, nil
}

// Navigate loads a URL and reports the final location and title.
func (p *Page) Navigate(ctx context.Context, url string) (tools.PageInfo, error) {
	navCtx, cancel := context.WithTimeout(ctx, p.session.navTimeout)
	defer cancel()

	var info tools.PageInfo
	err := p.run(navCtx,
		chromedp.Navigate(url),
		chromedp.Location(&info.URL),
		chromedp.Title(&info.Title),
	)
	if err != nil {
		return tools.PageInfo{}, fmt.Errorf("navigation to %s failed: %w", url, err)
	}
	return info, nil
}

// Snapshot walks the page's DOM, assigns fresh uids to its elements and
// returns the rendered outline.
func (p *Page) Snapshot(ctx context.Context) (*tools.SnapshotResult, error) {
	var root *cdp.Node
	err := p.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		var err error
		root, err = dom.GetDocument().WithDepth(-1).WithPierce(true).Do(ctx)
		return err
	}))
	if err != nil {
		return nil, fmt.Errorf("snapshot failed: %w", err)
	}

	nodes := collectOutline(root)
	backends := make([]cdp.BackendNodeID, len(nodes))
	for i, n := range nodes {
		backends[i] = n.backend
	}
	id, uids := p.session.registerSnapshot(p.targetID, backends)

	return &tools.SnapshotResult{ID: id, Text: renderOutline(nodes, uids)}, nil
}

// run executes chromedp actions on this page, honoring the caller's context.
func (p *Page) run(ctx context.Context, actions ...chromedp.Action) error {
	runCtx := p.ctx
	if deadline, ok := ctx.Deadline(); ok {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithDeadline(p.ctx, deadline)
		defer cancel()
	}
	done := make(chan error, 1)
	go func() { done <- chromedp.Run(runCtx, actions...) }()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// element is a capture handle for a single snapshotted node.
type element struct {
	page    *Page
	backend cdp.BackendNodeID
}

// Capture scrolls the element into view and rasterizes its box.
func (e *element) Capture(ctx context.Context, req tools.CaptureRequest) ([]byte, error) {
	var buf []byte
	err := e.page.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		if err := dom.ScrollIntoViewIfNeeded().WithBackendNodeID(e.backend).Do(ctx); err != nil {
			return fmt.Errorf("failed to scroll element into view: %w", err)
		}
		// Give the scroll a frame to settle before measuring.
		time.Sleep(50 * time.Millisecond)

		box, err := dom.GetBoxModel().WithBackendNodeID(e.backend).Do(ctx)
		if err != nil {
			return fmt.Errorf("failed to measure element: %w", err)
		}
		clip, err := clipFromQuad(box.Content)
		if err != nil {
			return err
		}

		buf, err = captureParams(req).WithClip(clip).Do(ctx)
		return err
	}))
	if err != nil {
		return nil, fmt.Errorf("element capture failed: %w", err)
	}
	return buf, nil
}

// captureParams translates a CaptureRequest into CDP screenshot parameters.
func captureParams(req tools.CaptureRequest) *page.CaptureScreenshotParams {
	params := page.CaptureScreenshot().
		WithFormat(page.CaptureScreenshotFormat(req.Format)).
		WithOptimizeForSpeed(req.OptimizeForSpeed)
	if req.Quality != nil {
		params = params.WithQuality(int64(*req.Quality))
	}
	return params
}

// clipFromQuad converts a CDP content quad into a capture viewport.
func clipFromQuad(quad dom.Quad) (*page.Viewport, error) {
	if len(quad) < 8 {
		return nil, fmt.Errorf("element has no visible box")
	}
	minX, minY := quad[0], quad[1]
	maxX, maxY := quad[0], quad[1]
	for i := 0; i+1 < len(quad); i += 2 {
		if quad[i] < minX {
			minX = quad[i]
		}
		if quad[i] > maxX {
			maxX = quad[i]
		}
		if quad[i+1] < minY {
			minY = quad[i+1]
		}
		if quad[i+1] > maxY {
			maxY = quad[i+1]
		}
	}
	if maxX-minX <= 0 || maxY-minY <= 0 {
		return nil, fmt.Errorf("element has an empty box")
	}
	return &page.Viewport{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY, Scale: 1}, nil
}
