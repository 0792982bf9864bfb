package browser

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/target"
	"github.com/chromedp/chromedp"
	jsoniter "github.com/json-iterator/go"

	"pagescope/pkg/tools"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Config holds the browser launch settings from the "browser" section of
// config.json.
type Config struct {
	// Headless controls whether the browser runs without a visible window.
	Headless *bool `json:"headless"`
	// ExecPath overrides the Chrome/Chromium binary to launch.
	ExecPath string `json:"exec_path"`
	// WindowWidth / WindowHeight set the viewport size. Defaults: 1280x720.
	WindowWidth  int `json:"window_width"`
	WindowHeight int `json:"window_height"`
	// StartURL is loaded into the initial page on startup.
	StartURL string `json:"start_url"`
}

// Session owns one running browser and implements tools.Browser on top of it.
// It tracks the currently selected page and the uid map of the most recent
// snapshot.
type Session struct {
	browserCtx  context.Context
	allocCancel context.CancelFunc
	ctxCancel   context.CancelFunc
	navTimeout  time.Duration

	mu         sync.Mutex
	selectedID target.ID
	attached   map[target.ID]*Page

	// Snapshot state. A new snapshot replaces the whole uid map, so uids
	// from earlier snapshots stop resolving.
	snapSeq int
	uids    map[string]elementRef
}

type elementRef struct {
	pageID  target.ID
	backend cdp.BackendNodeID
}

// NewFromConfig launches a browser according to the raw "browser" config
// section, applying defaults for anything missing.
func NewFromConfig(raw jsoniter.RawMessage, navTimeout time.Duration) (*Session, error) {
	var cfg Config
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse browser config: %w", err)
		}
	}
	return New(cfg, navTimeout)
}

// New launches a browser and returns a ready Session.
func New(cfg Config, navTimeout time.Duration) (*Session, error) {
	if cfg.WindowWidth <= 0 {
		cfg.WindowWidth = 1280
	}
	if cfg.WindowHeight <= 0 {
		cfg.WindowHeight = 720
	}
	if navTimeout <= 0 {
		navTimeout = 30 * time.Second
	}

	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	opts = append(opts, chromedp.WindowSize(cfg.WindowWidth, cfg.WindowHeight))
	if cfg.Headless != nil && !*cfg.Headless {
		opts = append(opts, chromedp.Flag("headless", false))
	}
	if cfg.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(cfg.ExecPath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	browserCtx, ctxCancel := chromedp.NewContext(allocCtx)

	// Launch the browser and load the start page.
	startURL := cfg.StartURL
	if startURL == "" {
		startURL = "about:blank"
	}
	if err := chromedp.Run(browserCtx, chromedp.Navigate(startURL)); err != nil {
		ctxCancel()
		allocCancel()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	s := &Session{
		browserCtx:  browserCtx,
		allocCancel: allocCancel,
		ctxCancel:   ctxCancel,
		navTimeout:  navTimeout,
		attached:    map[target.ID]*Page{},
	}

	if c := chromedp.FromContext(browserCtx); c != nil && c.Target != nil {
		s.selectedID = c.Target.TargetID
		s.attached[s.selectedID] = &Page{session: s, ctx: browserCtx, targetID: s.selectedID}
	}

	slog.Info("Browser launched", "start_url", startURL, "window", fmt.Sprintf("%dx%d", cfg.WindowWidth, cfg.WindowHeight))
	return s, nil
}

// Close shuts the browser down.
func (s *Session) Close() {
	s.ctxCancel()
	s.allocCancel()
}

// SelectedPage returns the currently selected page.
func (s *Session) SelectedPage() (tools.Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selectedID == "" {
		return nil, fmt.Errorf("no page is open")
	}
	return s.attachLocked(s.selectedID)
}

// SelectPage changes the selection to the page at the given listing index.
func (s *Session) SelectPage(ctx context.Context, index int) (tools.Page, error) {
	infos, err := s.pageTargets(ctx)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(infos) {
		return nil, fmt.Errorf("page index %d out of range (have %d pages)", index, len(infos))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedID = infos[index].TargetID
	return s.attachLocked(s.selectedID)
}

// Pages lists the open pages in a stable order.
func (s *Session) Pages(ctx context.Context) ([]tools.PageInfo, error) {
	infos, err := s.pageTargets(ctx)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	selected := s.selectedID
	s.mu.Unlock()

	out := make([]tools.PageInfo, 0, len(infos))
	for i, info := range infos {
		out = append(out, tools.PageInfo{
			Index:    i,
			URL:      info.URL,
			Title:    info.Title,
			Selected: info.TargetID == selected,
		})
	}
	return out, nil
}

// ElementByUID resolves a uid assigned by the most recent snapshot.
func (s *Session) ElementByUID(uid string) (tools.Element, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.uids) == 0 {
		return nil, fmt.Errorf("no snapshot taken yet, call take_snapshot first")
	}
	ref, ok := s.uids[uid]
	if !ok {
		return nil, fmt.Errorf("unknown uid %q, take a fresh snapshot", uid)
	}
	page, err := s.attachLocked(ref.pageID)
	if err != nil {
		return nil, err
	}
	return &element{page: page, backend: ref.backend}, nil
}

// attachLocked returns the Page handle for a target, creating a dedicated
// chromedp context for it on first use. Caller holds s.mu.
func (s *Session) attachLocked(id target.ID) (*Page, error) {
	if p, ok := s.attached[id]; ok {
		return p, nil
	}
	ctx, cancel := chromedp.NewContext(s.browserCtx, chromedp.WithTargetID(id))
	p := &Page{session: s, ctx: ctx, cancel: cancel, targetID: id}
	s.attached[id] = p
	return p, nil
}

// pageTargets lists page-type targets sorted by target ID so indexes stay
// stable between list_pages and select_page.
func (s *Session) pageTargets(ctx context.Context) ([]*target.Info, error) {
	_ = ctx // target listing runs on the browser context
	infos, err := chromedp.Targets(s.browserCtx)
	if err != nil {
		return nil, fmt.Errorf("failed to list pages: %w", err)
	}
	pages := infos[:0]
	for _, info := range infos {
		if info.Type == "page" {
			pages = append(pages, info)
		}
	}
	sort.Slice(pages, func(i, j int) bool { return pages[i].TargetID < pages[j].TargetID })
	return pages, nil
}

// registerSnapshot replaces the uid map with the nodes of a fresh snapshot
// and returns the snapshot identifier.
func (s *Session) registerSnapshot(pageID target.ID, backends []cdp.BackendNodeID) (string, []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapSeq++
	s.uids = make(map[string]elementRef, len(backends))
	uids := make([]string, len(backends))
	for i, backend := range backends {
		uid := fmt.Sprintf("%d_%d", s.snapSeq, i)
		s.uids[uid] = elementRef{pageID: pageID, backend: backend}
		uids[i] = uid
	}
	return fmt.Sprintf("%d", s.snapSeq), uids
}
