package tools

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePage struct {
	captures []CaptureRequest
	data     []byte
	err      error

	navURL  string
	navInfo PageInfo
	navErr  error

	snap    *SnapshotResult
	snapErr error
}

func (p *fakePage) Capture(_ context.Context, req CaptureRequest) ([]byte, error) {
	p.captures = append(p.captures, req)
	return p.data, p.err
}

func (p *fakePage) Navigate(_ context.Context, url string) (PageInfo, error) {
	p.navURL = url
	return p.navInfo, p.navErr
}

func (p *fakePage) Snapshot(_ context.Context) (*SnapshotResult, error) {
	return p.snap, p.snapErr
}

type fakeElement struct {
	captures []CaptureRequest
	data     []byte
	err      error
}

func (e *fakeElement) Capture(_ context.Context, req CaptureRequest) ([]byte, error) {
	e.captures = append(e.captures, req)
	return e.data, e.err
}

type fakeBrowser struct {
	page    *fakePage
	pageErr error

	element    *fakeElement
	elementErr error
	lastUID    string

	pages    []PageInfo
	pagesErr error

	selectedIndex int
	selectErr     error
}

func (b *fakeBrowser) SelectedPage() (Page, error) {
	if b.pageErr != nil {
		return nil, b.pageErr
	}
	return b.page, nil
}

func (b *fakeBrowser) SelectPage(_ context.Context, index int) (Page, error) {
	b.selectedIndex = index
	if b.selectErr != nil {
		return nil, b.selectErr
	}
	return b.page, nil
}

func (b *fakeBrowser) Pages(_ context.Context) ([]PageInfo, error) {
	return b.pages, b.pagesErr
}

func (b *fakeBrowser) ElementByUID(uid string) (Element, error) {
	b.lastUID = uid
	if b.elementErr != nil {
		return nil, b.elementErr
	}
	return b.element, nil
}

type fakeStore struct {
	toPath   string
	toData   []byte
	toErr    error
	toCalls  int
	tempMime string
	tempData []byte
	tempErr  error
	tempName string
}

func (s *fakeStore) SaveTo(path string, data []byte) (string, error) {
	s.toCalls++
	s.toPath = path
	s.toData = data
	if s.toErr != nil {
		return "", s.toErr
	}
	return "/abs/" + path, nil
}

func (s *fakeStore) SaveTemp(prefix string, data []byte, mimeType string) (string, error) {
	s.tempMime = mimeType
	s.tempData = data
	if s.tempErr != nil {
		return "", s.tempErr
	}
	if s.tempName == "" {
		s.tempName = "/tmp/" + prefix + "_generated.img"
	}
	return s.tempName, nil
}

// screenshotArgs runs raw arguments through the tool's schema exactly like
// the gateway does before Execute.
func screenshotArgs(t *testing.T, tool *ScreenshotTool, raw map[string]any) map[string]any {
	t.Helper()
	args, err := tool.Schema().Validate(raw)
	require.NoError(t, err)
	return args
}

func TestScreenshot_RejectsUIDWithFullPage(t *testing.T) {
	browser := &fakeBrowser{page: &fakePage{}, element: &fakeElement{}}
	store := &fakeStore{}
	tool := NewScreenshotTool(browser, store)

	args := screenshotArgs(t, tool, map[string]any{"uid": "1_0", "fullPage": true})
	_, err := tool.Execute(context.Background(), args)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	// Validation happens before any capture attempt.
	assert.Empty(t, browser.page.captures)
	assert.Empty(t, browser.element.captures)
}

func TestScreenshot_PNGIsAlwaysLossless(t *testing.T) {
	page := &fakePage{data: []byte("png-bytes")}
	tool := NewScreenshotTool(&fakeBrowser{page: page}, &fakeStore{})

	args := screenshotArgs(t, tool, map[string]any{"format": "png", "quality": float64(90)})
	res, err := tool.Execute(context.Background(), args)

	require.NoError(t, err)
	require.Len(t, page.captures, 1)
	assert.Nil(t, page.captures[0].Quality, "png capture must not carry a quality")
	assert.Contains(t, res.Content[1].Text, "(png, quality: lossless)")
}

func TestScreenshot_LossyDefaultQuality(t *testing.T) {
	for _, format := range []string{"jpeg", "webp"} {
		t.Run(format, func(t *testing.T) {
			page := &fakePage{data: []byte("img")}
			tool := NewScreenshotTool(&fakeBrowser{page: page}, &fakeStore{})

			args := screenshotArgs(t, tool, map[string]any{"format": format})
			res, err := tool.Execute(context.Background(), args)

			require.NoError(t, err)
			require.Len(t, page.captures, 1)
			require.NotNil(t, page.captures[0].Quality)
			assert.Equal(t, 60, *page.captures[0].Quality)
			assert.Contains(t, res.Content[1].Text, fmt.Sprintf("(%s, quality: 60)", format))
		})
	}
}

func TestScreenshot_ExplicitQuality(t *testing.T) {
	page := &fakePage{data: []byte("img")}
	tool := NewScreenshotTool(&fakeBrowser{page: page}, &fakeStore{})

	args := screenshotArgs(t, tool, map[string]any{"format": "webp", "quality": float64(85)})
	_, err := tool.Execute(context.Background(), args)

	require.NoError(t, err)
	require.NotNil(t, page.captures[0].Quality)
	assert.Equal(t, 85, *page.captures[0].Quality)
}

func TestScreenshot_DefaultFormatIsJPEG(t *testing.T) {
	page := &fakePage{data: []byte("img")}
	tool := NewScreenshotTool(&fakeBrowser{page: page}, &fakeStore{})

	args := screenshotArgs(t, tool, map[string]any{})
	res, err := tool.Execute(context.Background(), args)

	require.NoError(t, err)
	assert.Equal(t, "jpeg", page.captures[0].Format)
	assert.Equal(t, "image/jpeg", res.Content[2].MimeType)
}

func TestScreenshot_InlineBelowLimit(t *testing.T) {
	data := bytes.Repeat([]byte{0xAB}, 99_999)
	page := &fakePage{data: data}
	store := &fakeStore{}
	tool := NewScreenshotTool(&fakeBrowser{page: page}, store)

	args := screenshotArgs(t, tool, map[string]any{})
	res, err := tool.Execute(context.Background(), args)

	require.NoError(t, err)
	require.Len(t, res.Content, 3)
	assert.Equal(t, "image", res.Content[2].Type)
	assert.Equal(t, Base64Encode(data), res.Content[2].Data)
	assert.Zero(t, store.toCalls)
	assert.Nil(t, store.tempData)
}

func TestScreenshot_SpillsToFileAtLimit(t *testing.T) {
	data := bytes.Repeat([]byte{0xAB}, 100_000)
	page := &fakePage{data: data}
	store := &fakeStore{tempName: "/tmp/screenshot_abc.jpg"}
	tool := NewScreenshotTool(&fakeBrowser{page: page}, store)

	args := screenshotArgs(t, tool, map[string]any{})
	res, err := tool.Execute(context.Background(), args)

	require.NoError(t, err)
	assert.Equal(t, data, store.tempData)
	assert.Equal(t, "image/jpeg", store.tempMime)
	for _, block := range res.Content {
		assert.NotEqual(t, "image", block.Type, "oversized screenshot must not attach inline")
	}
	last := res.Content[len(res.Content)-1].Text
	assert.Contains(t, last, "limit 100KB")
	assert.Contains(t, last, "/tmp/screenshot_abc.jpg")
}

func TestScreenshot_FilePathAlwaysWins(t *testing.T) {
	for _, size := range []int{10, 500_000} {
		t.Run(fmt.Sprintf("%d bytes", size), func(t *testing.T) {
			page := &fakePage{data: bytes.Repeat([]byte{0x01}, size)}
			store := &fakeStore{}
			tool := NewScreenshotTool(&fakeBrowser{page: page}, store)

			args := screenshotArgs(t, tool, map[string]any{"filePath": "out/shot.jpeg"})
			res, err := tool.Execute(context.Background(), args)

			require.NoError(t, err)
			assert.Equal(t, 1, store.toCalls)
			assert.Equal(t, "out/shot.jpeg", store.toPath)
			assert.Nil(t, store.tempData)
			for _, block := range res.Content {
				assert.NotEqual(t, "image", block.Type)
			}
			assert.Contains(t, res.Content[len(res.Content)-1].Text, "/abs/out/shot.jpeg")
		})
	}
}

func TestScreenshot_FullPageScenario(t *testing.T) {
	page := &fakePage{data: []byte("full-page")}
	tool := NewScreenshotTool(&fakeBrowser{page: page}, &fakeStore{})

	args := screenshotArgs(t, tool, map[string]any{"format": "jpeg", "fullPage": true})
	res, err := tool.Execute(context.Background(), args)

	require.NoError(t, err)
	require.Len(t, page.captures, 1)
	capture := page.captures[0]
	assert.Equal(t, "jpeg", capture.Format)
	assert.True(t, capture.FullPage)
	assert.True(t, capture.OptimizeForSpeed)
	require.NotNil(t, capture.Quality)
	assert.Equal(t, 60, *capture.Quality)
	assert.Contains(t, res.Content[0].Text, "full current page")
	assert.Contains(t, res.Content[1].Text, "(jpeg, quality: 60)")
}

func TestScreenshot_ElementScenario(t *testing.T) {
	element := &fakeElement{data: []byte("node-png")}
	browser := &fakeBrowser{page: &fakePage{}, element: element}
	tool := NewScreenshotTool(browser, &fakeStore{})

	args := screenshotArgs(t, tool, map[string]any{"format": "png", "uid": "42"})
	res, err := tool.Execute(context.Background(), args)

	require.NoError(t, err)
	assert.Equal(t, "42", browser.lastUID)
	require.Len(t, element.captures, 1)
	assert.Nil(t, element.captures[0].Quality)
	assert.Empty(t, browser.page.captures, "element capture must not touch the page")
	assert.Contains(t, res.Content[0].Text, `"42"`)
	assert.Contains(t, res.Content[1].Text, "(png, quality: lossless)")
}

func TestScreenshot_ErrorsPropagate(t *testing.T) {
	lookupErr := errors.New("unknown uid")
	captureErr := errors.New("render crashed")
	persistErr := errors.New("disk full")

	t.Run("element lookup", func(t *testing.T) {
		browser := &fakeBrowser{page: &fakePage{}, element: &fakeElement{}, elementErr: lookupErr}
		tool := NewScreenshotTool(browser, &fakeStore{})
		args := screenshotArgs(t, tool, map[string]any{"uid": "1_9"})
		_, err := tool.Execute(context.Background(), args)
		assert.ErrorIs(t, err, lookupErr)
		assert.Empty(t, browser.element.captures)
	})

	t.Run("capture", func(t *testing.T) {
		tool := NewScreenshotTool(&fakeBrowser{page: &fakePage{err: captureErr}}, &fakeStore{})
		args := screenshotArgs(t, tool, map[string]any{})
		_, err := tool.Execute(context.Background(), args)
		assert.ErrorIs(t, err, captureErr)
	})

	t.Run("persistence", func(t *testing.T) {
		tool := NewScreenshotTool(&fakeBrowser{page: &fakePage{data: []byte("x")}}, &fakeStore{toErr: persistErr})
		args := screenshotArgs(t, tool, map[string]any{"filePath": "out.png"})
		_, err := tool.Execute(context.Background(), args)
		assert.ErrorIs(t, err, persistErr)
	})
}

func TestScreenshot_SchemaRejectsBadValues(t *testing.T) {
	tool := NewScreenshotTool(&fakeBrowser{page: &fakePage{}}, &fakeStore{})

	_, err := tool.Schema().Validate(map[string]any{"format": "gif"})
	assert.Error(t, err)

	_, err = tool.Schema().Validate(map[string]any{"quality": float64(101)})
	assert.Error(t, err)

	_, err = tool.Schema().Validate(map[string]any{"quality": float64(-1)})
	assert.Error(t, err)
}
