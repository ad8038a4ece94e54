package stave

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/tanema/gween/ease"

	"github.com/phanxgames/stave/config"
)

// scrollToDuration is the length of the animated scroll to a new page.
const scrollToDuration = 0.35

// paletteInset is where palette glyphs land, relative to the page origin.
var paletteInset = Point{X: 72, Y: 72}

// ShowOptions controls the editor window. Zero sizes leave the limit
// unset.
type ShowOptions struct {
	MinSize    image.Point
	MaxSize    image.Point
	Fullscreen bool
}

// PaletteEntry is a glyph insertable from the keyboard.
type PaletteEntry struct {
	Label string
	Glyph string
	Key   ebiten.Key
}

// Editor is the interactive application: it owns the document and the
// render surface and implements ebiten.Game. Every structural edit clears
// the surface and re-renders the whole document.
type Editor struct {
	Document  *Document
	Surface   *Surface
	Viewport  *Viewport
	Input     *Input
	Resizer   *Resizer
	Selection *Selection

	// ClearColor fills the area around the pages.
	ClearColor Color
	// ScreenshotDir is where Screenshot writes PNG files.
	ScreenshotDir string
	// ShowOverlay draws the status line.
	ShowOverlay bool

	Palette []PaletteEntry

	title     string
	fonts     *FaceProvider
	textFont  *Font
	musicFont *Font
	log       *slog.Logger

	refresher *Refresher
	pending   bool
	poller    poller
	configCh  <-chan *config.Config
	now       func() time.Time

	injectQueue     []RawEvent
	screenshotQueue []string
	testRunner      *TestRunner

	stats debugStats
	quit  bool
}

// Setup builds an editor from cfg. A nil cfg uses config.Default().
func Setup(cfg *config.Config) (*Editor, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	log := cfg.Logger()
	SetDebug(cfg.Debug)

	fonts, err := NewFaceProvider()
	if err != nil {
		return nil, fmt.Errorf("setup: %w", err)
	}
	if cfg.Fonts.MusicPath != "" {
		data, err := os.ReadFile(cfg.Fonts.MusicPath)
		if err != nil {
			return nil, fmt.Errorf("setup: music font: %w", err)
		}
		if err := fonts.Register(cfg.Fonts.MusicFamily, data, 4); err != nil {
			return nil, fmt.Errorf("setup: %w", err)
		}
	} else if err := fonts.Alias(cfg.Fonts.MusicFamily, DefaultTextFamily); err != nil {
		return nil, fmt.Errorf("setup: %w", err)
	}
	textFont, err := fonts.Font(DefaultTextFamily, cfg.Fonts.TextSize)
	if err != nil {
		return nil, fmt.Errorf("setup: %w", err)
	}
	musicFont, err := fonts.Font(cfg.Fonts.MusicFamily, cfg.Fonts.Unit)
	if err != nil {
		return nil, fmt.Errorf("setup: %w", err)
	}

	surface := NewSurface()
	vp := NewViewport(float64(cfg.Window.Width), float64(cfg.Window.Height))
	resizer := NewResizer(surface)
	e := &Editor{
		Document:    NewDocument(DefaultPaper, log),
		Surface:     surface,
		Viewport:    vp,
		Input:       NewInput(vp),
		Resizer:     resizer,
		Selection:   NewSelection(surface, resizer, log),
		ClearColor:  Color{0.85, 0.85, 0.85, 1},
		ShowOverlay: true,
		title:       cfg.Window.Title,
		fonts:       fonts,
		textFont:    textFont,
		musicFont:   musicFont,
		log:         log,
		now:         time.Now,
	}
	e.Selection.OnEdit = func(*Object) { e.Rerender() }
	e.Input.SetDefaultHandler(e.Selection)
	e.Input.SetKeyHandler(e.handleShortcut)
	e.Input.SetRecorder(e.trace)
	e.refresher = NewRefresher(nil)
	if err := e.apply(cfg); err != nil {
		return nil, fmt.Errorf("setup: %w", err)
	}
	return e, nil
}

// apply copies the tunable parts of cfg onto the running editor.
func (e *Editor) apply(cfg *config.Config) error {
	anchors, err := parseAnchors(cfg.Resize.Anchors)
	if err != nil {
		return err
	}
	palette, err := parsePalette(cfg.Palette)
	if err != nil {
		return err
	}
	vp := e.Viewport
	vp.MinZoom, vp.MaxZoom = cfg.Viewport.MinZoom, cfg.Viewport.MaxZoom
	vp.WheelZoomFactor = cfg.Viewport.WheelZoomFactor
	vp.StepX, vp.StepY = cfg.Viewport.ScrollStep, cfg.Viewport.ScrollStep
	if cfg.Viewport.AutoInteraction != nil {
		vp.SetAutoInteraction(*cfg.Viewport.AutoInteraction)
	}
	e.Input.DoubleClickInterval = cfg.Input.DoubleClickInterval
	e.Input.DoubleClickDistance = cfg.Input.DoubleClickDistance
	e.Resizer.HandleSize = cfg.Resize.HandleSize
	e.Resizer.Anchors = anchors
	e.Palette = palette
	e.ScreenshotDir = cfg.ScreenshotDir
	SetDebug(cfg.Debug)
	return nil
}

var anchorNames = map[string]Anchor{
	"top-left":     AnchorTopLeft,
	"top":          AnchorTop,
	"top-right":    AnchorTopRight,
	"right":        AnchorRight,
	"bottom-right": AnchorBottomRight,
	"bottom":       AnchorBottom,
	"bottom-left":  AnchorBottomLeft,
	"left":         AnchorLeft,
}

func parseAnchors(names []string) ([]Anchor, error) {
	out := make([]Anchor, 0, len(names))
	for _, n := range names {
		a, ok := anchorNames[strings.ToLower(strings.TrimSpace(n))]
		if !ok {
			return nil, fmt.Errorf("unknown resize anchor %q", n)
		}
		out = append(out, a)
	}
	return out, nil
}

func parsePalette(entries []config.PaletteEntry) ([]PaletteEntry, error) {
	out := make([]PaletteEntry, 0, len(entries))
	for _, pe := range entries {
		var k ebiten.Key
		if err := k.UnmarshalText([]byte(pe.Key)); err != nil {
			return nil, fmt.Errorf("palette %q: key %q: %w", pe.Label, pe.Key, err)
		}
		if _, ok := SMuFLNames[pe.Glyph]; !ok {
			return nil, fmt.Errorf("palette %q: %w: %q", pe.Label, ErrUnknownGlyph, pe.Glyph)
		}
		out = append(out, PaletteEntry{Label: pe.Label, Glyph: pe.Glyph, Key: k})
	}
	return out, nil
}

// Logger returns the editor's logger.
func (e *Editor) Logger() *slog.Logger { return e.log }

// TextFont returns the font used for text objects.
func (e *Editor) TextFont() *Font { return e.textFont }

// MusicFont returns the font used for notation glyphs.
func (e *Editor) MusicFont() *Font { return e.musicFont }

// Fonts returns the glyph provider.
func (e *Editor) Fonts() *FaceProvider { return e.fonts }

// SetRefreshFunc replaces the refresh routine. The editor re-renders after
// every run. nil disables refreshing.
func (e *Editor) SetRefreshFunc(fn RefreshFunc) {
	running := e.refresher.Running()
	e.refresher = NewRefresher(fn)
	if running {
		e.refresher.Start(e.now())
	}
}

// WatchConfig reloads path on change and applies it between frames. The
// watch stops when ctx is done.
func (e *Editor) WatchConfig(ctx context.Context, path string) error {
	ch, err := config.Watch(ctx, path, e.log)
	if err != nil {
		return err
	}
	e.configCh = ch
	return nil
}

func (e *Editor) drainConfig() {
	if e.configCh == nil {
		return
	}
	select {
	case cfg, ok := <-e.configCh:
		if !ok {
			e.configCh = nil
			return
		}
		if err := e.apply(cfg); err != nil {
			e.log.Warn("config not applied", "err", err)
		}
	default:
	}
}

// Show opens the window and runs the frame loop until the window closes
// or Quit is called.
func (e *Editor) Show(opts ShowOptions) error {
	w, h := int(e.Viewport.Width), int(e.Viewport.Height)
	ebiten.SetWindowTitle(e.title)
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	minW, minH, maxW, maxH := -1, -1, -1, -1
	if opts.MinSize.X > 0 && opts.MinSize.Y > 0 {
		minW, minH = opts.MinSize.X, opts.MinSize.Y
	}
	if opts.MaxSize.X > 0 && opts.MaxSize.Y > 0 {
		maxW, maxH = opts.MaxSize.X, opts.MaxSize.Y
	}
	ebiten.SetWindowSizeLimits(minW, minH, maxW, maxH)
	ebiten.SetFullscreen(opts.Fullscreen)

	e.refresher.Start(e.now())
	if err := e.Rerender(); err != nil {
		return err
	}
	err := ebiten.RunGame(e)
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}

// Quit ends the frame loop after the current frame.
func (e *Editor) Quit() { e.quit = true }

// Update implements ebiten.Game.
func (e *Editor) Update() error {
	start := time.Now()
	now := e.now()
	dt := float32(1.0 / float64(ebiten.TPS()))

	e.drainConfig()
	if e.refresher.Tick(now) {
		e.pending = true
	}
	// A re-render mid-gesture would drop the item being dragged.
	if e.pending && !e.interacting() {
		e.pending = false
		if err := e.Rerender(); err != nil {
			return err
		}
	}
	if e.testRunner != nil {
		e.testRunner.step(e)
	}
	if !e.processInjected(now) {
		e.Input.Process(e.poller.poll(now))
	}
	e.Viewport.update(dt)

	if globalDebug {
		e.stats.updateTime = time.Since(start)
		e.stats.itemCount = e.Surface.Count()
		e.stats.pageCount = e.Document.Len()
	}
	if e.quit {
		return ebiten.Termination
	}
	return nil
}

// Draw implements ebiten.Game.
func (e *Editor) Draw(screen *ebiten.Image) {
	start := time.Now()
	screen.Fill(e.ClearColor.toRGBA())
	e.Surface.Draw(screen, e.Viewport.ViewMatrix())
	e.drawSelection(screen)
	if e.ShowOverlay {
		e.drawOverlay(screen)
	}
	e.flushScreenshots(screen)
	if globalDebug {
		e.stats.drawTime = time.Since(start)
		debugLog(e.log, e.stats)
	}
}

// Layout implements ebiten.Game. The viewport tracks the window size.
func (e *Editor) Layout(outsideWidth, outsideHeight int) (int, int) {
	e.Viewport.SetSize(float64(outsideWidth), float64(outsideHeight))
	return outsideWidth, outsideHeight
}

// interacting reports whether a move or resize drag is in progress.
func (e *Editor) interacting() bool {
	return e.Selection.Dragging() || e.Resizer.State() == Resizing
}

// Rerender clears the surface and renders the document again, keeping the
// selection on the same object when it survived the edit.
func (e *Editor) Rerender() error {
	selected := objectOf(e.Surface.Selected())
	if err := e.Document.Render(e.Surface); err != nil {
		e.log.Error("render failed", "err", err)
		return err
	}
	if selected != nil && selected.Page() != nil && selected.Node() != nil {
		e.Surface.Select(selected.Node().Handle())
	}
	return nil
}

// AddPage appends a page labelled with its number, re-renders, and
// scrolls to it.
func (e *Editor) AddPage() *Page {
	p := e.Document.AddPage()
	label := fmt.Sprintf("This is page %d", p.Index()+1)
	p.NewText(nil, Point{Y: e.textFont.LineHeight()}, label, e.textFont)
	if err := e.Rerender(); err != nil {
		return p
	}
	e.Viewport.ScrollTo(p.Bounds().Center(), scrollToDuration, ease.OutQuad)
	e.log.Info("page added", "page", p.Index()+1, "id", p.ID)
	return p
}

// RemovePage removes the last page and re-renders. With no pages it logs
// and returns false.
func (e *Editor) RemovePage() bool {
	if !e.Document.RemovePage() {
		return false
	}
	_ = e.Rerender()
	e.log.Info("page removed", "pages", e.Document.Len())
	return true
}

// currentPage returns the page of the selected object, else the page at
// the view center, else the last page. Nil when there are no pages.
func (e *Editor) currentPage() *Page {
	if o := objectOf(e.Surface.Selected()); o != nil && o.Page() != nil {
		return o.Page()
	}
	n := e.Document.Len()
	if n == 0 {
		return nil
	}
	c := e.Viewport.VisibleBounds().Center()
	for _, p := range e.Document.Pages() {
		if p.Bounds().Contains(c.X, c.Y) {
			return p
		}
	}
	return e.Document.Page(n - 1)
}

// InsertGlyph adds the named glyph to the current page, selects it and
// re-renders. A page is added first when the document is empty.
func (e *Editor) InsertGlyph(name string) (*Object, error) {
	p := e.currentPage()
	if p == nil {
		p = e.AddPage()
	}
	o, err := p.NewGlyph(nil, paletteInset, name, e.musicFont)
	if err != nil {
		return nil, err
	}
	if err := e.Rerender(); err != nil {
		return o, err
	}
	if n := o.Node(); n != nil {
		e.Surface.Select(n.Handle())
	}
	e.log.Debug("glyph inserted", "glyph", name, "page", p.Index()+1)
	return o, nil
}

// New, Open, Save, SaveAs, Cut, Copy and Paste are menu actions without
// an implementation; they only log.
func (e *Editor) New()    { e.notImplemented("new") }
func (e *Editor) Open()   { e.notImplemented("open") }
func (e *Editor) Save()   { e.notImplemented("save") }
func (e *Editor) SaveAs() { e.notImplemented("save_as") }
func (e *Editor) Cut()    { e.notImplemented("cut") }
func (e *Editor) Copy()   { e.notImplemented("copy") }
func (e *Editor) Paste()  { e.notImplemented("paste") }

func (e *Editor) notImplemented(action string) {
	e.log.Info("action not implemented", "action", action)
}

// zoomStep is the zoom factor of the keyboard zoom shortcuts.
const zoomStep = 1.25

// handleShortcut is the default key handler: menu shortcuts and the glyph
// palette. Installing another key handler replaces it.
func (e *Editor) handleShortcut(k KeyEvent) {
	if k.Type != KeyPress {
		return
	}
	ctrl := k.Modifiers&(ModCtrl|ModMeta) != 0
	center := Point{e.Viewport.Width / 2, e.Viewport.Height / 2}
	if ctrl {
		switch k.Key {
		case ebiten.KeyN:
			e.New()
		case ebiten.KeyO:
			e.Open()
		case ebiten.KeyS:
			if k.Modifiers&ModShift != 0 {
				e.SaveAs()
			} else {
				e.Save()
			}
		case ebiten.KeyX:
			e.Cut()
		case ebiten.KeyC:
			e.Copy()
		case ebiten.KeyV:
			e.Paste()
		case ebiten.KeyT:
			e.AddPage()
		case ebiten.KeyW:
			e.RemovePage()
		case ebiten.KeyEqual:
			e.Viewport.Zoom(zoomStep, center)
		case ebiten.KeyMinus:
			e.Viewport.Zoom(1/zoomStep, center)
		case ebiten.KeyQ:
			e.Quit()
		}
		return
	}
	switch k.Key {
	case ebiten.KeyF2:
		e.Viewport.SetAutoInteraction(!e.Viewport.AutoInteraction())
		return
	case ebiten.KeyF3:
		e.ShowOverlay = !e.ShowOverlay
		return
	case ebiten.KeyF12:
		e.Screenshot("manual")
		return
	}
	for _, pe := range e.Palette {
		if pe.Key == k.Key {
			if _, err := e.InsertGlyph(pe.Glyph); err != nil {
				e.log.Warn("palette insert failed", "glyph", pe.Glyph, "err", err)
			}
			return
		}
	}
}

// trace logs normalized input events in debug mode.
func (e *Editor) trace(ev Event) {
	if !globalDebug {
		return
	}
	switch ev.Kind {
	case EventPointer:
		if ev.Pointer.Type == PointerMove {
			return
		}
		e.log.Debug("pointer", "type", ev.Pointer.Type, "x", ev.Pointer.Pos.X, "y", ev.Pointer.Pos.Y,
			"button", ev.Pointer.Button)
	case EventKey:
		e.log.Debug("key", "key", ev.Key.Key, "release", ev.Key.Type == KeyRelease)
	}
}
