// Package sim provides a terminal macropad: a tcell screen showing the
// 4x3 key grid, the profile banner and an action log, with keyboard rows
// standing in for the physical keys and arrow keys for the encoder.
package sim

import (
	"sync"
	"sync/atomic"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/rivo/uniseg"

	"github.com/MJD19994/macropad/internal/device"
)

// Key grid geometry, matching the physical pad.
const (
	gridCols = 3
	gridRows = 4
	keyCount = gridCols * gridRows
)

// keyRows maps terminal runes to physical key indexes, row by row.
var keyRows = map[rune]int{
	'1': 0, '2': 1, '3': 2,
	'q': 3, 'w': 4, 'e': 5,
	'a': 6, 's': 7, 'd': 8,
	'z': 9, 'x': 10, 'c': 11,
}

// maxLogLines caps the action log history.
const maxLogLines = 64

// surfaceState is one drawable surface: the macro menu and the game each
// get their own.
type surfaceState struct {
	name     string
	title    string
	banner   uint32
	rotation int
	labels   [keyCount]string
	colors   [keyCount]uint32
}

// SurfaceName names the surface for diagnostics.
func (s *surfaceState) SurfaceName() string { return s.name }

// Pad is the simulated macropad. It implements device.Display and
// device.InputSource; device actions reach it through the Log callback.
type Pad struct {
	screen tcell.Screen

	mu       sync.Mutex
	surfaces map[string]*surfaceState
	active   *surfaceState
	logLines []string
	slotW    int

	keyCh   chan device.KeyEvent
	encoder atomic.Int64
	quit    func()
	done    chan struct{}

	closeOnce sync.Once
}

// Option configures a Pad.
type Option func(*Pad)

// WithSlotWidth sets the drawn key slot width in cells.
func WithSlotWidth(width int) Option {
	return func(p *Pad) {
		if width > 0 {
			p.slotW = width
		}
	}
}

// WithScreen injects a tcell screen (tests use a SimulationScreen).
func WithScreen(screen tcell.Screen) Option {
	return func(p *Pad) {
		p.screen = screen
	}
}

// New creates and initializes the simulator. The quit callback fires when
// the user closes the simulator (Escape or Ctrl-C).
func New(quit func(), opts ...Option) (*Pad, error) {
	p := &Pad{
		surfaces: make(map[string]*surfaceState),
		keyCh:    make(chan device.KeyEvent, 64),
		quit:     quit,
		done:     make(chan struct{}),
		slotW:    7,
	}
	for _, opt := range opts {
		opt(p)
	}

	if p.screen == nil {
		screen, err := tcell.NewScreen()
		if err != nil {
			return nil, err
		}
		p.screen = screen
	}
	if err := p.screen.Init(); err != nil {
		return nil, err
	}

	menu := p.surface("menu")
	p.active = menu

	go p.eventLoop()
	return p, nil
}

// MenuSurface returns the macro menu surface handle.
func (p *Pad) MenuSurface() device.Surface {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.surface("menu")
}

// Close shuts the terminal screen down. Safe to call more than once;
// callers often pair a defer with an explicit close on error paths.
func (p *Pad) Close() {
	p.closeOnce.Do(func() {
		close(p.done)
		p.screen.Fini()
	})
}

// surface returns the named surface, creating it on first use. Callers
// must hold mu or be in single-threaded startup.
func (p *Pad) surface(name string) *surfaceState {
	s, ok := p.surfaces[name]
	if !ok {
		s = &surfaceState{name: name}
		p.surfaces[name] = s
	}
	return s
}

// eventLoop translates terminal events into pad input.
func (p *Pad) eventLoop() {
	for {
		select {
		case <-p.done:
			return
		default:
		}

		ev := p.screen.PollEvent()
		switch ev := ev.(type) {
		case *tcell.EventKey:
			p.handleKey(ev)
		case *tcell.EventResize:
			p.screen.Sync()
			p.Refresh()
		}
	}
}

// handleKey maps a terminal key event to pad input. Terminals report no
// key-up, so each mapped rune synthesizes a press immediately followed by
// a release.
func (p *Pad) handleKey(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		if p.quit != nil {
			p.quit()
		}
	case tcell.KeyLeft:
		p.encoder.Add(-1)
	case tcell.KeyRight:
		p.encoder.Add(1)
	case tcell.KeyRune:
		index, ok := keyRows[ev.Rune()]
		if !ok {
			return
		}
		p.push(device.KeyEvent{KeyIndex: index, Pressed: true})
		p.push(device.KeyEvent{KeyIndex: index, Pressed: false})
	}
}

// push queues a key event, dropping it if the queue is full.
func (p *Pad) push(ev device.KeyEvent) {
	select {
	case p.keyCh <- ev:
	default:
	}
}

// NextKey returns the next pending key event, if any.
func (p *Pad) NextKey() (device.KeyEvent, bool) {
	select {
	case ev := <-p.keyCh:
		return ev, true
	default:
		return device.KeyEvent{}, false
	}
}

// EncoderPosition returns the absolute encoder position.
func (p *Pad) EncoderPosition() int {
	return int(p.encoder.Load())
}

// Log appends one line to the action log pane and redraws it.
func (p *Pad) Log(line string) {
	p.mu.Lock()
	p.logLines = append(p.logLines, line)
	if len(p.logLines) > maxLogLines {
		p.logLines = p.logLines[len(p.logLines)-maxLogLines:]
	}
	p.mu.Unlock()
	p.Refresh()
}

// SetLabel sets the label text for a key slot on the active surface.
func (p *Pad) SetLabel(slot int, text string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if slot >= 0 && slot < keyCount {
		p.active.labels[slot] = text
	}
}

// SetColor sets the LED color for a key slot on the active surface.
func (p *Pad) SetColor(slot int, color uint32) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if slot >= 0 && slot < keyCount {
		p.active.colors[slot] = color
	}
}

// SetTitle sets the banner title on the active surface.
func (p *Pad) SetTitle(text string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.active.title = text
}

// SetBannerFill sets the banner background on the active surface.
func (p *Pad) SetBannerFill(color uint32) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.active.banner = color
}

// SetRotation records the display rotation. The terminal rendering does
// not rotate; the value is kept for diagnostics.
func (p *Pad) SetRotation(degrees int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.active.rotation = degrees
}

// SetActiveSurface switches the drawn surface, creating it on first use.
func (p *Pad) SetActiveSurface(s device.Surface) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.active = p.surface(s.SurfaceName())
}

// ActiveSurfaceName returns the name of the surface currently shown.
func (p *Pad) ActiveSurfaceName() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.active.name
}

// Refresh redraws the whole frame.
func (p *Pad) Refresh() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.draw()
}

// draw renders banner, key grid and action log. Callers hold mu.
func (p *Pad) draw() {
	p.screen.Clear()
	width, _ := p.screen.Size()

	// Banner row.
	bannerStyle := styleFor(p.active.banner)
	fillRow(p.screen, 0, width, bannerStyle)
	drawText(p.screen, 2, 0, bannerStyle, p.active.title)

	// Key grid.
	cellW := p.slotW + 2
	for row := 0; row < gridRows; row++ {
		for col := 0; col < gridCols; col++ {
			index := row*gridCols + col
			x := 1 + col*(cellW+1)
			y := 2 + row*2
			style := styleFor(p.active.colors[index])
			for i := 0; i < cellW; i++ {
				p.screen.SetContent(x+i, y, ' ', nil, style)
			}
			drawText(p.screen, x+1, y, style, p.active.labels[index])
		}
	}

	// Action log to the right of the grid.
	logX := 1 + gridCols*(cellW+1) + 2
	logStyle := tcell.StyleDefault.Foreground(tcell.ColorGray)
	maxRows := gridRows*2 + 1
	start := 0
	if len(p.logLines) > maxRows {
		start = len(p.logLines) - maxRows
	}
	for i, line := range p.logLines[start:] {
		drawText(p.screen, logX, 1+i, logStyle, line)
	}

	p.screen.Show()
}

// styleFor builds a cell style from a 24-bit LED color: the LED color as
// background with black or white text picked for contrast, and a dim
// gray stand-in for unlit keys.
func styleFor(rgb uint32) tcell.Style {
	c := colorful.Color{
		R: float64(rgb>>16&0xFF) / 255,
		G: float64(rgb>>8&0xFF) / 255,
		B: float64(rgb&0xFF) / 255,
	}

	if rgb == 0 {
		// Unlit: lift pure black slightly so the key outline stays
		// visible against the terminal background.
		c = c.BlendLab(colorful.Color{R: 0.25, G: 0.25, B: 0.25}, 0.6)
	}

	bg := tcell.NewRGBColor(toByte(c.R), toByte(c.G), toByte(c.B))
	fg := tcell.ColorWhite
	if _, _, l := c.Hsl(); l > 0.5 {
		fg = tcell.ColorBlack
	}
	return tcell.StyleDefault.Background(bg).Foreground(fg)
}

// toByte converts a 0..1 channel to a 0..255 component.
func toByte(v float64) int32 {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	return int32(v*255 + 0.5)
}

// fillRow paints a full row with a style.
func fillRow(screen tcell.Screen, y, width int, style tcell.Style) {
	for x := 0; x < width; x++ {
		screen.SetContent(x, y, ' ', nil, style)
	}
}

// drawText writes a string starting at x, y, one grapheme cluster per
// cell so combining marks stay attached and wide clusters advance by
// their real width.
func drawText(screen tcell.Screen, x, y int, style tcell.Style, text string) {
	state := -1
	for len(text) > 0 {
		cluster, rest, width, nextState := uniseg.FirstGraphemeClusterInString(text, state)
		runes := []rune(cluster)
		screen.SetContent(x, y, runes[0], runes[1:], style)
		x += width
		text = rest
		state = nextState
	}
}
