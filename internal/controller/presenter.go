package controller

import (
	"github.com/rivo/uniseg"

	"github.com/MJD19994/macropad/internal/device"
	"github.com/MJD19994/macropad/internal/profile"
)

// Banner fill colors. A filled banner marks a profile with a visible name;
// a black banner signals a blank title row.
const (
	bannerFilled = 0xFFFFFF
	bannerBlank  = 0x000000
)

// DefaultSlotWidth is the label width of one key slot in display cells.
const DefaultSlotWidth = 7

// Presenter maps a profile onto the display surface: color and label for
// every bound key slot, cleared slots beyond the binding count, and the
// name banner. It performs no other logic.
type Presenter struct {
	display   device.Display
	slotWidth int
}

// NewPresenter creates a presenter for the given display.
func NewPresenter(display device.Display) *Presenter {
	return &Presenter{display: display, slotWidth: DefaultSlotWidth}
}

// SetSlotWidth overrides the label truncation width.
func (p *Presenter) SetSlotWidth(width int) {
	if width > 0 {
		p.slotWidth = width
	}
}

// Present renders a profile and refreshes the display once.
func (p *Presenter) Present(prof *profile.Profile) {
	for slot := 0; slot < profile.MaxBindings; slot++ {
		if b, ok := prof.Binding(slot); ok {
			p.display.SetColor(slot, b.Color)
			p.display.SetLabel(slot, truncateLabel(b.Label, p.slotWidth))
		} else {
			p.display.SetColor(slot, 0)
			p.display.SetLabel(slot, "")
		}
	}

	p.display.SetTitle(prof.Name)
	if prof.Name != "" {
		p.display.SetBannerFill(bannerFilled)
	} else {
		p.display.SetBannerFill(bannerBlank)
	}

	p.display.Refresh()
}

// truncateLabel cuts a label to width cells on a grapheme cluster
// boundary, so multi-rune clusters are never split mid-character.
func truncateLabel(label string, width int) string {
	if uniseg.StringWidth(label) <= width {
		return label
	}

	var (
		out   string
		used  int
		state = -1
		rest  = label
	)
	for len(rest) > 0 {
		cluster, tail, w, nextState := uniseg.FirstGraphemeClusterInString(rest, state)
		if used+w > width {
			break
		}
		out += cluster
		used += w
		rest = tail
		state = nextState
	}
	return out
}
