// Package parcel implements a single plot of the town: its source format,
// its owner and the per-row text and HTML rendering.
package parcel

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jmdejong/cadastrs/internal/pos"
	"github.com/jmdejong/cadastrs/internal/strutil"
)

// Plot dimensions in characters.
const (
	Width  = 24
	Height = 12
)

// Grid is a fixed block of Height rows. Every row holds exactly Width runes
// once it has passed through NewGrid.
type Grid [Height]string

// NewGrid pads or truncates rows into a Grid.
func NewGrid(rows []string) Grid {
	var g Grid
	copy(g[:], strutil.FitBlock(rows, Height, Width))
	return g
}

// BlankGrid returns a grid of spaces.
func BlankGrid() Grid {
	return NewGrid(nil)
}

// Links maps a mask key to a URL. Keys without an entry render as plain text.
type Links map[rune]string

// MarshalJSON writes the keys as one-character strings in sorted order.
func (l Links) MarshalJSON() ([]byte, error) {
	m := make(map[string]string, len(l))
	for k, v := range l {
		m[string(k)] = v
	}
	return json.Marshal(m)
}

// UnmarshalJSON rejects keys that are not exactly one rune.
func (l *Links) UnmarshalJSON(b []byte) error {
	var m map[string]string
	if err := json.Unmarshal(b, &m); err != nil {
		return err
	}
	out := make(Links, len(m))
	for k, v := range m {
		r, ok := strutil.ToChar(k)
		if !ok {
			return fmt.Errorf("link key %q must be a single character", k)
		}
		out[r] = v
	}
	*l = out
	return nil
}

// Parcel is one plot claim. It is not modified after construction.
type Parcel struct {
	Owner    Owner
	Location pos.Pos
	Art      Grid
	Mask     Grid
	Links    Links
}

// Empty returns a blank parcel without links.
func Empty(owner Owner, location pos.Pos) Parcel {
	return Parcel{
		Owner:    owner,
		Location: location,
		Art:      BlankGrid(),
		Mask:     BlankGrid(),
		Links:    Links{},
	}
}

// TextLine returns art row y.
func (p Parcel) TextLine(y int) string {
	return p.Art[y]
}

// HTMLLine renders art row y with anchors for linked mask regions.
// Every tag opened on the row is also closed on it.
func (p Parcel) HTMLLine(y int) string {
	var b strings.Builder
	b.Grow(Width * 2)

	span := y == 0 && p.Owner.IsUser()
	if span {
		b.WriteString(`<span id="`)
		b.WriteString(escapeAttr(p.Owner.Name))
		b.WriteString(`">`)
	}

	art := []rune(p.Art[y])
	mask := []rune(p.Mask[y])
	open, key := false, rune(0)
	for i, ch := range art {
		var mk rune
		if i < len(mask) {
			mk = mask[i]
		}
		if open && key != mk {
			b.WriteString("</a>")
			open = false
		}
		if link, ok := p.Links[mk]; ok && !open {
			b.WriteString(`<a href="`)
			b.WriteString(escapeAttr(link))
			b.WriteString(`">`)
			open, key = true, mk
		}
		switch ch {
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		case '&':
			b.WriteString("&amp;")
		default:
			b.WriteRune(ch)
		}
	}
	if open {
		b.WriteString("</a>")
	}
	if span {
		b.WriteString("</span>")
	}
	return b.String()
}

func escapeAttr(s string) string {
	return strings.ReplaceAll(s, `"`, "&quot;")
}
