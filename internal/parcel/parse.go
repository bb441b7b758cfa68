package parcel

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/jmdejong/cadastrs/internal/errs"
	"github.com/jmdejong/cadastrs/internal/pos"
	"github.com/jmdejong/cadastrs/internal/strutil"
)

// LinkLineError reports a malformed link definition. Row is the 1-based line
// number in the source text.
type LinkLineError struct {
	Row  int
	Text string
}

func (e *LinkLineError) Error() string {
	return fmt.Sprintf("line %d: %v: %q (want \"<key> <url>\")", e.Row, errs.ErrLinkLine, e.Text)
}

func (e *LinkLineError) Unwrap() error { return errs.ErrLinkLine }

// lineReader hands out lines; reads past the end yield "" and false.
type lineReader struct {
	lines []string
	next  int
}

func (r *lineReader) read() (string, bool) {
	if r.next >= len(r.lines) {
		return "", false
	}
	l := r.lines[r.next]
	r.next++
	return l, true
}

// row is the 1-based number of the line returned by the last read.
func (r *lineReader) row() int { return r.next }

func (r *lineReader) readGrid() Grid {
	rows := make([]string, Height)
	for i := range rows {
		l, _ := r.read()
		rows[i] = Sanitize(strutil.ToLength(l, Width, ' '))
	}
	return NewGrid(rows)
}

// Parse reads a parcel from its source text:
//
//	x y                 plot location
//	12 lines            art, padded or cut to 24 characters
//	"" | "-"            blank: 12 mask lines follow; dash: the art is the mask
//	<key> <url> ...     link definitions
//
// A separator line that is neither blank nor a dash keeps the art as mask and
// ignores everything after it. Text is NFC-normalised first so that combining
// sequences with a precomposed form count as one character.
func Parse(text string, owner Owner) (Parcel, error) {
	r := &lineReader{lines: strutil.SplitLines(norm.NFC.String(text))}

	first, ok := r.read()
	if !ok {
		return Parcel{}, errs.ErrEmptyFile
	}
	location, err := pos.Parse(first)
	if err != nil {
		return Parcel{}, fmt.Errorf("%w: %q", errs.ErrPositionLine, first)
	}

	p := Parcel{
		Owner:    owner,
		Location: location,
		Art:      r.readGrid(),
		Links:    Links{},
	}

	sep, ok := r.read()
	switch sep = strings.TrimSpace(sep); {
	case !ok || sep == "-":
		p.Mask = p.Art
	case sep == "":
		p.Mask = r.readGrid()
	default:
		p.Mask = p.Art
		return p, nil
	}

	for {
		line, ok := r.read()
		if !ok {
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			return Parcel{}, &LinkLineError{Row: r.row(), Text: line}
		}
		key, ok := strutil.ToChar(fields[0])
		if !ok {
			return Parcel{}, &LinkLineError{Row: r.row(), Text: line}
		}
		p.Links[key] = fields[1]
	}
	return p, nil
}
