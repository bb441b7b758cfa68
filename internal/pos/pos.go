// Package pos defines the integer 2D coordinate used for both plot and character grids.
package pos

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/jmdejong/cadastrs/internal/errs"
)

// Pos is an immutable integer pair. It is comparable and can be used as a map key.
type Pos struct {
	X int64
	Y int64
}

// New constructs a position.
func New(x, y int64) Pos { return Pos{X: x, Y: y} }

// Parse reads exactly two whitespace-separated integers, e.g. "3 -4".
func Parse(line string) (Pos, error) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return Pos{}, fmt.Errorf("%w: %q", errs.ErrPositionFormat, line)
	}
	x, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return Pos{}, fmt.Errorf("%w: %q", errs.ErrPositionFormat, line)
	}
	y, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return Pos{}, fmt.Errorf("%w: %q", errs.ErrPositionFormat, line)
	}
	return Pos{X: x, Y: y}, nil
}

func (p Pos) Add(o Pos) Pos { return Pos{X: p.X + o.X, Y: p.Y + o.Y} }
func (p Pos) Sub(o Pos) Pos { return Pos{X: p.X - o.X, Y: p.Y - o.Y} }
func (p Pos) Neg() Pos      { return Pos{X: -p.X, Y: -p.Y} }

// Mul scales both components by n.
func (p Pos) Mul(n int64) Pos { return Pos{X: p.X * n, Y: p.Y * n} }

// Div divides both components by n, rounding toward negative infinity for n > 0.
// It panics when n is zero.
func (p Pos) Div(n int64) Pos { return Pos{X: divEuclid(p.X, n), Y: divEuclid(p.Y, n)} }

// Rem returns the Euclidean remainder of both components; the result is never negative.
func (p Pos) Rem(n int64) Pos { return Pos{X: remEuclid(p.X, n), Y: remEuclid(p.Y, n)} }

// Key returns the snapshot map key form "x,y".
func (p Pos) Key() string {
	return strconv.FormatInt(p.X, 10) + "," + strconv.FormatInt(p.Y, 10)
}

func (p Pos) String() string { return fmt.Sprintf("(%d, %d)", p.X, p.Y) }

// ParseKey is the inverse of Key.
func ParseKey(s string) (Pos, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return Pos{}, fmt.Errorf("%w: missing comma in %q", errs.ErrBadPlaceKey, s)
	}
	x, err := strconv.ParseInt(xs, 10, 64)
	if err != nil {
		return Pos{}, fmt.Errorf("%w: %q: %v", errs.ErrBadPlaceKey, s, err)
	}
	y, err := strconv.ParseInt(ys, 10, 64)
	if err != nil {
		return Pos{}, fmt.Errorf("%w: %q: %v", errs.ErrBadPlaceKey, s, err)
	}
	return Pos{X: x, Y: y}, nil
}

// MarshalJSON encodes the position as a two element array.
func (p Pos) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int64{p.X, p.Y})
}

// UnmarshalJSON decodes a two element array.
func (p *Pos) UnmarshalJSON(b []byte) error {
	var xy []int64
	if err := json.Unmarshal(b, &xy); err != nil {
		return err
	}
	if len(xy) != 2 {
		return fmt.Errorf("%w: want [x, y], got %d elements", errs.ErrPositionFormat, len(xy))
	}
	p.X, p.Y = xy[0], xy[1]
	return nil
}

func divEuclid(a, n int64) int64 {
	q := a / n
	if a%n < 0 {
		if n > 0 {
			q--
		} else {
			q++
		}
	}
	return q
}

func remEuclid(a, n int64) int64 {
	r := a % n
	if r < 0 {
		if n < 0 {
			r -= n
		} else {
			r += n
		}
	}
	return r
}
