// Package cadastre holds the town snapshot: which parcel occupies which plot,
// and the background seed used to fill unclaimed land.
package cadastre

import (
	"cmp"
	"iter"
	"maps"
	"slices"

	"github.com/jmdejong/cadastrs/internal/background"
	"github.com/jmdejong/cadastrs/internal/parcel"
	"github.com/jmdejong/cadastrs/internal/pos"
)

// Cadastre is an immutable snapshot of the town. New snapshots are derived
// from old ones with Build.
type Cadastre struct {
	places     map[pos.Pos]parcel.Parcel
	background background.Background
}

// Empty returns a town without parcels and with the initial seed.
func Empty() *Cadastre {
	return &Cadastre{
		places:     map[pos.Pos]parcel.Parcel{},
		background: background.Initial,
	}
}

// New assembles a snapshot directly, keyed by each parcel's location.
// Later parcels overwrite earlier ones at the same location.
func New(bg background.Background, parcels ...parcel.Parcel) *Cadastre {
	c := &Cadastre{
		places:     make(map[pos.Pos]parcel.Parcel, len(parcels)),
		background: bg,
	}
	for _, p := range parcels {
		c.places[p.Location] = p
	}
	return c
}

// Build merges a stream of candidate parcels into a new snapshot.
//
// The first claimant of a free plot takes it. A later claimant replaces the
// current holder if its owner has a higher priority, or the same priority and
// it already held the plot in old. Otherwise it is dropped. The seed of the
// result is old's seed advanced once. A nil old is treated as Empty().
func Build(old *Cadastre, parcels iter.Seq[parcel.Parcel]) *Cadastre {
	if old == nil {
		old = Empty()
	}
	places := map[pos.Pos]parcel.Parcel{}
	for p := range parcels {
		if held, ok := places[p.Location]; ok && !canReplace(old, held, p) {
			continue
		}
		places[p.Location] = p
	}
	return &Cadastre{
		places:     places,
		background: old.background.Next(),
	}
}

func canReplace(old *Cadastre, held, claim parcel.Parcel) bool {
	switch cp, hp := claim.Owner.Priority(), held.Owner.Priority(); {
	case cp > hp:
		return true
	case cp < hp:
		return false
	}
	prev, ok := old.OwnerOf(claim.Location)
	return ok && prev == claim.Owner
}

// Parcel returns the parcel at plot p.
func (c *Cadastre) Parcel(p pos.Pos) (parcel.Parcel, bool) {
	pc, ok := c.places[p]
	return pc, ok
}

// OwnerOf returns the owner of the parcel at plot p.
func (c *Cadastre) OwnerOf(p pos.Pos) (parcel.Owner, bool) {
	pc, ok := c.places[p]
	return pc.Owner, ok
}

// Len is the number of claimed plots.
func (c *Cadastre) Len() int { return len(c.places) }

// Background returns the snapshot's seed.
func (c *Cadastre) Background() background.Background { return c.background }

// Locations returns every claimed plot ordered by row, then column.
func (c *Cadastre) Locations() []pos.Pos {
	return slices.SortedFunc(maps.Keys(c.places), func(a, b pos.Pos) int {
		if n := cmp.Compare(a.Y, b.Y); n != 0 {
			return n
		}
		return cmp.Compare(a.X, b.X)
	})
}
