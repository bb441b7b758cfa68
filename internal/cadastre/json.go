package cadastre

import (
	"encoding/json"
	"fmt"

	"github.com/jmdejong/cadastrs/internal/background"
	"github.com/jmdejong/cadastrs/internal/parcel"
	"github.com/jmdejong/cadastrs/internal/pos"
)

type snapshot struct {
	Places map[string]parcel.Parcel `json:"places"`
	Seed   background.Background    `json:"seed"`
}

// MarshalJSON writes {"places": {"x,y": parcel, ...}, "seed": n}.
func (c *Cadastre) MarshalJSON() ([]byte, error) {
	s := snapshot{
		Places: make(map[string]parcel.Parcel, len(c.places)),
		Seed:   c.background,
	}
	for p, pc := range c.places {
		s.Places[p.Key()] = pc
	}
	return json.Marshal(s)
}

// UnmarshalJSON places each parcel at its map key, not its own location field.
func (c *Cadastre) UnmarshalJSON(b []byte) error {
	var s snapshot
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	places := make(map[pos.Pos]parcel.Parcel, len(s.Places))
	for k, pc := range s.Places {
		p, err := pos.ParseKey(k)
		if err != nil {
			return fmt.Errorf("places: %w", err)
		}
		places[p] = pc
	}
	c.places = places
	c.background = s.Seed
	return nil
}
