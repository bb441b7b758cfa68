package parcel

import (
	"encoding/json"

	"github.com/jmdejong/cadastrs/internal/pos"
)

// record is the persisted form of a parcel.
type record struct {
	Owner    Owner    `json:"owner"`
	Location pos.Pos  `json:"location"`
	Art      []string `json:"art"`
	Mask     []string `json:"linkmask,omitempty"`
	Links    Links    `json:"links"`
}

// MarshalJSON always writes the link mask.
func (p Parcel) MarshalJSON() ([]byte, error) {
	links := p.Links
	if links == nil {
		links = Links{}
	}
	return json.Marshal(record{
		Owner:    p.Owner,
		Location: p.Location,
		Art:      p.Art[:],
		Mask:     p.Mask[:],
		Links:    links,
	})
}

// UnmarshalJSON fits art and mask to the plot dimensions. A missing link
// mask is taken to be the art itself.
func (p *Parcel) UnmarshalJSON(b []byte) error {
	var rec record
	if err := json.Unmarshal(b, &rec); err != nil {
		return err
	}
	p.Owner = rec.Owner
	p.Location = rec.Location
	p.Art = NewGrid(rec.Art)
	if rec.Mask == nil {
		p.Mask = p.Art
	} else {
		p.Mask = NewGrid(rec.Mask)
	}
	p.Links = rec.Links
	if p.Links == nil {
		p.Links = Links{}
	}
	return nil
}
