// Package background generates the deterministic filler pattern shown on unclaimed land.
package background

import "github.com/jmdejong/cadastrs/internal/pos"

// Initial is the seed of a freshly initialised town.
const Initial Background = 1

const chars = "'',,..``\""

// Background is the seed of the filler pattern. A snapshot carries exactly one.
type Background int64

func hash(n int64) int64 {
	return (n*104399 + 617) & 0xffffffff
}

// Next returns the seed for the following rebuild.
func (b Background) Next() Background {
	return Background((int64(b)*211 + 53) & 0xffffffff)
}

// CharAt returns the filler character at an absolute character coordinate.
func (b Background) CharAt(p pos.Pos) string {
	h := (hash(hash(hash(int64(b))^p.X)^p.Y) >> 8) % 128
	if h < int64(len(chars)) {
		return chars[h : h+1]
	}
	return " "
}
