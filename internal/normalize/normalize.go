// Package normalize rewrites extracted entity and extra-info labels into the
// short aliases used in file names.
package normalize

import (
	"strings"

	"github.com/Veraticus/docket/internal/lines"
	"github.com/Veraticus/docket/internal/model"
)

// Adjustment rewrites metadata whose entity contains MatchEntity and whose
// extra info contains every MatchExtra string. Matching is case sensitive.
// Empty New fields leave the corresponding value untouched.
type Adjustment struct {
	MatchEntity string
	NewEntity   string
	NewExtra    string
	MatchExtra  []string
}

// Matches reports whether the adjustment applies to md.
func (a Adjustment) Matches(md model.DocumentMetadata) bool {
	if a.MatchEntity == "" || !strings.Contains(md.Entity, a.MatchEntity) {
		return false
	}
	return lines.ContainsAll(md.ExtraInfo, a.MatchExtra...)
}

// Apply rewrites md in place when the adjustment matches.
func (a Adjustment) Apply(md *model.DocumentMetadata) bool {
	if !a.Matches(*md) {
		return false
	}
	if a.NewEntity != "" {
		md.Entity = a.NewEntity
	}
	if a.NewExtra != "" {
		md.ExtraInfo = a.NewExtra
	}
	return true
}

// Normalizer is an ordered list of adjustments; only the first match is applied.
type Normalizer []Adjustment

// Apply rewrites md with the first matching adjustment and returns its
// index, or -1 when none matched.
func (n Normalizer) Apply(md *model.DocumentMetadata) int {
	for i, a := range n {
		if a.Apply(md) {
			return i
		}
	}
	return -1
}

// Defaults returns the built-in aliases.
func Defaults() Normalizer {
	return Normalizer{
		{MatchEntity: "CIENCIES", MatchExtra: []string{"CIENCIES"}, NewEntity: "graells", NewExtra: "ciencies"},
		{MatchEntity: "VANGUARDIA", NewEntity: "f.vanguardia", NewExtra: "ciencies"},
		{MatchEntity: "NUBIOLA", NewEntity: "piso", NewExtra: "borriana"},
		{MatchEntity: "MERNUBE", NewEntity: "piso", NewExtra: "borriana"},
		{MatchEntity: "DEUTSCHE BANK", MatchExtra: []string{"ZURICH"}, NewEntity: "deutsche", NewExtra: "seguro zurich unknown"},
		{MatchEntity: "ZURICH VIDA", MatchExtra: []string{"300002290"}, NewEntity: "zurich", NewExtra: "vida 300002290"},
		{MatchEntity: "ZURICH VIDA", MatchExtra: []string{"300002289"}, NewEntity: "zurich", NewExtra: "vida 300002289"},
		{MatchEntity: "AQUALOGY", NewEntity: "agua", NewExtra: "contador"},
		{MatchEntity: "AIGUES DE BARCELONA", NewEntity: "agua", NewExtra: "suministro"},
		{MatchEntity: "AJUNTAMENT DE BARCELONA", MatchExtra: []string{"IBI"}, NewEntity: "ajuntament", NewExtra: "ibi ciencies"},
		{MatchEntity: "AJUNTAMENT DE BARCELONA", MatchExtra: []string{"IMPOST VEHICLES", "0005CVV"}, NewEntity: "ajuntament", NewExtra: "ivtm coche c3"},
		{MatchEntity: "SPORT I RELAX S.L.", NewEntity: "gym", NewExtra: "niña"},
	}
}
