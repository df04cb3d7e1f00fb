package maps

import (
	"strings"
	"unicode"

	"ow2stats/internal/constants"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	Control    = "control"
	Escort     = "escort"
	Hybrid     = "hybrid"
	Push       = "push"
	Flashpoint = "flashpoint"
	Clash      = "clash"
)

// keys are normalized with Normalize
var mapTypes = map[string]string{
	"antarctic peninsula": Control,
	"busan":               Control,
	"ilios":               Control,
	"lijiang tower":       Control,
	"nepal":               Control,
	"oasis":               Control,
	"samoa":               Control,

	"circuit royal":         Escort,
	"dorado":                Escort,
	"havana":                Escort,
	"junkertown":            Escort,
	"rialto":                Escort,
	"route 66":              Escort,
	"shambali monastery":    Escort,
	"watchpoint: gibraltar": Escort,
	"gibraltar":             Escort,

	"blizzard world": Hybrid,
	"eichenwalde":    Hybrid,
	"hollywood":      Hybrid,
	"kings row":      Hybrid,
	"midtown":        Hybrid,
	"numbani":        Hybrid,
	"paraiso":        Hybrid,

	"colosseo":         Push,
	"esperanca":        Push,
	"new queen street": Push,
	"runasapi":         Push,

	"aatlis":        Flashpoint,
	"new junk city": Flashpoint,
	"suravasa":      Flashpoint,

	"hanaoka":          Clash,
	"throne of anubis": Clash,
}

// Type returns the mode category of a map, or "" when the map is unknown.
func Type(name string) string {
	return mapTypes[Normalize(name)]
}

// Normalize lower-cases name and strips surrounding space, accents and
// apostrophes.
func Normalize(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, name)
	if err != nil {
		folded = name
	}
	folded = strings.NewReplacer("'", "", "’", "", "`", "").Replace(folded)
	return strings.ToLower(strings.TrimSpace(folded))
}

// Token is the value of the stats API "map" query parameter.
func Token(name string) string {
	if name == constants.AllMaps {
		return constants.AllMapsToken
	}
	return strings.ReplaceAll(strings.ToLower(name), " ", "-")
}
