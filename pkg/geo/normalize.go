// Package geo reconciles French region and department names across data
// sources and indexes the administrative boundary polygons.
package geo

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Kind selects the equivalence table used by Normalize.
type Kind int

const (
	KindRegion Kind = iota
	KindDepartment
)

func (k Kind) String() string {
	switch k {
	case KindRegion:
		return "region"
	case KindDepartment:
		return "department"
	default:
		return "unknown"
	}
}

// ParseKind maps "region"/"department" (and their French names) to a Kind.
func ParseKind(s string) (Kind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "region", "région", "reg":
		return KindRegion, true
	case "department", "departement", "département", "dep", "dept":
		return KindDepartment, true
	default:
		return KindRegion, false
	}
}

var stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Clean lowercases, strips diacritics, straightens curly apostrophes and
// collapses whitespace. It does not consult the equivalence tables.
func Clean(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return ""
	}
	s, _, _ = transform.String(stripAccents, s)
	s = strings.ReplaceAll(s, "’", "'")
	return strings.Join(strings.Fields(s), " ")
}

// Normalize returns the canonical lookup key for a region or department name.
// Unknown names come back cleaned but unmapped. Empty input yields "".
//
// Every value in the equivalence tables is itself a cleaned, unmapped string,
// so Normalize(Normalize(x)) == Normalize(x).
func Normalize(raw string, kind Kind) string {
	c := Clean(raw)
	if c == "" {
		return ""
	}
	if canonical, ok := equivalences(kind)[c]; ok {
		return canonical
	}
	return c
}

// SameName reports whether two names normalize to the same non-empty key.
func SameName(a, b string, kind Kind) bool {
	ka := Normalize(a, kind)
	return ka != "" && ka == Normalize(b, kind)
}

func equivalences(kind Kind) map[string]string {
	if kind == KindDepartment {
		return departmentEquiv
	}
	return regionEquiv
}

// regionEquiv maps cleaned spelling variants to the cleaned form of the
// boundary dataset's region name.
var regionEquiv = map[string]string{
	"auvergne et rhone-alpes":    "auvergne-rhone-alpes",
	"auvergne rhone alpes":       "auvergne-rhone-alpes",
	"auvergne-rhone alpes":       "auvergne-rhone-alpes",
	"bourgogne et franche-comte": "bourgogne-franche-comte",
	"bourgogne et franche comte": "bourgogne-franche-comte",
	"bourgogne franche comte":    "bourgogne-franche-comte",
	"centre val de loire":        "centre-val de loire",
	"centre-val-de-loire":        "centre-val de loire",
	"grand-est":                  "grand est",
	"hauts de france":            "hauts-de-france",
	"ile de france":              "ile-de-france",
	"nouvelle aquitaine":         "nouvelle-aquitaine",
	"pays-de-la-loire":           "pays de la loire",
	"provence alpes cote d azur": "provence-alpes-cote d'azur",
	"provence-alpes-cote d azur": "provence-alpes-cote d'azur",
	"provence-alpes-cote-d'azur": "provence-alpes-cote d'azur",
	"paca":                       "provence-alpes-cote d'azur",
	"reunion":                    "la reunion",
	"la-reunion":                 "la reunion",
}

// departmentEquiv is the department counterpart of regionEquiv.
var departmentEquiv = map[string]string{
	"alpes de haute provence": "alpes-de-haute-provence",
	"alpes maritimes":         "alpes-maritimes",
	"bouches du rhone":        "bouches-du-rhone",
	"cote d or":               "cote-d'or",
	"cote d'or":               "cote-d'or",
	"cotes d armor":           "cotes-d'armor",
	"cotes d'armor":           "cotes-d'armor",
	"haute corse":             "haute-corse",
	"corse du sud":            "corse-du-sud",
	"ille et vilaine":         "ille-et-vilaine",
	"indre et loire":          "indre-et-loire",
	"loire atlantique":        "loire-atlantique",
	"maine et loire":          "maine-et-loire",
	"meurthe et moselle":      "meurthe-et-moselle",
	"pyrenees atlantiques":    "pyrenees-atlantiques",
	"pyrenees orientales":     "pyrenees-orientales",
	"haut rhin":               "haut-rhin",
	"bas rhin":                "bas-rhin",
	"haute garonne":           "haute-garonne",
	"haute saone":             "haute-saone",
	"haute savoie":            "haute-savoie",
	"haute vienne":            "haute-vienne",
	"haute loire":             "haute-loire",
	"haute marne":             "haute-marne",
	"hautes alpes":            "hautes-alpes",
	"hautes pyrenees":         "hautes-pyrenees",
	"charente maritime":       "charente-maritime",
	"deux sevres":             "deux-sevres",
	"eure et loir":            "eure-et-loir",
	"loir et cher":            "loir-et-cher",
	"lot et garonne":          "lot-et-garonne",
	"pas de calais":           "pas-de-calais",
	"puy de dome":             "puy-de-dome",
	"saone et loire":          "saone-et-loire",
	"seine et marne":          "seine-et-marne",
	"seine maritime":          "seine-maritime",
	"seine saint denis":       "seine-saint-denis",
	"tarn et garonne":         "tarn-et-garonne",
	"val d oise":              "val-d'oise",
	"val d'oise":              "val-d'oise",
	"val de marne":            "val-de-marne",
	"hauts de seine":          "hauts-de-seine",
	"territoire-de-belfort":   "territoire de belfort",
	"reunion":                 "la reunion",
	"la-reunion":              "la reunion",
}
