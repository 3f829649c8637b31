// Package profile implements the profile data model and the profile
// classifier: mapping a DSTV profile code and material tag to a
// ProfileKind variant, by case-insensitive prefix match.
package profile

import "strings"

// Kind enumerates the supported profile families.
type Kind uint8

const (
	Unknown Kind = iota
	IProfile
	HProfile
	UProfile
	LProfile
	RectTube
	SquareTube
	RoundTube
	Plate
	FlatBar
	RoundBar
)

// String returns a human-readable kind name.
func (k Kind) String() string {
	switch k {
	case IProfile:
		return "IProfile"
	case HProfile:
		return "HProfile"
	case UProfile:
		return "UProfile"
	case LProfile:
		return "LProfile"
	case RectTube:
		return "RectTube"
	case SquareTube:
		return "SquareTube"
	case RoundTube:
		return "RoundTube"
	case Plate:
		return "Plate"
	case FlatBar:
		return "FlatBar"
	case RoundBar:
		return "RoundBar"
	default:
		return "Unknown"
	}
}

// Dimensions holds the stock piece's physical extents, in millimeters.
// Fields not applicable to a given Kind are left at zero.
type Dimensions struct {
	Length          float64
	Height          float64
	Width           float64
	Thickness       float64
	WebThickness    float64
	FlangeThickness float64
	WallThickness   float64
}

// Profile is an immutable descriptor of the stock piece, created once per
// part and never mutated.
type Profile struct {
	Kind       Kind
	Dimensions Dimensions
	Code       string
	Material   string
}

// New classifies code/material and returns the resulting Profile.
func New(code, material string, dims Dimensions) Profile {
	return Profile{
		Kind:       Classify(code, material),
		Dimensions: dims,
		Code:       code,
		Material:   material,
	}
}

// prefixRule is one entry of the ordered classification table.
type prefixRule struct {
	prefix string
	kind   Kind
}

// codeRules maps profile-code prefixes to kinds, checked in order so that
// longer, more specific prefixes (e.g. "CHS" before "C", "UBP" before
// "UB") are never shadowed by shorter ones.
var codeRules = []prefixRule{
	{"IPE", IProfile}, {"IPN", IProfile}, {"HEA", IProfile}, {"HEB", IProfile},
	{"HEM", IProfile}, {"HD", IProfile}, {"HP", IProfile}, {"W", IProfile},
	{"UBP", IProfile}, {"UB", IProfile}, {"UC", IProfile},
	{"UPN", UProfile}, {"UAP", UProfile}, {"UPE", UProfile},
	{"L", LProfile},
	{"CHS", RoundTube}, {"ROR", RoundTube},
	{"SHS", SquareTube},
	{"RHS", RectTube},
	{"C", UProfile},
}

// materialRules is the fallback table keyed on the material tag.
var materialRules = []prefixRule{
	{"Tube", RectTube},
	{"Plate", Plate},
	{"Sheet", Plate},
	{"Bar/RO", RoundBar},
	{"Beam", IProfile},
	{"Bar", FlatBar},
}

// Classify maps a profile code and material tag to a Kind. Code prefixes
// are matched case-insensitively in codeRules order: the first match
// wins, which is why longer/more specific prefixes are listed before
// shorter ones that would otherwise shadow them (e.g. the channel-family
// "C" is tried last, after the tube prefix "CHS"). If no code
// prefix matches, the material tag is tried in materialRules order.
// Classify never fails: an unmatched code and material falls back to
// Unknown.
func Classify(code, material string) Kind {
	upper := strings.ToUpper(strings.TrimSpace(code))
	for _, r := range codeRules {
		if strings.HasPrefix(upper, strings.ToUpper(r.prefix)) {
			return r.kind
		}
	}
	for _, r := range materialRules {
		if strings.EqualFold(material, r.prefix) {
			return r.kind
		}
	}
	return Unknown
}
