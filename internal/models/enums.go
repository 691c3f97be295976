package models

import "strings"

const (
	GenderMale   = "male"
	GenderFemale = "female"
)

// List labels shown on the two admin boards.
const (
	ListMale   = "רווקים"
	ListFemale = "רווקות"
)

// ListForGender returns the display list a participant of the given gender belongs to.
func ListForGender(gender string) string {
	switch gender {
	case GenderMale:
		return ListMale
	case GenderFemale:
		return ListFemale
	}
	return ""
}

// Enum is a closed set of codes. Aliases map the labels the form client
// submits onto their code.
type Enum struct {
	codes   map[string]struct{}
	aliases map[string]string
}

func newEnum(codes []string, aliases map[string]string) Enum {
	e := Enum{
		codes:   make(map[string]struct{}, len(codes)),
		aliases: aliases,
	}
	for _, c := range codes {
		e.codes[c] = struct{}{}
	}
	return e
}

// Normalize trims s and resolves a known alias to its code. Unknown values
// are returned trimmed so validation can reject them.
func (e Enum) Normalize(s string) string {
	s = strings.TrimSpace(s)
	if code, ok := e.aliases[s]; ok {
		return code
	}
	return s
}

func (e Enum) Contains(s string) bool {
	_, ok := e.codes[s]
	return ok
}

var (
	Genders = newEnum([]string{GenderMale, GenderFemale}, map[string]string{
		"גבר":  GenderMale,
		"אישה": GenderFemale,
	})

	MaritalStatuses = newEnum(
		[]string{"single", "divorced", "divorced-with-children", "widowed"},
		map[string]string{
			"רווק/ה":          "single",
			"גרוש/ה":          "divorced",
			"גרוש עם ילדים":   "divorced-with-children",
			"גרוש/ה עם ילדים": "divorced-with-children",
			"אלמן/ה":          "widowed",
		},
	)

	// Religiosities includes the blank code; an empty value is stored as absent.
	Religiosities = newEnum(
		[]string{"secular", "traditional", "religious", "haredi", "other", ""},
		map[string]string{
			"חילוני": "secular",
			"מסורתי": "traditional",
			"דתי":    "religious",
			"חרדי":   "haredi",
			"אחר":    "other",
		},
	)

	HeightBuckets = newEnum(
		[]string{"low", "medium", "high", ""},
		map[string]string{
			"נמוך":   "low",
			"בינוני": "medium",
			"גבוה":   "high",
		},
	)

	EventConnections = newEnum(
		[]string{"groom-side", "bride-side", "groom-friend", "bride-friend", "family", "unknown", ""},
		map[string]string{
			"צד החתן":       "groom-side",
			"צד הכלה":       "bride-side",
			"חבר/ת של החתן": "groom-friend",
			"חבר/ת של הכלה": "bride-friend",
			"משפחה":         "family",
			"לא יודע/ת":     "unknown",
		},
	)
)
