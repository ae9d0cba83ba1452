package language

import "strings"

// Selection is a target language chosen by the client. SelectionNone means
// no translation is wanted.
type Selection int

const (
	SelectionNone Selection = iota
	SelectionEnglish
	SelectionHindi
	SelectionMarathi
)

var selectionLabels = []struct {
	label     string
	selection Selection
}{
	{"Select", SelectionNone},
	{"English", SelectionEnglish},
	{"Hindi", SelectionHindi},
	{"Marathi", SelectionMarathi},
}

// ParseSelection resolves a client-supplied label. Matching ignores case and
// surrounding whitespace. Unrecognized labels yield SelectionNone with ok=false.
func ParseSelection(label string) (Selection, bool) {
	label = strings.TrimSpace(label)
	for _, candidate := range selectionLabels {
		if strings.EqualFold(candidate.label, label) {
			return candidate.selection, true
		}
	}
	return SelectionNone, false
}

// Code returns the ISO 639-1 code for the selection, or empty for none.
func (s Selection) Code() string {
	switch s {
	case SelectionEnglish:
		return "en"
	case SelectionHindi:
		return "hi"
	case SelectionMarathi:
		return "mr"
	default:
		return ""
	}
}

// Label returns the client-facing label.
func (s Selection) Label() string {
	for _, candidate := range selectionLabels {
		if candidate.selection == s {
			return candidate.label
		}
	}
	return "Select"
}

// IsNone reports whether the selection requests no translation.
func (s Selection) IsNone() bool { return s.Code() == "" }

// Labels lists the accepted labels in display order.
func Labels() []string {
	out := make([]string, 0, len(selectionLabels))
	for _, candidate := range selectionLabels {
		out = append(out, candidate.label)
	}
	return out
}
