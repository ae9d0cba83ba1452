package textutil

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Measure reports the size of a string in some unit (runes, bytes).
type Measure func(string) int

// RuneCount measures strings in runes.
func RuneCount(s string) int { return utf8.RuneCountInString(s) }

// ByteCount measures strings in bytes.
func ByteCount(s string) int { return len(s) }

// Chunk splits text into pieces no larger than limit as reported by measure.
// Words are packed greedily and joined by single spaces; a word larger than
// limit is split on rune boundaries. Whitespace-only input yields nil.
func Chunk(text string, limit int, measure Measure) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	if limit <= 0 {
		return []string{strings.Join(words, " ")}
	}
	if measure == nil {
		measure = RuneCount
	}

	var chunks []string
	var current strings.Builder
	flush := func() {
		if current.Len() > 0 {
			chunks = append(chunks, current.String())
			current.Reset()
		}
	}

	for _, word := range words {
		if measure(word) > limit {
			flush()
			chunks = append(chunks, splitWord(word, limit, measure)...)
			continue
		}
		if current.Len() == 0 {
			current.WriteString(word)
			continue
		}
		if measure(current.String()+" "+word) > limit {
			flush()
			current.WriteString(word)
			continue
		}
		current.WriteByte(' ')
		current.WriteString(word)
	}
	flush()
	return chunks
}

func splitWord(word string, limit int, measure Measure) []string {
	var parts []string
	var current strings.Builder
	for _, r := range word {
		next := current.String() + string(r)
		if current.Len() > 0 && measure(next) > limit {
			parts = append(parts, current.String())
			current.Reset()
		}
		current.WriteRune(r)
	}
	if current.Len() > 0 {
		parts = append(parts, current.String())
	}
	return parts
}

// Piece is a run of text together with the separator that followed it in the
// source, so pieces can be reassembled without losing line breaks.
type Piece struct {
	Text string
	Sep  string
}

// SplitSentences splits text into pieces no larger than limit, breaking only
// where a whitespace run follows a sentence terminator or contains a newline.
// Separators are kept verbatim in Piece.Sep and leading whitespace is returned
// as lead. A single sentence larger than limit falls back to Chunk.
func SplitSentences(text string, limit int, measure Measure) (lead string, pieces []Piece) {
	body := strings.TrimLeftFunc(text, unicode.IsSpace)
	lead = text[:len(text)-len(body)]
	if body == "" {
		return lead, nil
	}
	if measure == nil {
		measure = RuneCount
	}

	var current Piece
	open := false
	flush := func() {
		if open {
			pieces = append(pieces, current)
			current = Piece{}
			open = false
		}
	}
	for _, unit := range sentenceUnits(body) {
		if limit > 0 && measure(unit.Text) > limit {
			flush()
			words := Chunk(unit.Text, limit, measure)
			for i, word := range words {
				sep := " "
				if i == len(words)-1 {
					sep = unit.Sep
				}
				pieces = append(pieces, Piece{Text: word, Sep: sep})
			}
			continue
		}
		if open {
			joined := current.Text + current.Sep + unit.Text
			if limit <= 0 || measure(joined) <= limit {
				current = Piece{Text: joined, Sep: unit.Sep}
				continue
			}
			flush()
		}
		current = unit
		open = true
	}
	flush()
	return lead, pieces
}

func sentenceUnits(text string) []Piece {
	var units []Piece
	start, i := 0, 0
	for i < len(text) {
		r, size := utf8.DecodeRuneInString(text[i:])
		if !unicode.IsSpace(r) {
			i += size
			continue
		}
		j := i
		for j < len(text) {
			next, n := utf8.DecodeRuneInString(text[j:])
			if !unicode.IsSpace(next) {
				break
			}
			j += n
		}
		ws := text[i:j]
		prev, _ := utf8.DecodeLastRuneInString(text[start:i])
		if j == len(text) || strings.ContainsRune(ws, '\n') || isTerminator(prev) {
			units = append(units, Piece{Text: text[start:i], Sep: ws})
			start = j
		}
		i = j
	}
	if start < len(text) {
		units = append(units, Piece{Text: text[start:]})
	}
	return units
}

func isTerminator(r rune) bool {
	switch r {
	case '.', '!', '?', '।', '॥':
		return true
	}
	return false
}
