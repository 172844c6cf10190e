// Package censor provides text-level content annotation: profanity marking
// and repetition cleanup. Both are pure string transforms over segments.
package censor

import (
	"regexp"
	"strings"

	"github.com/ananta-sj/ReFlow/internal/types"
)

// BeepMarker is appended to a segment's text when it trips the word list.
// Subtitle rendering rewrites it for display; the synthesizer reads it out,
// which is the intended behavior.
const BeepMarker = " [BEEP]"

// Matcher checks text against a word list, whole words, case-insensitively.
type Matcher struct {
	words map[string]struct{}
}

var tokenRE = regexp.MustCompile(`[\p{L}\p{N}']+`)

func NewMatcher(words []string) *Matcher {
	m := &Matcher{words: make(map[string]struct{}, len(words))}
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			m.words[w] = struct{}{}
		}
	}
	return m
}

// Contains reports whether text contains any listed word.
func (m *Matcher) Contains(text string) bool {
	return len(m.Found(text)) > 0
}

// Found returns the listed words present in text, in order of appearance.
func (m *Matcher) Found(text string) []string {
	if len(m.words) == 0 {
		return nil
	}
	var out []string
	for _, tok := range tokenRE.FindAllString(text, -1) {
		if _, ok := m.words[strings.ToLower(tok)]; ok {
			out = append(out, tok)
		}
	}
	return out
}

// Annotate returns a new segment list with BeepMarker appended to every
// segment whose text trips the matcher.
func (m *Matcher) Annotate(segments []types.Segment) []types.Segment {
	out := make([]types.Segment, len(segments))
	copy(out, segments)
	for i := range out {
		if m.Contains(out[i].Text) && !strings.Contains(out[i].Text, strings.TrimSpace(BeepMarker)) {
			out[i].Text += BeepMarker
		}
	}
	return out
}

var phraseSplitRE = regexp.MustCompile(`[.,;।]+`)

// CleanRepetitiveText collapses phrases repeated more than three times within
// one text. Machine translation of short looping speech tends to emit the
// same clause over and over; humans only need it once.
func CleanRepetitiveText(text string) string {
	if text == "" {
		return ""
	}
	raw := phraseSplitRE.Split(text, -1)
	phrases := make([]string, 0, len(raw))
	for _, p := range raw {
		if p = strings.TrimSpace(p); p != "" {
			phrases = append(phrases, p)
		}
	}
	if len(phrases) == 0 {
		return text
	}

	counts := make(map[string]int, len(phrases))
	for _, p := range phrases {
		counts[p]++
	}

	seen := make(map[string]struct{})
	cleaned := make([]string, 0, len(phrases))
	changed := false
	for _, p := range phrases {
		if counts[p] > 3 {
			if _, ok := seen[p]; ok {
				changed = true
				continue
			}
			seen[p] = struct{}{}
			changed = true
		}
		cleaned = append(cleaned, p)
	}
	if !changed {
		return text
	}
	return strings.Join(cleaned, "। ") + "।"
}
