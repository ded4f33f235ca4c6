// Moodchat - Mood-Aware Conversational Companion
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodchat

package emotion

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ScoresMarker introduces the score block in model output.
const ScoresMarker = "Emotion Probabilities:"

// normalizeTolerance is how far from 100 a total may drift before rescaling.
const normalizeTolerance = 1.0

// Scores maps every canonical emotion to a percentage in [0, 100].
type Scores map[Emotion]float64

// NewScores returns a map with every canonical emotion set to 0.
func NewScores() Scores {
	s := make(Scores, len(all))
	for _, e := range all {
		s[e] = 0
	}
	return s
}

// NeutralScores is the fallback distribution: neutral 100, everything else 0.
func NeutralScores() Scores {
	s := NewScores()
	s[Neutral] = 100
	return s
}

// Total returns the sum of all scores.
func (s Scores) Total() float64 {
	var t float64
	for _, v := range s {
		t += v
	}
	return t
}

// IsNeutralFallback reports whether s is exactly the all-neutral fallback.
func (s Scores) IsNeutralFallback() bool {
	for _, e := range all {
		want := 0.0
		if e == Neutral {
			want = 100
		}
		if s[e] != want {
			return false
		}
	}
	return true
}

// Clone returns an independent copy.
func (s Scores) Clone() Scores {
	out := make(Scores, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Format renders s in the canonical block that Parse accepts, one line per
// emotion in canonical order.
func (s Scores) Format() string {
	var b strings.Builder
	b.WriteString(ScoresMarker)
	for _, e := range all {
		fmt.Fprintf(&b, "\n%s: %s%%", e, strconv.FormatFloat(s[e], 'f', -1, 64))
	}
	return b.String()
}

// ParseReport describes how a raw model response was interpreted.
type ParseReport struct {
	// MarkerFound is false when the response lacked ScoresMarker and the
	// whole text was scanned instead. Results are low confidence.
	MarkerFound bool
	Parsed      int
	Skipped     int
	Total       float64
	Normalized  bool
	// Empty is set when no usable score was found and the neutral
	// fallback was applied.
	Empty bool
}

// Parse converts a model's free-form emotion scoring response into Scores.
// It never fails: malformed lines are skipped and a response without any
// usable score yields NeutralScores. Repeated lines for one emotion are
// summed. Totals that cannot be rescaled to 100 also yield NeutralScores.
func Parse(raw string) Scores {
	s, _ := ParseWithReport(raw)
	return s
}

// ParseWithReport is Parse plus diagnostics for logging.
func ParseWithReport(raw string) (Scores, ParseReport) {
	var report ParseReport

	payload := raw
	if idx := strings.LastIndex(raw, ScoresMarker); idx >= 0 {
		report.MarkerFound = true
		payload = raw[idx+len(ScoresMarker):]
	}

	scores := NewScores()
	for _, line := range strings.Split(strings.TrimSpace(payload), "\n") {
		label, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		e, known := Lookup(label)
		pct, err := parsePercent(value)
		if err != nil {
			report.Skipped++
			continue
		}
		if !known {
			continue
		}
		scores[e] += pct
		report.Total += pct
		report.Parsed++
	}

	if report.Total == 0 || math.IsInf(report.Total, 0) {
		report.Empty = true
		return NeutralScores(), report
	}
	if math.Abs(report.Total-100) > normalizeTolerance {
		// A subnormal total overflows the factor.
		factor := 100 / report.Total
		if math.IsInf(factor, 0) {
			report.Empty = true
			return NeutralScores(), report
		}
		report.Normalized = true
		for e := range scores {
			scores[e] *= factor
		}
		if math.Abs(scores.Total()-100) > normalizeTolerance {
			report.Empty = true
			return NeutralScores(), report
		}
	}
	return scores, report
}

// parsePercent accepts "42", "42%", " 42.5 % ". Negative and non-finite
// values are rejected.
func parsePercent(value string) (float64, error) {
	v := strings.TrimSpace(value)
	v = strings.TrimSpace(strings.TrimSuffix(v, "%"))
	pct, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, err
	}
	if pct < 0 || math.IsNaN(pct) || math.IsInf(pct, 0) {
		return 0, fmt.Errorf("percentage %q out of range", value)
	}
	return pct, nil
}

// ScoringPrompt asks the model to distribute 100 percent across the
// canonical emotions for text.
func ScoringPrompt(text string) string {
	return fmt.Sprintf(`
Analyze the user's text and assign a percentage score to each emotion in the list: %s.
The percentages must sum to 100%%. Format the output strictly as:
%s
emotion1: X%%
emotion2: Y%%
...
User Input: %q
`, strings.Join(Strings(all[:]), ", "), ScoresMarker, text)
}
