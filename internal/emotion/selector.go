// Moodchat - Mood-Aware Conversational Companion
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodchat

package emotion

import "sort"

// DefaultThreshold is the minimum percentage for an emotion to count as
// significant on its own.
const DefaultThreshold = 30.0

// fallbackTopN is how many positive emotions are considered when none
// reach the threshold.
const fallbackTopN = 3

// Select returns the significant emotions for scores: every emotion at or
// above threshold, or failing that the top three positive ones, passed
// through Resolve. The result is never empty; with no positive score it is
// [neutral].
func Select(scores Scores, threshold float64) []Emotion {
	if len(scores) == 0 {
		return []Emotion{Neutral}
	}

	ranked := rank(scores)

	var candidates []Emotion
	for _, e := range ranked {
		if scores[e] >= threshold {
			candidates = append(candidates, e)
		}
	}
	if len(candidates) == 0 {
		for _, e := range ranked {
			if len(candidates) == fallbackTopN {
				break
			}
			if scores[e] > 0 {
				candidates = append(candidates, e)
			}
		}
	}
	if len(candidates) == 0 {
		return []Emotion{Neutral}
	}

	if resolved := Resolve(scores, candidates); len(resolved) > 0 {
		return resolved
	}

	if top := ranked[0]; scores[top] > 0 {
		return []Emotion{top}
	}
	return []Emotion{Neutral}
}

// rank orders the canonical emotions present in scores by descending score,
// canonical order breaking ties.
func rank(scores Scores) []Emotion {
	out := make([]Emotion, 0, len(scores))
	for _, e := range all {
		if _, ok := scores[e]; ok {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return scores[out[i]] > scores[out[j]]
	})
	return out
}
