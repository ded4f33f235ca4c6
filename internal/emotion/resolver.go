// Moodchat - Mood-Aware Conversational Companion
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodchat

package emotion

import "sort"

// Resolve reduces candidates to a mutually compatible subset ordered by
// descending score.
//
// Candidates are admitted greedily in the order given. A candidate that
// conflicts with an accepted emotion of strictly lower score evicts it; any
// other conflict (lower or equal score) discards the candidate, so on ties
// the earlier emotion wins. The admission pass runs twice, the second time
// over the survivors of the first, and the result is stable-sorted so equal
// scores keep first-seen order.
//
// Duplicate and non-canonical candidates are dropped.
func Resolve(scores Scores, candidates []Emotion) []Emotion {
	working := dedupe(candidates)
	resolved := admit(scores, admit(scores, working))
	sort.SliceStable(resolved, func(i, j int) bool {
		return scores[resolved[i]] > scores[resolved[j]]
	})
	return resolved
}

// admit runs one accept/evict pass.
func admit(scores Scores, working []Emotion) []Emotion {
	accepted := make([]Emotion, 0, len(working))
	for _, cand := range working {
		keep := true
		// Evictions below mutate accepted; walk a snapshot.
		snapshot := append([]Emotion(nil), accepted...)
		for _, prev := range snapshot {
			if !Conflicts(cand, prev) {
				continue
			}
			if scores[prev] < scores[cand] {
				accepted = remove(accepted, prev)
				continue
			}
			keep = false
			break
		}
		if keep {
			accepted = append(accepted, cand)
		}
	}
	return accepted
}

func dedupe(in []Emotion) []Emotion {
	seen := make(map[Emotion]struct{}, len(in))
	out := make([]Emotion, 0, len(in))
	for _, e := range in {
		if !e.Valid() {
			continue
		}
		if _, dup := seen[e]; dup {
			continue
		}
		seen[e] = struct{}{}
		out = append(out, e)
	}
	return out
}

func remove(list []Emotion, target Emotion) []Emotion {
	for i, e := range list {
		if e == target {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}
