// Moodchat - Mood-Aware Conversational Companion
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodchat

package emotion

import (
	"math/rand"
	"reflect"
	"testing"
)

func scoresOf(m map[Emotion]float64) Scores {
	s := NewScores()
	for k, v := range m {
		s[k] = v
	}
	return s
}

func TestConflictsIsSymmetric(t *testing.T) {
	t.Parallel()

	pairs := [][2]Emotion{
		{Happiness, Sadness}, {Joy, Anger}, {Calmness, Stress}, {Love, Loneliness},
		{Excitement, Tiredness}, {Gratitude, Guilt}, {Neutral, Fear},
	}
	for _, p := range pairs {
		if !Conflicts(p[0], p[1]) || !Conflicts(p[1], p[0]) {
			t.Errorf("Conflicts(%s, %s) should hold in both directions", p[0], p[1])
		}
	}
	if Conflicts(Happiness, Joy) {
		t.Error("happiness and joy should be compatible")
	}
	if Conflicts(Sadness, Loneliness) {
		t.Error("sadness and loneliness should be compatible")
	}
}

func TestResolve(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		scores     map[Emotion]float64
		candidates []Emotion
		want       []Emotion
	}{
		{
			name:       "single candidate",
			scores:     map[Emotion]float64{Happiness: 80, Sadness: 5, Neutral: 15},
			candidates: []Emotion{Happiness},
			want:       []Emotion{Happiness},
		},
		{
			name:       "higher score wins a conflict",
			scores:     map[Emotion]float64{Happiness: 40, Sadness: 35, Neutral: 25},
			candidates: []Emotion{Happiness, Sadness},
			want:       []Emotion{Happiness},
		},
		{
			name:       "later higher candidate evicts earlier",
			scores:     map[Emotion]float64{Happiness: 35, Sadness: 45},
			candidates: []Emotion{Happiness, Sadness},
			want:       []Emotion{Sadness},
		},
		{
			name:       "reverse edge counts as conflict",
			scores:     map[Emotion]float64{Sadness: 50, Neutral: 40},
			candidates: []Emotion{Sadness, Neutral},
			want:       []Emotion{Sadness},
		},
		{
			name:       "equal scores keep first seen",
			scores:     map[Emotion]float64{Joy: 50, Anger: 50},
			candidates: []Emotion{Anger, Joy},
			want:       []Emotion{Anger},
		},
		{
			name:       "equal scores keep first seen reversed",
			scores:     map[Emotion]float64{Joy: 50, Anger: 50},
			candidates: []Emotion{Joy, Anger},
			want:       []Emotion{Joy},
		},
		{
			name:       "compatible emotions sorted by score",
			scores:     map[Emotion]float64{Sadness: 31, Loneliness: 40, Tiredness: 29},
			candidates: []Emotion{Sadness, Tiredness, Loneliness},
			want:       []Emotion{Loneliness, Sadness, Tiredness},
		},
		{
			name:       "compatible ties keep candidate order",
			scores:     map[Emotion]float64{Stress: 35, Anxiety: 35},
			candidates: []Emotion{Anxiety, Stress},
			want:       []Emotion{Anxiety, Stress},
		},
		{
			name:       "one candidate evicts several",
			scores:     map[Emotion]float64{Anger: 30, Guilt: 30, Gratitude: 40},
			candidates: []Emotion{Anger, Guilt, Gratitude},
			want:       []Emotion{Gratitude},
		},
		{
			name:       "duplicates and unknown labels dropped",
			scores:     map[Emotion]float64{Calmness: 60},
			candidates: []Emotion{Calmness, "nostalgia", Calmness},
			want:       []Emotion{Calmness},
		},
		{
			name:       "empty input",
			scores:     map[Emotion]float64{Neutral: 100},
			candidates: nil,
			want:       []Emotion{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Resolve(scoresOf(tt.scores), tt.candidates)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Resolve() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestResolveProperties checks the output invariants over random inputs:
// no two returned emotions conflict, the list is sorted by descending
// score, and every returned emotion was a candidate.
func TestResolveProperties(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(20260101))
	for iter := 0; iter < 2000; iter++ {
		scores := NewScores()
		var candidates []Emotion
		for _, e := range all {
			// Coarse values so ties are common.
			scores[e] = float64(rng.Intn(6) * 10)
			if rng.Intn(3) == 0 {
				candidates = append(candidates, e)
			}
		}
		rng.Shuffle(len(candidates), func(i, j int) {
			candidates[i], candidates[j] = candidates[j], candidates[i]
		})

		got := Resolve(scores, candidates)

		inCandidates := make(map[Emotion]bool, len(candidates))
		for _, c := range candidates {
			inCandidates[c] = true
		}
		for i, a := range got {
			if !inCandidates[a] {
				t.Fatalf("iter %d: %s returned but not a candidate", iter, a)
			}
			for _, b := range got[i+1:] {
				if Conflicts(a, b) {
					t.Fatalf("iter %d: output %v contains conflicting pair %s/%s", iter, got, a, b)
				}
			}
			if i > 0 && scores[got[i-1]] < scores[a] {
				t.Fatalf("iter %d: output %v not sorted by score", iter, got)
			}
		}
		if len(candidates) > 0 && len(got) == 0 {
			t.Fatalf("iter %d: non-empty candidates %v resolved to nothing", iter, candidates)
		}
	}
}

func TestResolveDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	candidates := []Emotion{Happiness, Sadness, Stress}
	orig := append([]Emotion(nil), candidates...)
	Resolve(scoresOf(map[Emotion]float64{Happiness: 10, Sadness: 50, Stress: 40}), candidates)
	if !reflect.DeepEqual(candidates, orig) {
		t.Errorf("candidates mutated: %v", candidates)
	}
}
