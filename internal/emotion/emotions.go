// Moodchat - Mood-Aware Conversational Companion
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodchat

package emotion

import "strings"

// Emotion is one of the canonical emotion labels.
type Emotion string

// Canonical emotions.
const (
	Happiness   Emotion = "happiness"
	Sadness     Emotion = "sadness"
	Anger       Emotion = "anger"
	Stress      Emotion = "stress"
	Anxiety     Emotion = "anxiety"
	Fear        Emotion = "fear"
	Joy         Emotion = "joy"
	Frustration Emotion = "frustration"
	Boredom     Emotion = "boredom"
	Calmness    Emotion = "calmness"
	Excitement  Emotion = "excitement"
	Loneliness  Emotion = "loneliness"
	Confusion   Emotion = "confusion"
	Tiredness   Emotion = "tiredness"
	Motivation  Emotion = "motivation"
	Guilt       Emotion = "guilt"
	Love        Emotion = "love"
	Gratitude   Emotion = "gratitude"
	Neutral     Emotion = "neutral"
)

// all is the canonical order. Every deterministic iteration over emotions
// (prompt rendering, threshold selection, fallbacks) follows it.
var all = [...]Emotion{
	Happiness, Sadness, Anger, Stress, Anxiety, Fear, Joy,
	Frustration, Boredom, Calmness, Excitement, Loneliness,
	Confusion, Tiredness, Motivation, Guilt, Love, Gratitude, Neutral,
}

var known = func() map[Emotion]int {
	m := make(map[Emotion]int, len(all))
	for i, e := range all {
		m[e] = i
	}
	return m
}()

// All returns the canonical emotions in canonical order.
func All() []Emotion {
	out := make([]Emotion, len(all))
	copy(out, all[:])
	return out
}

// Lookup normalizes a label (trim, lowercase) and reports whether it names a
// canonical emotion.
func Lookup(label string) (Emotion, bool) {
	e := Emotion(strings.ToLower(strings.TrimSpace(label)))
	_, ok := known[e]
	return e, ok
}

// Valid reports whether e is canonical.
func (e Emotion) Valid() bool {
	_, ok := known[e]
	return ok
}

func (e Emotion) String() string { return string(e) }

// Title returns the label with its first letter upper-cased ("Sadness").
func (e Emotion) Title() string {
	if e == "" {
		return ""
	}
	s := string(e)
	return strings.ToUpper(s[:1]) + s[1:]
}

// incompatible holds the declared conflict edges. The table is one-directional
// as written; Conflicts checks both directions.
var incompatible = map[Emotion][]Emotion{
	Happiness:  {Sadness, Stress, Anxiety},
	Joy:        {Sadness, Stress, Anger},
	Calmness:   {Anger, Stress},
	Love:       {Anger, Loneliness},
	Excitement: {Boredom, Tiredness},
	Gratitude:  {Anger, Guilt},
	Neutral:    {Happiness, Sadness, Fear, Anger},
}

func declares(from, to Emotion) bool {
	for _, e := range incompatible[from] {
		if e == to {
			return true
		}
	}
	return false
}

// Conflicts reports whether a and b are incompatible in either direction.
func Conflicts(a, b Emotion) bool {
	return declares(a, b) || declares(b, a)
}

var tones = map[Emotion]string{
	Happiness:   "cheerful and energetic",
	Joy:         "bright and enthusiastic",
	Calmness:    "peaceful and gentle",
	Love:        "warm and caring",
	Gratitude:   "appreciative and kind",
	Sadness:     "comforting and soothing",
	Anger:       "calm and understanding",
	Stress:      "relaxing and reassuring",
	Anxiety:     "calming and supportive",
	Fear:        "reassuring and protective",
	Frustration: "patient and encouraging",
	Boredom:     "exciting and lively",
	Loneliness:  "compassionate and friendly",
	Confusion:   "clear and guiding",
	Tiredness:   "gentle and supportive",
	Motivation:  "inspiring and energetic",
	Guilt:       "forgiving and comforting",
	Neutral:     "balanced and neutral",
}

// Tone returns the response tone used when e leads the conversation.
// Emotions without a tone entry (excitement) get "neutral".
func Tone(e Emotion) string {
	if t, ok := tones[e]; ok {
		return t
	}
	return "neutral"
}

var downers = map[Emotion]struct{}{
	Sadness: {}, Loneliness: {}, Guilt: {}, Fear: {}, Stress: {},
	Anxiety: {}, Tiredness: {}, Frustration: {}, Anger: {}, Boredom: {},
}

// IsDowner reports whether song recommendations for e should be redirected
// to uplifting music.
func IsDowner(e Emotion) bool {
	_, ok := downers[e]
	return ok
}

// Strings converts a list of emotions to plain strings.
func Strings(es []Emotion) []string {
	out := make([]string, len(es))
	for i, e := range es {
		out[i] = string(e)
	}
	return out
}
