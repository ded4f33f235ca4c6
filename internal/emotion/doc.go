// Moodchat - Mood-Aware Conversational Companion
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodchat

/*
Package emotion turns language-model output into the small, consistent set
of emotions that drives a conversation.

# Pipeline

	raw model text --Parse--> Scores --Select--> []Emotion (significant)
	                                     |
	                                     +--Resolve (conflict graph)

Parse reads the block introduced by ScoresMarker ("Emotion Probabilities:")
and produces a Scores map containing all nineteen canonical emotions.
Unknown labels and malformed lines are ignored. Totals further than one
point from 100 are rescaled; a response with no usable score becomes the
neutral fallback (neutral = 100).

Select keeps every emotion scoring at least the threshold (DefaultThreshold,
30), or the top three positive emotions when none qualifies, and hands them
to Resolve.

Resolve removes contradictions using a fixed incompatibility table (for
example happiness/sadness). An edge declared in either direction counts. The
higher score wins a conflict; on an exact tie the emotion seen first is kept.
The output is sorted by descending score and is never empty for a non-empty
input.

# Supporting tables

Tone maps the leading emotion to the voice used for follow-up questions.
IsDowner marks emotions whose song recommendations are redirected to
uplifting music.

# Model access

Analyzer wraps an llm.Generator with ScoringPrompt and Parse. Every failure
path returns NeutralScores, so emotion detection can never fail a turn.
*/
package emotion
