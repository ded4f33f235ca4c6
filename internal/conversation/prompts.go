// Moodchat - Mood-Aware Conversational Companion
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodchat

package conversation

import (
	"fmt"
	"strings"

	"github.com/tomtom215/moodchat/internal/emotion"
)

// QuestionMarker ends the follow-up prompt; the model's question is read
// from after its last occurrence in the reply.
const QuestionMarker = "Assistant Question:"

// FallbackQuestion is asked when the model fails or says nothing.
const FallbackQuestion = "How are you feeling about that?"

// DefaultHistoryWindow is how many recent history entries the prompt shows.
const DefaultHistoryWindow = 6

const emptyHistory = "(Start of conversation)"

// FollowUpPrompt builds the prompt asking for the next question. Tone comes
// from the first significant emotion.
func FollowUpPrompt(significant []emotion.Emotion, history []Message, window int) string {
	primary := emotion.Neutral
	if len(significant) > 0 {
		primary = significant[0]
	}
	if window <= 0 {
		window = DefaultHistoryWindow
	}
	if len(history) > window {
		history = history[len(history)-window:]
	}

	lines := make([]string, 0, len(history))
	for _, m := range history {
		lines = append(lines, fmt.Sprintf("%s: %s", m.Role, m.Content))
	}
	recent := strings.Join(lines, "\n")
	if recent == "" {
		recent = emptyHistory
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are a %s AI companion. Goal: supportive, understanding.\n", emotion.Tone(primary))
	fmt.Fprintf(&b, "User's significant emotions: %s.\n", strings.Join(emotion.Strings(significant), ", "))
	b.WriteString("Recent conversation:\n")
	b.WriteString(recent)
	b.WriteString("\n\nGenerate ONE gentle, thoughtful, open-ended follow-up question based on the user's emotions and conversation. Keep it concise. Avoid solutions.\n")
	b.WriteString(QuestionMarker)
	b.WriteString("\n")
	return b.String()
}

// ExtractQuestion pulls the question out of a model reply.
func ExtractQuestion(raw string) string {
	if i := strings.LastIndex(raw, QuestionMarker); i >= 0 {
		raw = raw[i+len(QuestionMarker):]
	}
	q := strings.Trim(strings.TrimSpace(raw), `"`)
	if strings.TrimSpace(q) == "" {
		return FallbackQuestion
	}
	return q
}
