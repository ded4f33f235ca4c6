// Moodchat - Mood-Aware Conversational Companion
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodchat

package conversation

import (
	"time"

	"github.com/tomtom215/moodchat/internal/emotion"
)

// Role identifies the author of a history entry.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one history entry.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Session is the live state of one user's conversation. It is owned by the
// Store and only touched while the per-user lock is held.
type Session struct {
	UserID      string
	DisplayName string
	History     []Message

	// InitialEmotions are frozen at creation and drive recommendations.
	InitialEmotions []emotion.Emotion
	// CurrentEmotions shape follow-up questions. They start equal to
	// InitialEmotions and are not recomputed during the conversation.
	CurrentEmotions []emotion.Emotion
	Scores          emotion.Scores

	Rounds int
	// FeelingBetter is set on the turn that ends the conversation with a
	// feeling-better acknowledgement, immediately before the session is
	// discarded.
	FeelingBetter bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

func newSession(userID, displayName, firstMessage string, scores emotion.Scores, significant []emotion.Emotion, now time.Time) *Session {
	return &Session{
		UserID:          userID,
		DisplayName:     displayName,
		History:         []Message{{Role: RoleUser, Content: firstMessage}},
		InitialEmotions: append([]emotion.Emotion(nil), significant...),
		CurrentEmotions: append([]emotion.Emotion(nil), significant...),
		Scores:          scores.Clone(),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func (s *Session) append(role Role, content string) {
	s.History = append(s.History, Message{Role: role, Content: content})
}
