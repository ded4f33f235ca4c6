// Moodchat - Mood-Aware Conversational Companion
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodchat

package conversation

import (
	"fmt"
	"strings"
)

// DefaultDisplayName addresses users who did not give a name.
const DefaultDisplayName = "Friend"

const (
	recommendationIntro   = "Based on how you were feeling, here are some ideas:"
	recommendationApology = "(Sorry, couldn't fetch recommendations right now.)"
	endingChat            = "Okay, ending chat."
)

var exitPhrases = map[string]struct{}{
	"exit": {},
	"quit": {},
	"bye":  {},
	"stop": {},
}

// Matched as substrings, so "yes" also matches "yesterday".
var feelingBetterPhrases = []string{
	"feel better",
	"good now",
	"happy now",
	"relaxed now",
	"yes i feel better",
	"yes",
	"improved",
	"calmer",
}

// isExit reports whether text is exactly one of the exit phrases, ignoring
// case and surrounding whitespace.
func isExit(text string) bool {
	_, ok := exitPhrases[strings.ToLower(strings.TrimSpace(text))]
	return ok
}

func isFeelingBetter(text string) bool {
	lower := strings.ToLower(text)
	for _, p := range feelingBetterPhrases {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

func farewell(name string) string {
	return fmt.Sprintf("Okay %s, ending our chat here. Take care!", name)
}

func feelingBetterAck(name string) string {
	return fmt.Sprintf("That's wonderful to hear, %s! I'm glad our chat helped a bit. 😊", name)
}

func wrapUp(name string) string {
	return fmt.Sprintf("We've chatted for a bit, %s. Remember I'm here if you need to talk more later. "+
		"Let me know if you'd like some recommendations based on how you felt initially.", name)
}

// withRecommendations appends the transition sentence to a terminal reply.
func withRecommendations(reply string) string {
	if reply == "" {
		return recommendationIntro
	}
	return reply + "\n\n" + recommendationIntro
}

// withApology appends the apology used when recommendations failed.
func withApology(reply string) string {
	if reply == "" {
		return endingChat + " " + recommendationApology
	}
	return reply + "\n\n" + recommendationApology
}
