// Moodchat - Mood-Aware Conversational Companion
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodchat

package conversation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/moodchat/internal/emotion"
	"github.com/tomtom215/moodchat/internal/llm"
	"github.com/tomtom215/moodchat/internal/logging"
	"github.com/tomtom215/moodchat/internal/metrics"
	"github.com/tomtom215/moodchat/internal/recommend"
)

// DefaultMaxRounds ends a conversation after this many follow-up messages.
const DefaultMaxRounds = 5

// ErrGeneratorUnavailable is returned when no language model is configured.
// It is the only error HandleMessage produces for a well-formed request.
var ErrGeneratorUnavailable = errors.New("conversation: language model unavailable")

// Outcome classifies how a turn was resolved.
type Outcome string

const (
	OutcomeStarted       Outcome = "started"
	OutcomeContinued     Outcome = "continued"
	OutcomeExit          Outcome = "exit"
	OutcomeFeelingBetter Outcome = "feeling_better"
	OutcomeRoundLimit    Outcome = "round_limit"
)

// Ended reports whether the outcome is terminal.
func (o Outcome) Ended() bool {
	return o == OutcomeExit || o == OutcomeFeelingBetter || o == OutcomeRoundLimit
}

// Recommender builds the bundle attached to a finished conversation.
type Recommender interface {
	Aggregate(ctx context.Context, emotions []emotion.Emotion) (recommend.Bundle, error)
}

// Config tunes the engine. Zero values select the defaults.
type Config struct {
	MaxRounds     int
	Threshold     float64
	HistoryWindow int
}

// Reply is the result of one turn.
type Reply struct {
	UserID                     string
	AssistantMessage           string
	ConversationEnded          bool
	FeelingBetterAcknowledged  bool
	Recommendations            *recommend.Bundle
	CurrentSignificantEmotions []emotion.Emotion
	Outcome                    Outcome
}

// Engine drives per-user conversations.
//
// A user with no live session is NEW: the first message is scored, the
// significant emotions are fixed and a follow-up question is asked. Every
// later message advances the session by one round until the user says an
// exit phrase, says they feel better, or the round limit is reached. The
// terminal turn attaches recommendations for the session's initial emotions
// and removes the session.
type Engine struct {
	gen         llm.Generator
	analyzer    *emotion.Analyzer
	recommender Recommender
	store       *Store
	cfg         Config
	now         func() time.Time
}

// NewEngine creates an Engine. gen may be nil, in which case every turn
// fails with ErrGeneratorUnavailable.
func NewEngine(gen llm.Generator, rec Recommender, store *Store, cfg Config) *Engine {
	if cfg.MaxRounds <= 0 {
		cfg.MaxRounds = DefaultMaxRounds
	}
	if cfg.Threshold <= 0 {
		cfg.Threshold = emotion.DefaultThreshold
	}
	if cfg.HistoryWindow <= 0 {
		cfg.HistoryWindow = DefaultHistoryWindow
	}
	if store == nil {
		store = NewStore(0, 0)
	}
	return &Engine{
		gen:         gen,
		analyzer:    emotion.NewAnalyzer(gen),
		recommender: rec,
		store:       store,
		cfg:         cfg,
		now:         time.Now,
	}
}

// Available reports whether a language model is configured.
func (e *Engine) Available() bool {
	return e.gen != nil
}

// Store returns the session store.
func (e *Engine) Store() *Store {
	return e.store
}

// HandleMessage processes one message from userID. Turns for the same user
// are serialized; different users proceed in parallel.
func (e *Engine) HandleMessage(ctx context.Context, userID, text, displayName string) (*Reply, error) {
	if e.gen == nil {
		metrics.RecordChatTurn("unavailable")
		return nil, ErrGeneratorUnavailable
	}
	if displayName == "" {
		displayName = DefaultDisplayName
	}

	ctx = logging.ContextWithUserID(ctx, userID)

	release, err := e.store.Acquire(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("wait for session lock: %w", err)
	}
	defer release()

	var reply *Reply
	if sess, ok := e.store.Get(userID); ok {
		reply = e.advance(ctx, sess, text)
	} else {
		reply = e.start(ctx, userID, text, displayName)
	}
	metrics.RecordChatTurn(string(reply.Outcome))
	return reply, nil
}

// start handles the first message of a conversation. Exit and
// feeling-better phrases have no special meaning here.
func (e *Engine) start(ctx context.Context, userID, text, displayName string) *Reply {
	log := logging.Ctx(ctx)
	log.Info().Msg("starting conversation")

	scores := e.analyzer.Analyze(ctx, text)
	significant := emotion.Select(scores, e.cfg.Threshold)

	sess := newSession(userID, displayName, text, scores, significant, e.now())
	question := e.followUp(ctx, sess)
	sess.append(RoleAssistant, question)
	e.store.Put(userID, sess)

	log.Debug().Strs("significant_emotions", emotion.Strings(significant)).Msg("conversation started")

	return &Reply{
		UserID:                     userID,
		AssistantMessage:           question,
		CurrentSignificantEmotions: sess.CurrentEmotions,
		Outcome:                    OutcomeStarted,
	}
}

// advance handles a message for an existing session.
func (e *Engine) advance(ctx context.Context, sess *Session, text string) *Reply {
	log := logging.Ctx(ctx)

	sess.append(RoleUser, text)
	sess.Rounds++
	sess.UpdatedAt = e.now()
	log.Info().Int("round", sess.Rounds).Msg("continuing conversation")

	var message string
	var outcome Outcome
	switch {
	case isExit(text):
		message, outcome = farewell(sess.DisplayName), OutcomeExit
	case isFeelingBetter(text):
		message, outcome = feelingBetterAck(sess.DisplayName), OutcomeFeelingBetter
		sess.FeelingBetter = true
	case sess.Rounds >= e.cfg.MaxRounds:
		message, outcome = wrapUp(sess.DisplayName), OutcomeRoundLimit
	default:
		question := e.followUp(ctx, sess)
		sess.append(RoleAssistant, question)
		e.store.Put(sess.UserID, sess)
		return &Reply{
			UserID:                     sess.UserID,
			AssistantMessage:           question,
			CurrentSignificantEmotions: sess.CurrentEmotions,
			Outcome:                    OutcomeContinued,
		}
	}

	return e.finish(ctx, sess, message, outcome)
}

// finish attaches recommendations to a terminal reply and removes the
// session. A recommendation failure never fails the turn.
func (e *Engine) finish(ctx context.Context, sess *Session, message string, outcome Outcome) *Reply {
	log := logging.Ctx(ctx)

	reply := &Reply{
		UserID:                     sess.UserID,
		ConversationEnded:          true,
		FeelingBetterAcknowledged:  sess.FeelingBetter,
		CurrentSignificantEmotions: sess.CurrentEmotions,
		Outcome:                    outcome,
	}

	bundle, err := e.recommend(ctx, sess.InitialEmotions)
	if err != nil {
		log.Error().Err(err).Msg("recommendations failed")
		reply.AssistantMessage = withApology(message)
	} else {
		reply.Recommendations = &bundle
		reply.AssistantMessage = withRecommendations(message)
	}

	e.store.Delete(sess.UserID)
	log.Info().Str("outcome", string(outcome)).Int("rounds", sess.Rounds).Msg("conversation ended and session cleared")
	return reply
}

func (e *Engine) recommend(ctx context.Context, emotions []emotion.Emotion) (bundle recommend.Bundle, err error) {
	if e.recommender == nil {
		return recommend.Bundle{}, errors.New("no recommender configured")
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("recommender panic: %v", r)
		}
	}()
	return e.recommender.Aggregate(ctx, emotions)
}

// followUp asks the model for the next question using the session's
// current emotions and history.
func (e *Engine) followUp(ctx context.Context, sess *Session) string {
	prompt := FollowUpPrompt(sess.CurrentEmotions, sess.History, e.cfg.HistoryWindow)
	raw, err := e.gen.Generate(ctx, prompt)
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Msg("follow-up generation failed, using fallback question")
		return FallbackQuestion
	}
	return ExtractQuestion(raw)
}
