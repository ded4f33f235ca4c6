// Moodchat - Mood-Aware Conversational Companion
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodchat

package emotion

import (
	"context"

	"github.com/tomtom215/moodchat/internal/llm"
	"github.com/tomtom215/moodchat/internal/logging"
	"github.com/tomtom215/moodchat/internal/metrics"
)

// Analyzer scores a user message by prompting a Generator and parsing the
// reply.
type Analyzer struct {
	gen llm.Generator
}

// NewAnalyzer creates an Analyzer backed by gen.
func NewAnalyzer(gen llm.Generator) *Analyzer {
	return &Analyzer{gen: gen}
}

// Analyze returns the emotion distribution for text. Detection never fails
// the conversation: a missing generator or a failed call yields
// NeutralScores.
func (a *Analyzer) Analyze(ctx context.Context, text string) Scores {
	log := logging.Ctx(ctx)

	if a == nil || a.gen == nil {
		log.Error().Msg("emotion analysis requested without a language model")
		metrics.RecordEmotionParse("no_model")
		return NeutralScores()
	}

	raw, err := a.gen.Generate(ctx, ScoringPrompt(text))
	if err != nil {
		log.Error().Err(err).Msg("emotion scoring call failed, using neutral scores")
		metrics.RecordEmotionParse("llm_error")
		return NeutralScores()
	}

	scores, report := ParseWithReport(raw)
	switch {
	case report.Empty:
		log.Warn().Bool("marker_found", report.MarkerFound).Int("skipped", report.Skipped).
			Msg("model returned no usable emotion scores")
		metrics.RecordEmotionParse("empty")
	case !report.MarkerFound:
		log.Warn().Int("parsed", report.Parsed).Msg("emotion scores parsed without marker, low confidence")
		metrics.RecordEmotionParse("no_marker")
	case report.Normalized:
		log.Debug().Float64("total", report.Total).Msg("emotion scores normalized")
		metrics.RecordEmotionParse("normalized")
	default:
		metrics.RecordEmotionParse("ok")
	}
	return scores
}
