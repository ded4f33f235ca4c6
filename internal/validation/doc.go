// Moodchat - Mood-Aware Conversational Companion
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodchat

// Package validation wraps go-playground/validator v10 for request payloads.
//
// The validator is a process-wide singleton (struct metadata is cached on
// first use) created with WithRequiredStructEnabled. Field names in errors
// come from the json tag, so clients see the names they sent:
//
//	type ChatRequest struct {
//	    UserID string `json:"user_id" validate:"required,notblank,max=128"`
//	}
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    // apiErr.Message == "user_id is required"
//	}
//
// Custom tags:
//   - notblank: string contains at least one non-whitespace rune
package validation
