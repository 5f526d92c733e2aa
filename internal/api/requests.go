// Cinerank - Content-Based Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 64 * 1024

// SimilarRequest holds the validated parameters of the item-to-item endpoint.
type SimilarRequest struct {
	ItemID string `json:"item_id" validate:"required,max=128"`
	K      int    `json:"k"`
}

// UserRecommendationsRequest holds the validated parameters of the
// user-to-item endpoint.
type UserRecommendationsRequest struct {
	UserID string `json:"user_id" validate:"required,max=128"`
	K      int    `json:"k"`
}

// RecordInteractionRequest is the body of POST /users/{userID}/interactions.
// Rating is required for kind "rate" and dropped for the other kinds.
type RecordInteractionRequest struct {
	UserID string   `json:"-" validate:"required,max=128"`
	ItemID string   `json:"item_id" validate:"required,max=128"`
	Kind   string   `json:"kind" validate:"required,interaction_kind"`
	Rating *float64 `json:"rating,omitempty" validate:"omitempty,half_step"`
}

// InteractionHistoryRequest holds the validated query of the history
// endpoint. Zero Page and Limit select the defaults.
type InteractionHistoryRequest struct {
	UserID string `json:"user_id" validate:"required,max=128"`
	Kind   string `json:"kind" validate:"omitempty,interaction_kind"`
	Page   int    `json:"page" validate:"omitempty,min=1"`
	Limit  int    `json:"limit" validate:"omitempty,min=1"`
}

// errInvalidParam reports a query parameter that is not an integer.
var errInvalidParam = errors.New("invalid query parameter")

// intParam parses an optional integer query parameter. An absent parameter
// yields 0.
func intParam(r *http.Request, key string) (int, error) {
	value := strings.TrimSpace(r.URL.Query().Get(key))
	if value == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", errInvalidParam, key)
	}
	return n, nil
}

// decodeJSONBody decodes a bounded JSON body into dst, rejecting unknown
// fields and trailing data.
func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is empty")
		}
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return fmt.Errorf("request body exceeds %d bytes", maxBodyBytes)
		}
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	if dec.More() {
		return errors.New("request body must contain a single JSON object")
	}
	return nil
}
