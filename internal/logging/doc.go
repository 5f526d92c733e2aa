// Cinerank - Content-Based Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

/*
Package logging provides centralized zerolog-based logging for Cinerank.

The global logger is configured once from the logging config section:

	logging.Init(logging.Config{
	    Level:     cfg.Logging.Level,
	    Format:    cfg.Logging.Format,
	    Caller:    cfg.Logging.Caller,
	    Timestamp: true,
	})

Components do not use the global logger directly. They receive a
zerolog.Logger at construction and derive their own with a component field:

	logger.With().Str("component", "recommend").Logger()

# Request Context

The HTTP request id middleware stores the id with ContextWithRequestID.
Ctx(ctx) returns a logger carrying it, and the recommendation engine
reuses it as the response request_id.

# slog Bridge

NewSlogLogger exposes the zerolog output as an slog.Logger for libraries
that log through log/slog, such as the sutureslog supervisor hook.

# Best Practices

Always terminate log chains with .Msg() or .Send():

	logging.Info().Str("key", "value").Msg("message")  // Correct
	logging.Info().Str("key", "value")                 // WRONG - log not emitted
*/
package logging
