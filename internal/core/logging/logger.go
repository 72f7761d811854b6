package logging

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Component creates a new logger with a component identifier.
// Uses the "cmp" key for consistency with zerolog conventions.
func Component(name string) zerolog.Logger {
	return log.With().Str("cmp", name).Logger()
}

// File returns a component logger that also carries the post and path
// fields, for engine parts that are constructed per file and never see a
// context.
func File(name, postID, path string) zerolog.Logger {
	return log.With().
		Str("cmp", name).
		Str("post_id", postID).
		Str("path", path).
		Logger()
}
