// Package iojson reads and writes the JSON documents exchanged by the CLI
// commands: pretty reports, JSON lines listings and error envelopes.
package iojson

import (
	"encoding/json"
	"fmt"
	"io"
)

// Error is the envelope written when a command fails in JSON mode.
type Error struct {
	Message string         `json:"message"`
	Data    map[string]any `json:"data,omitempty"`
}

// Write writes obj as indented JSON followed by a newline.
func Write(w io.Writer, obj any) error {
	bits, err := json.MarshalIndent(obj, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	_, err = fmt.Fprintln(w, string(bits))
	return err
}

// WriteLine writes obj as one line of compact JSON.
func WriteLine(w io.Writer, obj any) error {
	bits, err := json.Marshal(obj)
	if err != nil {
		return fmt.Errorf("marshal json line: %w", err)
	}

	_, err = fmt.Fprintln(w, string(bits))
	return err
}

// WriteError writes an Error envelope for msg to w.
func WriteError(w io.Writer, msg string, data map[string]any) error {
	return Write(w, Error{Message: msg, Data: data})
}
