package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func captureGlobal(t *testing.T) *bytes.Buffer {
	t.Helper()

	var buf bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = prev })
	return &buf
}

func TestComponent(t *testing.T) {
	buf := captureGlobal(t)

	logger := Component("draft")
	logger.Info().Msg("test message")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to parse log: %v", err)
	}

	if entry["cmp"] != "draft" {
		t.Errorf("Component() cmp = %v, want %q", entry["cmp"], "draft")
	}
	if entry["message"] != "test message" {
		t.Errorf("Component() message = %v, want %q", entry["message"], "test message")
	}
}

func TestFile(t *testing.T) {
	buf := captureGlobal(t)

	logger := File("selection", "post-9", "pkg/a.go")
	logger.Debug().Msg("hover")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to parse log: %v", err)
	}

	want := map[string]string{"cmp": "selection", "post_id": "post-9", "path": "pkg/a.go"}
	for k, v := range want {
		if entry[k] != v {
			t.Errorf("File() %s = %v, want %q", k, entry[k], v)
		}
	}
}
