package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
)

func TestContextHook_Run(t *testing.T) {
	tests := []struct {
		name      string
		setupCtx  func() context.Context
		wantKeys  []string
		wantEmpty []string
	}{
		{
			name: "post and path",
			setupCtx: func() context.Context {
				return WithFile(context.Background(), "post-1", "main.go")
			},
			wantKeys: []string{"post_id", "path"},
		},
		{
			name: "only post",
			setupCtx: func() context.Context {
				return WithPostID(context.Background(), "post-1")
			},
			wantKeys:  []string{"post_id"},
			wantEmpty: []string{"path"},
		},
		{
			name:      "no context values",
			setupCtx:  context.Background,
			wantEmpty: []string{"post_id", "path"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer

			logger := zerolog.New(&buf).Hook(ContextHook{})
			logger.Info().Ctx(tt.setupCtx()).Msg("test")

			var entry map[string]any
			if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
				t.Fatalf("failed to parse log: %v", err)
			}

			for _, key := range tt.wantKeys {
				if _, ok := entry[key]; !ok {
					t.Errorf("expected %s to be present in log", key)
				}
			}
			for _, key := range tt.wantEmpty {
				if _, ok := entry[key]; ok {
					t.Errorf("expected %s to be absent from log", key)
				}
			}
		})
	}
}
