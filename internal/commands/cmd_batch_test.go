package commands

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/threadline/internal/threadline"
)

func TestBatchInput_Validate(t *testing.T) {
	tests := []struct {
		name    string
		input   BatchInput
		wantErr string
	}{
		{
			name:    "empty comments",
			input:   BatchInput{Comments: []threadline.CommentInput{}},
			wantErr: "comments",
		},
		{
			name: "missing path",
			input: BatchInput{Comments: []threadline.CommentInput{
				{Line: 1, Title: "t", Body: "b"},
			}},
			wantErr: "path",
		},
		{
			name: "whitespace body",
			input: BatchInput{Comments: []threadline.CommentInput{
				{Path: "a.go", Line: 1, Title: "t", Body: "   "},
			}},
			wantErr: "body",
		},
		{
			name: "new thread without line",
			input: BatchInput{Comments: []threadline.CommentInput{
				{Path: "a.go", Title: "t", Body: "b"},
			}},
			wantErr: "line",
		},
		{
			name: "new thread without title",
			input: BatchInput{Comments: []threadline.CommentInput{
				{Path: "a.go", Line: 3, Body: "b"},
			}},
			wantErr: "title",
		},
		{
			name: "start after line",
			input: BatchInput{Comments: []threadline.CommentInput{
				{Path: "a.go", Line: 3, StartLine: 5, Title: "t", Body: "b"},
			}},
			wantErr: "start_line",
		},
		{
			name: "reply needs no line or title",
			input: BatchInput{Comments: []threadline.CommentInput{
				{Path: "a.go", ReplyTo: "t-1", Body: "b"},
			}},
		},
		{
			name: "valid input",
			input: BatchInput{Comments: []threadline.CommentInput{
				{Path: "a.go", Line: 3, Title: "t", Body: "b"},
				{Path: "a.go", Line: 9, StartLine: 4, Title: "u", Body: "c"},
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.input.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err, "expected error containing %q, got nil", tt.wantErr)
			assert.Contains(t, err.Error(), tt.wantErr, "expected error containing %q, got %q", tt.wantErr, err.Error())
		})
	}
}

func TestBatchInput_JSON(t *testing.T) {
	jsonInput := `{
		"comments": [
			{"path": "main.go", "line": 12, "start_line": 10, "title": "Naming", "body": "Rename"},
			{"path": "main.go", "reply_to": "t-1", "body": "Agreed"}
		]
	}`

	var input BatchInput
	require.NoError(t, json.Unmarshal([]byte(jsonInput), &input))

	require.Len(t, input.Comments, 2)
	assert.Equal(t, 12, input.Comments[0].Line)
	assert.Equal(t, 10, input.Comments[0].StartLine)
	assert.Equal(t, "Naming", input.Comments[0].Title)
	assert.Equal(t, "t-1", input.Comments[1].ReplyTo)
}

func TestCountByStatus(t *testing.T) {
	results := []BatchResult{
		{Status: StatusCreated},
		{Status: StatusFailed, Error: "title is required"},
		{Status: StatusCreated},
		{Status: StatusSkipped},
	}

	assert.Equal(t, 2, countByStatus(results, StatusCreated))
	assert.Equal(t, 1, countByStatus(results, StatusFailed))
	assert.Equal(t, 1, countByStatus(results, StatusSkipped))
}
