package iojson

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Path string `json:"path"`
	Line int    `json:"line"`
}

func TestWriteLine(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteLine(&buf, payload{Path: "main.go", Line: 3}))
	require.NoError(t, WriteLine(&buf, payload{Path: "util.go", Line: 9}))

	assert.Equal(t, "{\"path\":\"main.go\",\"line\":3}\n{\"path\":\"util.go\",\"line\":9}\n", buf.String())
}

func TestWriteError(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteError(&buf, "invalid input", nil))

	assert.JSONEq(t, `{"message":"invalid input"}`, buf.String())
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    payload
		wantErr bool
	}{
		{name: "valid", input: `{"path":"a.go","line":2}`, want: payload{Path: "a.go", Line: 2}},
		{name: "unknown field", input: `{"path":"a.go","lien":2}`, wantErr: true},
		{name: "malformed", input: `{"path":`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode[payload](strings.NewReader(tt.input))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFileReader_PrefersFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"path":"file.go","line":1}`), 0o644))

	fr := &FileReader[payload]{path: path}
	got, err := fr.Read(strings.NewReader(`{"path":"stdin.go","line":1}`))
	require.NoError(t, err)
	assert.Equal(t, "file.go", got.Path)
}

func TestFileReader_Stdin(t *testing.T) {
	fr := &FileReader[payload]{}
	got, err := fr.Read(strings.NewReader(`{"path":"stdin.go","line":4}`))
	require.NoError(t, err)
	assert.Equal(t, payload{Path: "stdin.go", Line: 4}, got)
}

func TestFileReader_MissingFile(t *testing.T) {
	fr := &FileReader[payload]{path: filepath.Join(t.TempDir(), "nope.json")}
	_, err := fr.Read(strings.NewReader(""))
	assert.ErrorContains(t, err, "open file")
}
