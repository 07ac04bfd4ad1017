package backup

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	assert.True(t, opts.HonorIgnoreFile)
	assert.False(t, opts.IncludeHidden)
	assert.Empty(t, opts.ExcludeDirs)
	assert.Empty(t, opts.IncludeDirs)
}

func TestOptions_Normalize(t *testing.T) {
	source := filepath.FromSlash("/srv/project")

	tests := []struct {
		name        string
		opts        Options
		wantExclude []string
		wantInclude []string
		wantErr     bool
	}{
		{
			name: "empty lists",
			opts: Options{},
		},
		{
			name:        "relative entries cleaned",
			opts:        Options{ExcludeDirs: []string{"logs/", "./cache", "a/../b"}},
			wantExclude: []string{"logs", "cache", "b"},
		},
		{
			name:        "absolute inside source",
			opts:        Options{IncludeDirs: []string{filepath.Join(source, "vendor", "lib")}},
			wantInclude: []string{"vendor/lib"},
		},
		{
			name:        "duplicates collapsed in order",
			opts:        Options{ExcludeDirs: []string{"b", "a", "b/", filepath.Join(source, "a")}},
			wantExclude: []string{"b", "a"},
		},
		{
			name:    "absolute outside source",
			opts:    Options{ExcludeDirs: []string{filepath.FromSlash("/srv/other")}},
			wantErr: true,
		},
		{
			name:    "sibling with shared prefix",
			opts:    Options{IncludeDirs: []string{filepath.FromSlash("/srv/project-old")}},
			wantErr: true,
		},
		{
			name:    "escapes source",
			opts:    Options{IncludeDirs: []string{"../secrets"}},
			wantErr: true,
		},
		{
			name:    "source itself",
			opts:    Options{ExcludeDirs: []string{"."}},
			wantErr: true,
		},
		{
			name:    "blank entry",
			opts:    Options{IncludeDirs: []string{"  "}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.opts.normalize(source)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidOptions)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantExclude, got.ExcludeDirs)
			assert.Equal(t, tt.wantInclude, got.IncludeDirs)
		})
	}
}

func TestOptions_Validate(t *testing.T) {
	assert.NoError(t, DefaultOptions().Validate("."))
	assert.ErrorIs(t, Options{ExcludeDirs: []string{".."}}.Validate("."), ErrInvalidOptions)
	assert.ErrorIs(t, Options{}.Validate(""), ErrInvalidOptions)
}

func TestNewRequest(t *testing.T) {
	source := projectFixture(t)
	target := filepath.Join(tempDir(t), "out.zip")

	req, err := NewRequest(source, target, Options{ExcludeDirs: []string{"logs/"}})
	require.NoError(t, err)
	assert.Equal(t, source, req.Source)
	assert.Equal(t, target, req.Target)
	assert.Equal(t, []string{"logs"}, req.Options.ExcludeDirs)
	assert.Equal(t, "project", req.RootName())
}

func TestNewRequest_Errors(t *testing.T) {
	source := projectFixture(t)
	target := filepath.Join(tempDir(t), "out.zip")

	tests := []struct {
		name    string
		source  string
		target  string
		opts    Options
		wantErr error
	}{
		{"missing source", filepath.Join(source, "missing"), target, DefaultOptions(), ErrNotReadable},
		{"source is a file", filepath.Join(source, "example.php"), target, DefaultOptions(), ErrNotADirectory},
		{"blank source", "", target, DefaultOptions(), ErrInvalidOptions},
		{"blank target", source, " ", DefaultOptions(), ErrInvalidOptions},
		// options are rejected before the source is looked at
		{"bad options with missing source", "/does/not/exist", target, Options{IncludeDirs: []string{"../x"}}, ErrInvalidOptions},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRequest(tt.source, tt.target, tt.opts)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestEventKind_String(t *testing.T) {
	assert.Equal(t, "archive_opened", EventArchiveOpened.String())
	assert.Equal(t, "file_added", EventFileAdded.String())
	assert.Equal(t, "archive_closed", EventArchiveClosed.String())
	assert.Equal(t, "unknown", EventKind(0).String())
}
