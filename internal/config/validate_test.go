package config

import (
	"testing"

	"github.com/thoreinstein/filesbackup/internal/errors"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *Config
		wantErr int
	}{
		{"nil config", nil, 1},
		{"defaults", Default(), 0},
		{"relative dirs", &Config{Version: 1, Exclude: []string{"a/b", "c/"}, Include: []string{"vendor"}}, 0},
		{"version zero", &Config{Version: 0}, 1},
		{"blank exclude", &Config{Version: 1, Exclude: []string{" "}}, 1},
		{"dot include", &Config{Version: 1, Include: []string{"."}}, 1},
		{"several problems", &Config{Version: 9, Exclude: []string{"/abs"}, Include: []string{"../up"}}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := Validate(tt.cfg)
			if len(errs) != tt.wantErr {
				t.Errorf("Validate() returned %d errors, want %d: %v", len(errs), tt.wantErr, errs)
			}
		})
	}
}

func TestPathError(t *testing.T) {
	err := &PathError{Field: "exclude", Path: "/abs", Err: ErrInvalidPath}

	if err.Error() != "exclude: invalid path: /abs" {
		t.Errorf("Error() = %q", err.Error())
	}
	if !errors.Is(err, ErrInvalidPath) {
		t.Error("PathError should unwrap to ErrInvalidPath")
	}
}
