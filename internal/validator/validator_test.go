package validator

import (
	"encoding/json"
	"testing"
)

func TestSeverity_String(t *testing.T) {
	tests := []struct {
		s    Severity
		want string
	}{
		{SeverityError, "error"},
		{SeverityWarning, "warning"},
		{SeverityInfo, "info"},
		{Severity(99), "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.s.String(); got != tt.want {
				t.Errorf("Severity.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSeverity_JSON(t *testing.T) {
	data, err := json.Marshal(SeverityWarning)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	if string(data) != `"warning"` {
		t.Errorf("Marshal() = %s, want \"warning\"", data)
	}

	var s Severity
	if err := json.Unmarshal([]byte(`"info"`), &s); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if s != SeverityInfo {
		t.Errorf("Unmarshal() = %v, want info", s)
	}
	if err := json.Unmarshal([]byte(`"fatal"`), &s); err == nil {
		t.Error("Unmarshal() of unknown severity should fail")
	}
}

func TestIssue_Error(t *testing.T) {
	tests := []struct {
		name string
		i    Issue
		want string
	}{
		{
			name: "error with field and value",
			i: Issue{
				Severity: SeverityError,
				Field:    "exclude",
				Message:  "must be a directory below the source",
				Value:    "../outside",
			},
			want: "error: exclude: must be a directory below the source (got ../outside)",
		},
		{
			name: "warning without field",
			i: Issue{
				Severity: SeverityWarning,
				Message:  "config is empty",
			},
			want: "warning: config is empty",
		},
		{
			name: "info with field",
			i: Issue{
				Severity: SeverityInfo,
				Field:    "git_ignore",
				Message:  "files listed in .gitignore will be backed up",
			},
			want: "info: git_ignore: files listed in .gitignore will be backed up",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.i.Error(); got != tt.want {
				t.Errorf("Issue.Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResult_Helpers(t *testing.T) {
	r := &Result{}

	if r.HasErrors() {
		t.Error("expected no errors")
	}

	r.AddError("f1", "m1", "v1")
	if !r.HasErrors() {
		t.Error("expected errors")
	}
	if len(r.Errors()) != 1 {
		t.Errorf("Errors() count = %d, want 1", len(r.Errors()))
	}

	r.AddWarning("f2", "m2", nil)
	if !r.HasWarnings() {
		t.Error("expected warnings")
	}
	if len(r.Warnings()) != 1 {
		t.Errorf("Warnings() count = %d, want 1", len(r.Warnings()))
	}

	r.AddInfo("f3", "m3", nil)
	if len(r.Infos()) != 1 {
		t.Errorf("Infos() count = %d, want 1", len(r.Infos()))
	}
	if len(r.Issues) != 3 {
		t.Errorf("Issues count = %d, want 3", len(r.Issues))
	}
}

func TestResult_Nil(t *testing.T) {
	var r *Result
	if r.HasErrors() || r.HasWarnings() {
		t.Error("nil result should have no issues")
	}
}
