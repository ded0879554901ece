package errors

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"
	"testing"
)

func TestCLIErrorAdapter_ExitCodeFor(t *testing.T) {
	a := NewCLIErrorAdapter(false, nil)

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"plain", fmt.Errorf("x"), 1},
		{"validation", ValidationFailed("f", "r"), 2},
		{"config", ConfigNotFound("folio.yaml"), 7},
		{"content", ContentLoadFailed("content", fmt.Errorf("x")), 9},
		{"render", RenderFailed("/", fmt.Errorf("x")), 11},
		{"wrapped filesystem", fmt.Errorf("ctx: %w", OutputError("mkdir", fmt.Errorf("x"))), 11},
		{"internal", InternalError("bug", nil), 10},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := a.ExitCodeFor(tc.err); got != tc.want {
				t.Errorf("ExitCodeFor() = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestCLIErrorAdapter_FormatError(t *testing.T) {
	quiet := NewCLIErrorAdapter(false, nil)
	verbose := NewCLIErrorAdapter(true, nil)

	cfgErr := ConfigNotFound("folio.yaml")
	if got := quiet.FormatError(cfgErr); got != "configuration file not found" {
		t.Errorf("quiet config = %q", got)
	}
	renderErr := RenderFailed("/", fmt.Errorf("boom"))
	if got := quiet.FormatError(renderErr); got != "render: page render failed" {
		t.Errorf("quiet render = %q", got)
	}
	if got := verbose.FormatError(renderErr); got != renderErr.Error() {
		t.Errorf("verbose render = %q", got)
	}
	if got := quiet.FormatError(fmt.Errorf("plain")); got != "Error: plain" {
		t.Errorf("plain = %q", got)
	}
	if got := quiet.FormatError(nil); got != "" {
		t.Errorf("nil = %q", got)
	}
}

func TestCLIErrorAdapter_LogsOnlyLoudErrors(t *testing.T) {
	tests := []struct {
		name    string
		verbose bool
		err     error
		want    string
	}{
		{"warning stays quiet", false, NotFound("document", "x"), ""},
		{"validation error stays quiet", false, BrokenLinks(3), ""},
		{"fatal is logged", false, ConfigNotFound("folio.yaml"), "level=ERROR"},
		{"verbose logs warnings", true, NotFound("document", "x"), "level=WARN"},
		{"plain error is logged", false, fmt.Errorf("boom"), "Unclassified error"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			a := NewCLIErrorAdapter(tc.verbose, slog.New(slog.NewTextHandler(&buf, nil)))
			a.log(tc.err)
			got := buf.String()
			if tc.want == "" && got != "" {
				t.Errorf("log() wrote %q, want nothing", got)
			}
			if tc.want != "" && !strings.Contains(got, tc.want) {
				t.Errorf("log() = %q, want it to contain %q", got, tc.want)
			}
		})
	}
}
