package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeySection    = "section"
	KeySlug       = "slug"
	KeyPath       = "path"
	KeyFile       = "file"
	KeyRoute      = "route"
	KeyBuildID    = "build_id"
	KeyDurationMS = "duration_ms"
	KeyCount      = "count"
	KeyURL        = "url"
	KeyMethod     = "method"
	KeyStatus     = "status"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func Section(s string) slog.Attr      { return slog.String(KeySection, s) }
func Slug(s string) slog.Attr         { return slog.String(KeySlug, s) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func File(f string) slog.Attr         { return slog.String(KeyFile, f) }
func Route(r string) slog.Attr        { return slog.String(KeyRoute, r) }
func BuildID(id string) slog.Attr     { return slog.String(KeyBuildID, id) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }
func URL(u string) slog.Attr          { return slog.String(KeyURL, u) }
func Method(m string) slog.Attr       { return slog.String(KeyMethod, m) }
func Status(code int) slog.Attr       { return slog.Int(KeyStatus, code) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
