package logfields

import (
	"log/slog"
	"os"
	"strings"
)

// Canonical log field name constants to avoid drift across packages.
const (
	KeyAssembly   = "assembly"
	KeySample     = "sample"
	KeyParam      = "param"
	KeyValue      = "value"
	KeyPath       = "path"
	KeyOldVersion = "old_version"
	KeyNewVersion = "new_version"
	KeyKeys       = "keys"
	KeyCount      = "count"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func Assembly(name string) slog.Attr { return slog.String(KeyAssembly, name) }
func Sample(name string) slog.Attr   { return slog.String(KeySample, name) }
func Param(name string) slog.Attr    { return slog.String(KeyParam, name) }
func Value(v any) slog.Attr          { return slog.Any(KeyValue, v) }
func Path(p string) slog.Attr        { return slog.String(KeyPath, p) }
func OldVersion(v string) slog.Attr  { return slog.String(KeyOldVersion, v) }
func NewVersion(v string) slog.Attr  { return slog.String(KeyNewVersion, v) }
func Keys(keys []string) slog.Attr   { return slog.Any(KeyKeys, keys) }
func Count(n int) slog.Attr          { return slog.Int(KeyCount, n) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}

// TildePath shortens a path for display by replacing the user's home
// directory prefix with "~".
func TildePath(p string) string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return p
	}
	if p == home {
		return "~"
	}
	if strings.HasPrefix(p, home+string(os.PathSeparator)) {
		return "~" + p[len(home):]
	}
	return p
}
