// Package archive implements the portable text form of assembly state: a
// single ordered YAML document with two top-level sections, assembly and
// samples. The save path is a fixed schema-defined projection; the load path
// rebuilds a fresh current-schema object and merges file data into it field
// by field, warning on drift instead of failing.
package archive

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/radpipe/radpipe/internal/journal"
	"github.com/radpipe/radpipe/internal/metrics"
)

// Ext is the conventional archive extension.
const Ext = ".yaml"

// Codec saves and loads assembly archives. Journal and Metrics are optional
// collaborators; a nil logger falls back to slog.Default.
type Codec struct {
	Log     *slog.Logger
	Journal journal.Store
	Metrics *metrics.Collector

	// Quiet suppresses the human-readable load notice.
	Quiet bool
}

func (c *Codec) logger() *slog.Logger {
	if c.Log != nil {
		return c.Log
	}
	return slog.Default()
}

// SchemaError reports an archive that parsed but cannot establish a
// reference object: the document structure is missing required keys. It is
// fatal to the load, unlike key-level drift.
type SchemaError struct {
	Path   string
	Reason string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("malformed assembly archive %s: %s", e.Path, e.Reason)
}

func archivePath(projectDir, name string) string {
	return filepath.Join(projectDir, name+Ext)
}
