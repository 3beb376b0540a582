// Package assembly defines the object graph persisted across pipeline runs:
// the Assembly root entity and its child Sample records, plus the parameter
// and field registries that describe the current schema. A freshly
// constructed Assembly is the reference object used as ground truth when
// diffing and migrating older saved state.
package assembly

import (
	"github.com/radpipe/radpipe/internal/ordmap"
	"github.com/radpipe/radpipe/internal/stats"
)

// Version is the current schema tag. Saved state carries the tag it was
// written under; reconciliation compares it against this value.
const Version = "1.3.0"

// Assembly is the root entity of a project: one named assembly run with its
// parameter dictionary, directory registry and child samples. It is created
// once per project and mutated in place by pipeline stages.
type Assembly struct {
	Name    string
	Version string

	// Dirs maps logical directory names (project, fastqs, edits, ...) to
	// filesystem paths.
	Dirs *ordmap.Map

	// Params is the schema-defined parameter dictionary. After any
	// successful load its key set equals the current schema's.
	Params *ordmap.Map

	// Advanced holds internal tuning knobs. This mapping is never migrated:
	// the current schema's values always replace a loaded object's.
	Advanced *ordmap.Map

	Samples map[string]*Sample

	Populations *ordmap.Map
	Database    *ordmap.Map
	Outfiles    *ordmap.Map
	Barcodes    *ordmap.Map

	// Statsfiles holds per-category summary tables derived from all
	// samples. Rebuilt on archive load rather than persisted in full.
	Statsfiles map[string]stats.Table
}

// New constructs a current-schema Assembly with default parameters and empty
// collections. It is the reference-object factory used throughout loading and
// migration.
func New(name string) *Assembly {
	a := &Assembly{
		Name:        name,
		Version:     Version,
		Dirs:        ordmap.FromPairs(ordmap.Pair{Key: "project", Value: "."}),
		Params:      DefaultParams(name),
		Advanced:    DefaultAdvanced(),
		Samples:     make(map[string]*Sample),
		Populations: ordmap.New(),
		Database:    ordmap.New(),
		Outfiles:    ordmap.New(),
		Barcodes:    ordmap.New(),
		Statsfiles:  make(map[string]stats.Table),
	}
	return a
}

// ProjectDir returns the project directory, falling back to "." when unset.
func (a *Assembly) ProjectDir() string {
	if v, ok := a.Dirs.Get("project"); ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return "."
}

// SampleNames returns the sample keys in sorted order.
func (a *Assembly) SampleNames() []string {
	return sortedSampleNames(a)
}

// BuildStat derives the cross-sample summary table for one stat category from
// the current sample set. Samples lacking the category are skipped; the
// result is empty when no sample carries it.
func (a *Assembly) BuildStat(category string) stats.Table {
	records := make(map[string]*ordmap.Map)
	for name, s := range a.Samples {
		if s == nil || s.Statsfiles == nil {
			continue
		}
		if v, ok := s.Statsfiles.Get(category); ok {
			if rec, ok := v.(*ordmap.Map); ok {
				records[name] = rec
			}
		}
	}
	return stats.Aggregate(category, records)
}
