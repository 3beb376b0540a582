package snapshot

import (
	"context"
	"log/slog"

	"github.com/radpipe/radpipe/internal/assembly"
	"github.com/radpipe/radpipe/internal/journal"
	"github.com/radpipe/radpipe/internal/logfields"
	"github.com/radpipe/radpipe/internal/metrics"
	"github.com/radpipe/radpipe/internal/sets"
)

// Migrator upgrades an out-of-date assembly to the current schema. Every
// dropped parameter is logged with its old value and recorded in the journal
// before it is discarded.
type Migrator struct {
	Log     *slog.Logger
	Journal journal.Store
	Metrics *metrics.Collector
}

// Migrate carries a loaded assembly forward to the current schema and
// persists the result:
//
//   - the advanced-options mapping is replaced wholesale with the current
//     defaults (declared policy: this group is never migrated),
//   - removed parameters are dropped with a logged notice naming the old
//     value,
//   - added parameters adopt the current defaults, with surviving old values
//     carried over.
func (m *Migrator) Migrate(ctx context.Context, a *assembly.Assembly) (*assembly.Assembly, error) {
	log := m.Log
	if log == nil {
		log = slog.Default()
	}

	ref := assembly.New(a.Name)
	log.Info("updating assembly to the current schema",
		logfields.Assembly(a.Name),
		logfields.OldVersion(a.Version),
		logfields.NewVersion(ref.Version))

	// Current values always win for the advanced group.
	a.Advanced = ref.Advanced.Clone()

	oldKeys := sets.New(a.Params.Keys()...)
	newKeys := sets.New(ref.Params.Keys()...)
	removed := oldKeys.Diff(newKeys)
	added := newKeys.Diff(oldKeys)

	droppedValues := make(map[string]any, len(removed))
	for _, k := range sets.Sorted(removed) {
		v, _ := a.Params.Get(k)
		droppedValues[k] = v
		log.Warn("removing parameter", logfields.Param(k), logfields.Value(v))
	}
	for _, k := range sets.Sorted(added) {
		v, _ := ref.Params.Get(k)
		log.Info("adding parameter", logfields.Param(k), logfields.Value(v))
	}

	if len(added) > 0 {
		// Seed from the current schema, then overwrite with every
		// surviving old value. Removed keys are absent by construction,
		// so the result has exactly the current key set.
		merged := ref.Params.Clone()
		for _, k := range a.Params.Keys() {
			if removed.Has(k) {
				continue
			}
			if k == "assembly_name" {
				continue
			}
			v, _ := a.Params.Get(k)
			merged.Set(k, v)
		}
		merged.Set("assembly_name", a.Name)
		a.Params = merged
	}

	if m.Journal != nil {
		payload := map[string]any{
			"removed":     droppedValues,
			"added":       sets.Sorted(added),
			"old_version": a.Version,
			"new_version": ref.Version,
		}
		if err := m.Journal.Append(ctx, a.ProjectDir(), a.Name, journal.EventMigrated, payload); err != nil {
			log.Warn("journal append failed", logfields.Error(err))
		}
	}
	m.Metrics.RecordMigration()

	if err := Save(a); err != nil {
		return nil, err
	}
	m.Metrics.RecordSave()
	return a, nil
}
