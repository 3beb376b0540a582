package snapshot

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/radpipe/radpipe/internal/assembly"
	"github.com/radpipe/radpipe/internal/journal"
	"github.com/radpipe/radpipe/internal/logfields"
	"github.com/radpipe/radpipe/internal/metrics"
)

// Loader locates and decodes binary snapshots, migrating the result when the
// saved schema is older than the running program's. Journal and Metrics are
// optional collaborators; a nil logger falls back to slog.Default.
type Loader struct {
	Log     *slog.Logger
	Journal journal.Store
	Metrics *metrics.Collector

	// Quiet suppresses the human-readable load notice.
	Quiet bool
}

// Load resolves name against the candidate paths [name, name+".assembly"],
// decodes the first that opens, and returns a current-schema object. When
// neither candidate opens the error names the original request, not the
// candidate list.
func (l *Loader) Load(ctx context.Context, name string) (*assembly.Assembly, error) {
	log := l.Log
	if log == nil {
		log = slog.Default()
	}

	var loaded *assembly.Assembly
	var opened string
	for _, candidate := range []string{name, name + Ext} {
		f, err := os.Open(candidate)
		if err != nil {
			continue
		}
		a, decErr := Decode(f)
		_ = f.Close()
		if decErr != nil {
			log.Debug("snapshot candidate did not decode",
				logfields.Path(candidate), logfields.Error(decErr))
			continue
		}
		loaded = a
		// Remember which candidate actually opened; the notice below
		// must never name a different path.
		opened = candidate
		break
	}
	if loaded == nil {
		return nil, &assembly.NotFoundError{Name: name}
	}

	if !l.Quiet {
		fmt.Printf("  loading Assembly: %s [%s]\n", loaded.Name, logfields.TildePath(opened))
	}
	if l.Journal != nil {
		payload := map[string]any{"path": opened, "version": loaded.Version}
		if err := l.Journal.Append(ctx, loaded.ProjectDir(), loaded.Name, journal.EventLoaded, payload); err != nil {
			log.Warn("journal append failed", logfields.Error(err))
		}
	}
	l.Metrics.RecordLoad()

	ref := assembly.New(loaded.Name)
	if NeedsMigration(loaded, ref) {
		m := &Migrator{Log: l.Log, Journal: l.Journal, Metrics: l.Metrics}
		return m.Migrate(ctx, loaded)
	}
	return loaded, nil
}
