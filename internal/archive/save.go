package archive

import (
	"context"

	"gopkg.in/yaml.v3"

	"github.com/radpipe/radpipe/internal/assembly"
	"github.com/radpipe/radpipe/internal/journal"
	"github.com/radpipe/radpipe/internal/logfields"
	"github.com/radpipe/radpipe/internal/ordmap"
	"github.com/radpipe/radpipe/internal/safeio"
)

// Path returns the archive path for a: <project_dir>/<name>.yaml.
func Path(a *assembly.Assembly) string {
	return archivePath(a.ProjectDir(), a.Name)
}

// Marshal projects a into the ordered two-section document. The assembly
// section follows the root field registry (live handles and derived tables
// are excluded by the registry itself; samples is reduced to its key list).
// The samples section carries a full dump per sample.
func Marshal(a *assembly.Assembly) ([]byte, error) {
	section := ordmap.New()
	for _, f := range assembly.RootFields() {
		section.Set(f.Name, f.Get(a))
	}

	samples := ordmap.New()
	for _, name := range a.SampleNames() {
		samples.Set(name, a.Samples[name].FullDict())
	}

	doc := ordmap.FromPairs(
		ordmap.Pair{Key: "assembly", Value: section},
		ordmap.Pair{Key: "samples", Value: samples},
	)
	return yaml.Marshal(doc)
}

// Save writes a's archive to its conventional path. The write is protected
// against interrupt signals: an interrupted attempt is retried in full
// rather than leaving a partial file.
func (c *Codec) Save(ctx context.Context, a *assembly.Assembly) error {
	data, err := Marshal(a)
	if err != nil {
		return err
	}

	path := Path(a)
	if err := safeio.WriteFileUninterruptible(path, data, 0o644); err != nil {
		return err
	}

	if c.Journal != nil {
		payload := map[string]any{"path": path, "samples": len(a.Samples)}
		if err := c.Journal.Append(ctx, a.ProjectDir(), a.Name, journal.EventSaved, payload); err != nil {
			c.logger().Warn("journal append failed", logfields.Error(err))
		}
	}
	c.Metrics.RecordSave()
	return nil
}
