package assembly

import (
	"github.com/radpipe/radpipe/internal/ordmap"
)

// Sample is a child entity owned exclusively by one Assembly. Samples are
// created when the pipeline discovers them and live until the assembly is
// discarded; they are never migrated independently of their parent.
type Sample struct {
	Name    string
	Barcode string

	// State is the last completed pipeline step for this sample.
	State int

	// Stats is the per-sample scalar summary record.
	Stats *ordmap.Map

	// Statsfiles maps stat category (s1..s5) to that step's scalar record.
	Statsfiles *ordmap.Map

	// Files maps logical file group names to path lists.
	Files *ordmap.Map
}

// StatCategories lists the per-step stat categories of the current schema in
// pipeline order.
func StatCategories() []string {
	return []string{"s1", "s2", "s3", "s4", "s5"}
}

// NewSample constructs a current-schema Sample with zeroed stat records. It
// is the reference child factory, also used as the introspection fallback
// when a loaded document carries no samples.
func NewSample() *Sample {
	return &Sample{
		Stats: ordmap.FromPairs(
			ordmap.Pair{Key: "state", Value: 0},
			ordmap.Pair{Key: "reads_raw", Value: 0},
			ordmap.Pair{Key: "reads_passed_filter", Value: 0},
			ordmap.Pair{Key: "clusters_total", Value: 0},
			ordmap.Pair{Key: "clusters_hidepth", Value: 0},
			ordmap.Pair{Key: "hetero_est", Value: 0.0},
			ordmap.Pair{Key: "error_est", Value: 0.0},
			ordmap.Pair{Key: "reads_consens", Value: 0},
		),
		Statsfiles: defaultStatRecords(),
		Files: ordmap.FromPairs(
			ordmap.Pair{Key: "fastqs", Value: []string{}},
			ordmap.Pair{Key: "edits", Value: []string{}},
			ordmap.Pair{Key: "clusters", Value: []string{}},
			ordmap.Pair{Key: "consens", Value: []string{}},
		),
	}
}

func defaultStatRecords() *ordmap.Map {
	zeroRecord := func(keys ...string) *ordmap.Map {
		m := ordmap.New()
		for _, k := range keys {
			m.Set(k, 0)
		}
		return m
	}
	return ordmap.FromPairs(
		ordmap.Pair{Key: "s1", Value: zeroRecord("reads_raw")},
		ordmap.Pair{Key: "s2", Value: zeroRecord(
			"reads_raw", "trim_adapter_bp_read1", "trim_quality_bp_read1", "reads_passed_filter")},
		ordmap.Pair{Key: "s3", Value: zeroRecord(
			"clusters_total", "clusters_hidepth", "avg_depth_total", "avg_depth_mj", "avg_depth_stat")},
		ordmap.Pair{Key: "s4", Value: zeroRecord("hetero_est", "error_est")},
		ordmap.Pair{Key: "s5", Value: zeroRecord(
			"clusters_total", "filtered_by_depth", "filtered_by_maxh", "filtered_by_maxn", "reads_consens")},
	)
}

// FullDict projects the sample into an ordered mapping for the text archive.
// Field order follows the sample field registry.
func (s *Sample) FullDict() *ordmap.Map {
	m := ordmap.New()
	for _, f := range SampleFields() {
		m.Set(f.Name, f.Get(s))
	}
	return m
}
