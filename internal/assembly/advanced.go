package assembly

import "github.com/radpipe/radpipe/internal/ordmap"

// DefaultAdvanced builds the internal tuning-knob mapping for the current
// schema. Declared migration policy for this field group: never carried
// across versions — a migrated assembly always receives these defaults.
func DefaultAdvanced() *ordmap.Map {
	return ordmap.FromPairs(
		ordmap.Pair{Key: "random_seed", Value: 42},
		ordmap.Pair{Key: "max_fragment_length", Value: 300},
		ordmap.Pair{Key: "max_inner_mate_distance", Value: 60},
		ordmap.Pair{Key: "p5_adapter", Value: "AGATCGGAAGAGC"},
		ordmap.Pair{Key: "p3_adapter", Value: "AGATCGGAAGAGC"},
		ordmap.Pair{Key: "preview_truncate_reads", Value: 4000000},
		ordmap.Pair{Key: "output_loci_name_buffer", Value: 5},
		ordmap.Pair{Key: "merge_technical_replicates", Value: false},
	)
}
