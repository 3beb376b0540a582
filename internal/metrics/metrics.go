// Package metrics exposes Prometheus counters for the persistence layer.
// A nil *Collector is a valid no-op recorder so callers never need to guard.
package metrics

import (
	prom "github.com/prometheus/client_golang/prometheus"
)

// Drift levels used as the label on DriftKeys.
const (
	LevelRoot   = "root"
	LevelSample = "sample"
)

// Collector bundles the persistence counters on a private registry.
type Collector struct {
	reg *prom.Registry

	loads      prom.Counter
	saves      prom.Counter
	migrations prom.Counter
	driftKeys  *prom.CounterVec
}

// NewCollector creates a collector with all counters registered on a fresh
// registry.
func NewCollector() *Collector {
	c := &Collector{
		reg: prom.NewRegistry(),
		loads: prom.NewCounter(prom.CounterOpts{
			Namespace: "radpipe", Name: "assembly_loads_total",
			Help: "Total assembly loads (binary or archive)"}),
		saves: prom.NewCounter(prom.CounterOpts{
			Namespace: "radpipe", Name: "assembly_saves_total",
			Help: "Total assembly saves (binary or archive)"}),
		migrations: prom.NewCounter(prom.CounterOpts{
			Namespace: "radpipe", Name: "assembly_migrations_total",
			Help: "Total schema migrations performed on load"}),
		driftKeys: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "radpipe", Name: "schema_drift_keys_total",
			Help: "Total lost or added keys observed during reconciliation"},
			[]string{"level"}),
	}
	c.reg.MustRegister(c.loads, c.saves, c.migrations, c.driftKeys)
	return c
}

// Registry returns the underlying registry for scraping or test gathering.
func (c *Collector) Registry() *prom.Registry {
	if c == nil {
		return nil
	}
	return c.reg
}

// RecordLoad counts one completed load.
func (c *Collector) RecordLoad() {
	if c != nil {
		c.loads.Inc()
	}
}

// RecordSave counts one completed save.
func (c *Collector) RecordSave() {
	if c != nil {
		c.saves.Inc()
	}
}

// RecordMigration counts one completed schema migration.
func (c *Collector) RecordMigration() {
	if c != nil {
		c.migrations.Inc()
	}
}

// RecordDriftKeys counts n drifted keys at the given level.
func (c *Collector) RecordDriftKeys(level string, n int) {
	if c != nil && n > 0 {
		c.driftKeys.WithLabelValues(level).Add(float64(n))
	}
}
