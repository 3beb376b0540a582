package archive

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/radpipe/radpipe/internal/assembly"
	"github.com/radpipe/radpipe/internal/journal"
	"github.com/radpipe/radpipe/internal/logfields"
	"github.com/radpipe/radpipe/internal/metrics"
	"github.com/radpipe/radpipe/internal/ordmap"
	"github.com/radpipe/radpipe/internal/sets"
)

// Load resolves path against the candidate paths [path, path+".yaml"],
// parses the first that opens, and reconciles the document into a fresh
// current-schema Assembly. Key-level drift at the root or sample level is
// logged and absorbed; only a missing file or a document that cannot
// establish a reference object is fatal.
func (c *Codec) Load(ctx context.Context, path string) (*assembly.Assembly, error) {
	log := c.logger()

	var doc *ordmap.Map
	var opened string
	for _, candidate := range []string{path, path + Ext} {
		data, err := os.ReadFile(candidate)
		if err != nil {
			continue
		}
		m := ordmap.New()
		if err := yaml.Unmarshal(data, m); err != nil {
			log.Debug("archive candidate did not parse",
				logfields.Path(candidate), logfields.Error(err))
			continue
		}
		doc = m
		// The candidate that actually parsed; all messages below must
		// name this path, not the last one tried.
		opened = candidate
		break
	}
	if doc == nil {
		return nil, &assembly.NotFoundError{Name: path}
	}

	section, err := requireSection(doc, "assembly", opened)
	if err != nil {
		return nil, err
	}
	sampleSection, err := requireSection(doc, "samples", opened)
	if err != nil {
		return nil, err
	}

	// Step 1: pop name, construct the reference object.
	nameVal, ok := section.Delete("name")
	if !ok {
		return nil, &SchemaError{Path: opened, Reason: "assembly section has no name"}
	}
	name, _ := nameVal.(string)
	if name == "" {
		return nil, &SchemaError{Path: opened, Reason: "assembly name is not a string"}
	}
	a := assembly.New(name)

	if !c.Quiet {
		fmt.Printf("  loading Assembly: %s [%s]\n", name, logfields.TildePath(opened))
	}

	// Step 2: pop the sample-name list, pre-populate placeholders.
	sampleNames := stringList(popValue(section, "samples"))
	for _, n := range sampleNames {
		a.Samples[n] = nil
	}

	// Step 3: pop paramsdict and replay it through the validated setter so
	// coercion matches live configuration. Parameters the current schema no
	// longer knows, or values it no longer accepts, are drift: logged and
	// skipped, never fatal.
	paramsVal, ok := section.Delete("paramsdict")
	if !ok {
		return nil, &SchemaError{Path: opened, Reason: "assembly section has no paramsdict"}
	}
	params, ok := paramsVal.(*ordmap.Map)
	if !ok {
		return nil, &SchemaError{Path: opened, Reason: "paramsdict is not a mapping"}
	}
	for _, k := range params.Keys() {
		if k == "assembly_name" {
			continue
		}
		v, _ := params.Get(k)
		if err := a.SetParam(k, v); err != nil {
			log.Warn("skipping archived parameter",
				logfields.Param(k), logfields.Value(v), logfields.Error(err))
		}
	}

	oldVersion, _ := section.Get("_version")
	oldVersionTag, _ := oldVersion.(string)

	// Step 4: root-level shared/lost key analysis against the field
	// registry, then verbatim transfer of every shared key.
	oldKeys := sets.New(section.Keys()...)
	registryKeys := sets.New(assembly.RootFieldNames()...)
	lost := oldKeys.Diff(registryKeys)
	if len(lost) > 0 {
		log.Warn("archive carries keys unique to the older assembly",
			logfields.Count(len(lost)),
			logfields.Assembly(name),
			logfields.OldVersion(oldVersionTag),
			logfields.NewVersion(a.Version),
			logfields.Keys(sets.Sorted(lost)))
		c.recordDrift(ctx, a, metrics.LevelRoot, oldVersionTag, sets.Sorted(lost))
	}
	for _, f := range assembly.RootFields() {
		if f.Set == nil {
			continue
		}
		if v, ok := section.Get(f.Name); ok {
			if err := f.Set(a, v); err != nil {
				log.Warn("skipping archived field",
					logfields.Param(f.Name), logfields.Error(err))
			}
		}
	}

	// Steps 5-6: sample reconciliation.
	c.loadSamples(ctx, a, sampleSection, sampleNames, oldVersionTag)

	// Step 7: re-derive the aggregate stats tables from the now-populated
	// sample set; only non-empty summaries are kept.
	for _, cat := range sampleCategories(sampleSection, sampleNames) {
		if t := a.BuildStat(cat); !t.Empty() {
			a.Statsfiles[cat] = t
		}
	}

	if c.Journal != nil {
		payload := map[string]any{"path": opened, "version": oldVersionTag}
		if err := c.Journal.Append(ctx, a.ProjectDir(), a.Name, journal.EventLoaded, payload); err != nil {
			log.Warn("journal append failed", logfields.Error(err))
		}
	}
	c.Metrics.RecordLoad()
	return a, nil
}

// loadSamples reconciles the document's samples section into a. One
// representative parsed record supplies the file's sample schema; when the
// sample list is empty a fresh reference sample stands in, so introspection
// never indexes into an empty collection.
func (c *Codec) loadSamples(ctx context.Context, a *assembly.Assembly, sampleSection *ordmap.Map, sampleNames []string, oldVersionTag string) {
	log := c.logger()

	rep := representativeSample(sampleSection, sampleNames)
	repStats := mapAt(rep, "stats")
	repStatfiles := mapAt(rep, "statsfiles")
	categories := repStatfiles.Keys()

	fileKeys := sets.New(rep.Keys()...)
	fileStatsKeys := sets.New(repStats.Keys()...)
	fileIndKeys := flattenRecordKeys(repStatfiles)

	ref := assembly.NewSample()
	refKeys := sets.New(assembly.SampleFieldNames()...)
	refStatsKeys := sets.New(ref.Stats.Keys()...)
	refIndKeys := flattenRecordKeys(ref.Statsfiles)

	lostAttrs := fileKeys.Diff(refKeys)
	lostStats := fileStatsKeys.Diff(refStatsKeys)
	lostInd := fileIndKeys.Diff(refIndKeys)
	allLost := lostAttrs.Union(lostStats).Union(lostInd)
	if len(allLost) > 0 {
		log.Warn("archive carries keys unique to the older samples",
			logfields.Count(len(allLost)),
			logfields.Assembly(a.Name),
			logfields.OldVersion(oldVersionTag),
			logfields.NewVersion(assembly.Version),
			logfields.Keys(sets.Sorted(allLost)))
		c.recordDrift(ctx, a, metrics.LevelSample, oldVersionTag, sets.Sorted(allLost))
	}

	shared := fileKeys.Intersect(refKeys)
	shared.Delete("stats")
	shared.Delete("statsfiles")

	for _, n := range sampleNames {
		s := assembly.NewSample()
		s.Name = n

		recVal, ok := sampleSection.Get(n)
		rec, isMap := recVal.(*ordmap.Map)
		if !ok || !isMap {
			log.Warn("archive has no record for sample; using defaults",
				logfields.Sample(n))
			a.Samples[n] = s
			continue
		}

		if st := mapAt(rec, "stats"); st.Len() > 0 {
			s.Stats = st
		}
		recStatfiles := mapAt(rec, "statsfiles")
		s.Statsfiles = ordmap.New()
		for _, cat := range categories {
			if v, ok := recStatfiles.Get(cat); ok {
				s.Statsfiles.Set(cat, v)
			}
		}

		for _, f := range assembly.SampleFields() {
			if f.Set == nil || !shared.Has(f.Name) {
				continue
			}
			v, ok := rec.Get(f.Name)
			if !ok {
				continue
			}
			if err := f.Set(s, v); err != nil {
				log.Warn("skipping archived sample field",
					logfields.Sample(n), logfields.Param(f.Name), logfields.Error(err))
			}
		}
		a.Samples[n] = s
	}
}

func (c *Codec) recordDrift(ctx context.Context, a *assembly.Assembly, level, oldVersionTag string, keys []string) {
	c.Metrics.RecordDriftKeys(level, len(keys))
	if c.Journal == nil {
		return
	}
	payload := map[string]any{
		"level":       level,
		"keys":        keys,
		"old_version": oldVersionTag,
		"new_version": assembly.Version,
	}
	if err := c.Journal.Append(ctx, a.ProjectDir(), a.Name, journal.EventDrift, payload); err != nil {
		c.logger().Warn("journal append failed", logfields.Error(err))
	}
}

func requireSection(doc *ordmap.Map, key, path string) (*ordmap.Map, error) {
	v, ok := doc.Get(key)
	if !ok {
		return nil, &SchemaError{Path: path, Reason: fmt.Sprintf("missing %s section", key)}
	}
	m, ok := v.(*ordmap.Map)
	if !ok {
		return nil, &SchemaError{Path: path, Reason: fmt.Sprintf("%s section is not a mapping", key)}
	}
	return m, nil
}

// representativeSample returns one parsed sample record to introspect the
// file's sample schema, or a reference dump when no parsed record exists.
func representativeSample(sampleSection *ordmap.Map, sampleNames []string) *ordmap.Map {
	if len(sampleNames) > 0 {
		for _, k := range sampleSection.Keys() {
			if v, ok := sampleSection.Get(k); ok {
				if m, ok := v.(*ordmap.Map); ok {
					return m
				}
			}
		}
	}
	return assembly.NewSample().FullDict()
}

// sampleCategories returns the stat categories to rebuild, taken from the
// file's sample schema.
func sampleCategories(sampleSection *ordmap.Map, sampleNames []string) []string {
	return mapAt(representativeSample(sampleSection, sampleNames), "statsfiles").Keys()
}

// flattenRecordKeys collects the keys of every nested record, flattened
// across categories.
func flattenRecordKeys(records *ordmap.Map) sets.Set[string] {
	out := sets.New[string]()
	records.Range(func(_ string, v any) bool {
		if rec, ok := v.(*ordmap.Map); ok {
			for _, k := range rec.Keys() {
				out.Add(k)
			}
		}
		return true
	})
	return out
}

// mapAt returns the nested mapping at key, or an empty map when absent or of
// another shape.
func mapAt(m *ordmap.Map, key string) *ordmap.Map {
	if v, ok := m.Get(key); ok {
		if sub, ok := v.(*ordmap.Map); ok {
			return sub
		}
	}
	return ordmap.New()
}

func popValue(m *ordmap.Map, key string) any {
	v, _ := m.Delete(key)
	return v
}

func stringList(v any) []string {
	switch t := v.(type) {
	case []string:
		return t
	case []any:
		out := make([]string, 0, len(t))
		for _, e := range t {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
