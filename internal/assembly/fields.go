package assembly

import (
	"fmt"

	"github.com/radpipe/radpipe/internal/ordmap"
)

// RootField describes one serializable root-entity field: its archive key, a
// getter used by the save projection and a typed setter used for shared-key
// transfer on reload. Fields that the loader pops and handles specially
// (name, paramsdict, samples) carry a nil setter.
//
// This registry replaces reflective attribute assignment: "shared key" means
// a lookup here, nothing else.
type RootField struct {
	Name string
	Get  func(*Assembly) any
	Set  func(*Assembly, any) error
}

// RootFields returns the archive projection of the root entity in document
// order. Live compute handles and derived fields (statsfiles tables, column
// headers) are deliberately absent: they are rebuilt, not persisted.
func RootFields() []RootField {
	return []RootField{
		{
			Name: "_version",
			Get:  func(a *Assembly) any { return a.Version },
			Set: func(a *Assembly, v any) error {
				s, err := asString(v)
				if err != nil {
					return err
				}
				a.Version = s
				return nil
			},
		},
		{
			Name: "name",
			Get:  func(a *Assembly) any { return a.Name },
		},
		{
			Name: "dirs",
			Get:  func(a *Assembly) any { return a.Dirs },
			Set: func(a *Assembly, v any) error {
				m, err := expectMap(v)
				if err != nil {
					return err
				}
				a.Dirs = m
				return nil
			},
		},
		{
			Name: "paramsdict",
			Get:  func(a *Assembly) any { return a.Params },
		},
		{
			// Reduced to the key list on save; child records live in
			// the document's samples section.
			Name: "samples",
			Get: func(a *Assembly) any {
				keys := sortedSampleNames(a)
				out := make([]any, len(keys))
				for i, k := range keys {
					out[i] = k
				}
				return out
			},
		},
		{
			Name: "populations",
			Get:  func(a *Assembly) any { return a.Populations },
			Set: func(a *Assembly, v any) error {
				m, err := expectMap(v)
				if err != nil {
					return err
				}
				a.Populations = m
				return nil
			},
		},
		{
			Name: "database",
			Get:  func(a *Assembly) any { return a.Database },
			Set: func(a *Assembly, v any) error {
				m, err := expectMap(v)
				if err != nil {
					return err
				}
				a.Database = m
				return nil
			},
		},
		{
			Name: "outfiles",
			Get:  func(a *Assembly) any { return a.Outfiles },
			Set: func(a *Assembly, v any) error {
				m, err := expectMap(v)
				if err != nil {
					return err
				}
				a.Outfiles = m
				return nil
			},
		},
		{
			Name: "barcodes",
			Get:  func(a *Assembly) any { return a.Barcodes },
			Set: func(a *Assembly, v any) error {
				m, err := expectMap(v)
				if err != nil {
					return err
				}
				a.Barcodes = m
				return nil
			},
		},
	}
}

// RootFieldNames returns the registry key set in document order.
func RootFieldNames() []string {
	fields := RootFields()
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = f.Name
	}
	return out
}

// SampleField mirrors RootField for the child entity.
type SampleField struct {
	Name string
	Get  func(*Sample) any
	Set  func(*Sample, any) error
}

// SampleFields returns the serializable sample fields in document order.
// stats and statsfiles have registry entries for key-set analysis but are
// assigned through their own reconciliation steps, not shared-key transfer.
func SampleFields() []SampleField {
	return []SampleField{
		{
			Name: "name",
			Get:  func(s *Sample) any { return s.Name },
			Set: func(s *Sample, v any) error {
				str, err := asString(v)
				if err != nil {
					return err
				}
				s.Name = str
				return nil
			},
		},
		{
			Name: "barcode",
			Get:  func(s *Sample) any { return s.Barcode },
			Set: func(s *Sample, v any) error {
				str, err := asString(v)
				if err != nil {
					return err
				}
				s.Barcode = str
				return nil
			},
		},
		{
			Name: "state",
			Get:  func(s *Sample) any { return s.State },
			Set: func(s *Sample, v any) error {
				n, err := asInt(v)
				if err != nil {
					return err
				}
				s.State = n
				return nil
			},
		},
		{
			Name: "stats",
			Get:  func(s *Sample) any { return s.Stats },
			Set: func(s *Sample, v any) error {
				m, err := expectMap(v)
				if err != nil {
					return err
				}
				s.Stats = m
				return nil
			},
		},
		{
			Name: "statsfiles",
			Get:  func(s *Sample) any { return s.Statsfiles },
			Set: func(s *Sample, v any) error {
				m, err := expectMap(v)
				if err != nil {
					return err
				}
				s.Statsfiles = m
				return nil
			},
		},
		{
			Name: "files",
			Get:  func(s *Sample) any { return s.Files },
			Set: func(s *Sample, v any) error {
				m, err := expectMap(v)
				if err != nil {
					return err
				}
				out := ordmap.New()
				for _, k := range m.Keys() {
					v, _ := m.Get(k)
					paths, err := parseStringList(v)
					if err != nil {
						return fmt.Errorf("files[%s]: %w", k, err)
					}
					out.Set(k, paths)
				}
				s.Files = out
				return nil
			},
		},
	}
}

// SampleFieldNames returns the sample registry key set in document order.
func SampleFieldNames() []string {
	fields := SampleFields()
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = f.Name
	}
	return out
}

func expectMap(v any) (*ordmap.Map, error) {
	m, ok := v.(*ordmap.Map)
	if !ok {
		return nil, fmt.Errorf("expected mapping, got %T", v)
	}
	return m, nil
}
