package assembly

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/radpipe/radpipe/internal/ordmap"
)

// ParamSpec describes one schema-defined parameter: its name, default value
// and the parse/validate function used by SetParam. The ordered spec list is
// the authoritative parameter key set for the current schema version.
type ParamSpec struct {
	Name    string
	Default any
	Parse   func(any) (any, error)
}

// paramSpecs returns the current schema's parameter registry in canonical
// order. assembly_name is a sentinel entry: it is fixed at construction and
// rejected by SetParam.
func paramSpecs() []ParamSpec {
	return []ParamSpec{
		{Name: "assembly_name", Default: "", Parse: rejectChange("assembly_name")},
		{Name: "project_dir", Default: ".", Parse: parsePath},
		{Name: "raw_fastq_path", Default: "", Parse: parsePath},
		{Name: "barcodes_path", Default: "", Parse: parsePath},
		{Name: "sorted_fastq_path", Default: "", Parse: parsePath},
		{Name: "assembly_method", Default: "denovo",
			Parse: parseEnum("denovo", "reference", "denovo+reference", "denovo-reference")},
		{Name: "reference_sequence", Default: "", Parse: parsePath},
		{Name: "datatype", Default: "rad",
			Parse: parseEnum("rad", "ddrad", "gbs", "pairddrad", "pairgbs", "2brad", "merged")},
		{Name: "restriction_overhang", Default: []string{"TGCAG", ""}, Parse: parseStringList},
		{Name: "max_low_qual_bases", Default: 5, Parse: parseIntMin(0)},
		{Name: "phred_qscore_offset", Default: 33, Parse: parseIntMin(0)},
		{Name: "mindepth_statistical", Default: 6, Parse: parseIntMin(1)},
		{Name: "mindepth_majrule", Default: 6, Parse: parseIntMin(1)},
		{Name: "maxdepth", Default: 10000, Parse: parseIntMin(1)},
		{Name: "clust_threshold", Default: 0.85, Parse: parseFraction},
		{Name: "max_barcode_mismatch", Default: 0, Parse: parseIntMin(0)},
		{Name: "filter_adapters", Default: 0, Parse: parseIntRange(0, 3)},
		{Name: "filter_min_trim_len", Default: 35, Parse: parseIntMin(1)},
		{Name: "max_alleles_consens", Default: 2, Parse: parseIntMin(1)},
		{Name: "min_samples_locus", Default: 4, Parse: parseIntMin(1)},
		{Name: "max_snps_locus", Default: 20, Parse: parseIntMin(0)},
		{Name: "max_indels_locus", Default: 8, Parse: parseIntMin(0)},
		{Name: "trim_reads", Default: []int{0, 0}, Parse: parseIntList},
		{Name: "output_formats", Default: []string{"p", "s", "v"}, Parse: parseStringList},
		{Name: "pop_assign_file", Default: "", Parse: parsePath},
	}
}

// ParamKeys returns the current schema's parameter names in canonical order.
func ParamKeys() []string {
	specs := paramSpecs()
	out := make([]string, len(specs))
	for i, s := range specs {
		out[i] = s.Name
	}
	return out
}

// DefaultParams builds the parameter dictionary for a new assembly named
// name.
func DefaultParams(name string) *ordmap.Map {
	m := ordmap.New()
	for _, s := range paramSpecs() {
		if s.Name == "assembly_name" {
			m.Set(s.Name, name)
			continue
		}
		m.Set(s.Name, s.Default)
	}
	return m
}

// SetParam validates and coerces value for the named parameter, then stores
// it. This is the single parameter-setting path: live configuration and
// archive reload both go through it so type coercion is identical.
func (a *Assembly) SetParam(key string, value any) error {
	var spec *ParamSpec
	for _, s := range paramSpecs() {
		if s.Name == key {
			spec = &s
			break
		}
	}
	if spec == nil {
		return fmt.Errorf("unknown parameter %q", key)
	}
	v, err := spec.Parse(value)
	if err != nil {
		return fmt.Errorf("invalid value for parameter %q: %w", key, err)
	}
	a.Params.Set(key, v)

	// project_dir doubles as the project directory registry entry.
	if key == "project_dir" {
		a.Dirs.Set("project", v.(string))
	}
	return nil
}

// GetParam returns the current value for key, or an error for unknown keys.
func (a *Assembly) GetParam(key string) (any, error) {
	if v, ok := a.Params.Get(key); ok {
		return v, nil
	}
	return nil, fmt.Errorf("unknown parameter %q", key)
}

func rejectChange(name string) func(any) (any, error) {
	return func(any) (any, error) {
		return nil, fmt.Errorf("%s is fixed at assembly creation", name)
	}
}

func parsePath(v any) (any, error) {
	s, err := asString(v)
	if err != nil {
		return nil, err
	}
	return strings.TrimSpace(s), nil
}

func parseEnum(allowed ...string) func(any) (any, error) {
	return func(v any) (any, error) {
		s, err := asString(v)
		if err != nil {
			return nil, err
		}
		s = strings.TrimSpace(s)
		for _, a := range allowed {
			if s == a {
				return s, nil
			}
		}
		return nil, fmt.Errorf("%q is not one of %s", s, strings.Join(allowed, ", "))
	}
}

func parseIntMin(min int) func(any) (any, error) {
	return func(v any) (any, error) {
		n, err := asInt(v)
		if err != nil {
			return nil, err
		}
		if n < min {
			return nil, fmt.Errorf("%d is below minimum %d", n, min)
		}
		return n, nil
	}
}

func parseIntRange(min, max int) func(any) (any, error) {
	return func(v any) (any, error) {
		n, err := asInt(v)
		if err != nil {
			return nil, err
		}
		if n < min || n > max {
			return nil, fmt.Errorf("%d is outside range %d..%d", n, min, max)
		}
		return n, nil
	}
}

func parseFraction(v any) (any, error) {
	f, err := asFloat(v)
	if err != nil {
		return nil, err
	}
	if f <= 0 || f > 1 {
		return nil, fmt.Errorf("%v is not in (0, 1]", f)
	}
	return f, nil
}

func parseStringList(v any) (any, error) {
	switch t := v.(type) {
	case []string:
		return t, nil
	case []any:
		out := make([]string, 0, len(t))
		for _, e := range t {
			s, err := asString(e)
			if err != nil {
				return nil, err
			}
			out = append(out, s)
		}
		return out, nil
	case string:
		// comma-separated shorthand from params files
		parts := strings.Split(t, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			out = append(out, strings.TrimSpace(p))
		}
		return out, nil
	default:
		return nil, fmt.Errorf("cannot interpret %T as string list", v)
	}
}

func parseIntList(v any) (any, error) {
	switch t := v.(type) {
	case []int:
		return t, nil
	case []any:
		out := make([]int, 0, len(t))
		for _, e := range t {
			n, err := asInt(e)
			if err != nil {
				return nil, err
			}
			out = append(out, n)
		}
		return out, nil
	case string:
		parts := strings.Split(t, ",")
		out := make([]int, 0, len(parts))
		for _, p := range parts {
			n, err := strconv.Atoi(strings.TrimSpace(p))
			if err != nil {
				return nil, fmt.Errorf("cannot interpret %q as int list: %w", t, err)
			}
			out = append(out, n)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("cannot interpret %T as int list", v)
	}
}

func asString(v any) (string, error) {
	switch t := v.(type) {
	case string:
		return t, nil
	case nil:
		return "", nil
	case int, int64, float64, bool:
		return fmt.Sprint(t), nil
	default:
		return "", fmt.Errorf("cannot interpret %T as string", v)
	}
}

func asInt(v any) (int, error) {
	switch t := v.(type) {
	case int:
		return t, nil
	case int64:
		return int(t), nil
	case float64:
		if t != float64(int(t)) {
			return 0, fmt.Errorf("%v is not an integer", t)
		}
		return int(t), nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			return 0, fmt.Errorf("cannot interpret %q as int", t)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("cannot interpret %T as int", v)
	}
}

func asFloat(v any) (float64, error) {
	switch t := v.(type) {
	case float64:
		return t, nil
	case int:
		return float64(t), nil
	case int64:
		return float64(t), nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, fmt.Errorf("cannot interpret %q as float", t)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("cannot interpret %T as float", v)
	}
}
