package assembly

import (
	"errors"
	"fmt"
	"sort"
)

// NotFoundError reports that no saved state could be located for a requested
// assembly. It always names the original request, never an internal candidate
// path.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no saved assembly found: %s", e.Name)
}

// IsNotFound reports whether err is (or wraps) a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

func sortedSampleNames(a *Assembly) []string {
	names := make([]string, 0, len(a.Samples))
	for n := range a.Samples {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
