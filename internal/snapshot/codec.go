// Package snapshot implements the binary checkpoint path for assembly state:
// a full-fidelity gob encoding written between pipeline runs, plus the loader
// that reconciles an old snapshot against the current schema on the way in.
package snapshot

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"io"
	"path/filepath"

	"github.com/radpipe/radpipe/internal/assembly"
	"github.com/radpipe/radpipe/internal/safeio"
)

// Ext is the conventional binary snapshot extension.
const Ext = ".assembly"

// Encode writes the full object graph to w.
func Encode(w io.Writer, a *assembly.Assembly) error {
	if err := gob.NewEncoder(w).Encode(a); err != nil {
		return fmt.Errorf("encode assembly %s: %w", a.Name, err)
	}
	return nil
}

// Decode reads an object graph from r.
func Decode(r io.Reader) (*assembly.Assembly, error) {
	var a assembly.Assembly
	if err := gob.NewDecoder(r).Decode(&a); err != nil {
		return nil, fmt.Errorf("decode assembly snapshot: %w", err)
	}
	return &a, nil
}

// Path returns the snapshot path for a: <project_dir>/<name>.assembly.
func Path(a *assembly.Assembly) string {
	return filepath.Join(a.ProjectDir(), a.Name+Ext)
}

// Save writes a's snapshot to its conventional path. The write is protected
// against interrupt signals: an interrupted attempt is retried in full.
func Save(a *assembly.Assembly) error {
	var buf bytes.Buffer
	if err := Encode(&buf, a); err != nil {
		return err
	}
	return safeio.WriteFileUninterruptible(Path(a), buf.Bytes(), 0o644)
}
