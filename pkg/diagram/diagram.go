package diagram

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	ferrors "github.com/matzehuels/flowboard/pkg/errors"
	"github.com/matzehuels/flowboard/pkg/flow"
)

// Diagram is the application state: the authoritative node and edge lists.
type Diagram struct {
	Nodes []flow.NodeProps `json:"nodes"`
	Edges []flow.EdgeProps `json:"edges"`
}

// Validate reports whether the lists form a consistent graph.
func (d Diagram) Validate() error {
	if _, err := flow.Build(d.Nodes, d.Edges); err != nil {
		return ferrors.Wrap(ferrors.ErrCodeInvalidGraph, err, "invalid diagram")
	}
	return nil
}

// ReadJSON decodes a diagram from r. Missing arrays decode as empty lists;
// unknown fields are rejected so that typos in hand-written files surface.
// The diagram is not validated.
func ReadJSON(r io.Reader) (Diagram, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	var d Diagram
	if err := dec.Decode(&d); err != nil {
		return Diagram{}, ferrors.Wrap(ferrors.ErrCodeInvalidInput, err, "decode diagram")
	}
	if d.Nodes == nil {
		d.Nodes = []flow.NodeProps{}
	}
	if d.Edges == nil {
		d.Edges = []flow.EdgeProps{}
	}
	return d, nil
}

// ImportJSON reads a diagram file.
func ImportJSON(path string) (Diagram, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Diagram{}, ferrors.Wrap(ferrors.ErrCodeFileNotFound, err, "%s", path)
	}
	if err != nil {
		return Diagram{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	d, err := ReadJSON(f)
	if err != nil {
		return Diagram{}, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

// WriteJSON encodes v, a [Diagram] or [Layout], as indented JSON to w.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes v to path, replacing the file atomically.
func ExportJSON(path string, v any) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+"-*")
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteJSON(tmp, v); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// LayoutPath returns the default output path for the layout of the diagram
// at path: diagram.json becomes diagram.layout.json.
func LayoutPath(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + ".layout.json"
}
