// Package gridio persists grids and their node fields. A grid file is a
// zstd-compressed msgpack document holding a header (format version, grid
// class, shape, spacing, origin, node status), free-form string attributes
// and one record per field.
package gridio

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
	"github.com/vk/bigantr/internal/grid"
	"github.com/vmihailenco/msgpack/v5"
)

// FormatVersion is written to every file and checked on load.
const FormatVersion = 1

// ErrExists is returned by Save when the target exists and Clobber is off.
var ErrExists = errors.New("grid file already exists")

type document struct {
	Version int               `msgpack:"version"`
	Kind    string            `msgpack:"kind"`
	Rows    int               `msgpack:"rows"`
	Cols    int               `msgpack:"cols"`
	Spacing float64           `msgpack:"spacing"`
	X0      float64           `msgpack:"x0"`
	Y0      float64           `msgpack:"y0"`
	Status  []uint8           `msgpack:"status"`
	Attrs   map[string]string `msgpack:"attrs,omitempty"`
	Fields  []fieldRecord     `msgpack:"fields"`
}

type fieldRecord struct {
	Name    string    `msgpack:"name"`
	DType   string    `msgpack:"dtype"`
	Float64 []float64 `msgpack:"f64,omitempty"`
	Int64   []int64   `msgpack:"i64,omitempty"`
}

// Options controls Save.
type Options struct {
	// Clobber allows replacing an existing file.
	Clobber bool
	// Attrs are stored alongside the grid, e.g. run id and model time.
	Attrs map[string]string
	// Fields restricts the saved node fields to these names. Nil saves all.
	Fields []string
}

// Checkpoint is a loaded grid file.
type Checkpoint struct {
	Grid  *grid.Raster
	Attrs map[string]string
}

// Save writes g and all of its node fields to path. The file is written to a
// temporary name in the same directory and renamed into place.
func Save(g grid.Grid, path string, opts Options) error {
	raster, ok := g.(*grid.Raster)
	if !ok {
		return fmt.Errorf("%w: cannot save grid of kind %q", grid.ErrInvalidArgument, g.Kind())
	}
	if !opts.Clobber {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%w: %s", ErrExists, path)
		}
	}

	doc, err := encodeRaster(raster, opts.Attrs, opts.Fields)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create grid directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create grid file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := writeDocument(tmp, doc); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write grid file %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write grid file %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to move grid file into place: %w", err)
	}
	return nil
}

// Load reads a grid file written by Save.
func Load(path string) (*Checkpoint, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open grid file: %w", err)
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read grid file %s: %w", path, err)
	}
	defer dec.Close()

	var doc document
	if err := msgpack.NewDecoder(dec).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode grid file %s: %w", path, err)
	}

	raster, err := decodeRaster(&doc)
	if err != nil {
		return nil, fmt.Errorf("invalid grid file %s: %w", path, err)
	}
	return &Checkpoint{Grid: raster, Attrs: doc.Attrs}, nil
}

func writeDocument(f *os.File, doc *document) error {
	enc, err := zstd.NewWriter(f)
	if err != nil {
		return err
	}
	if err := msgpack.NewEncoder(enc).Encode(doc); err != nil {
		enc.Close()
		return err
	}
	return enc.Close()
}

func encodeRaster(r *grid.Raster, attrs map[string]string, only []string) (*document, error) {
	rows, cols := r.Shape()
	x0, y0 := r.Origin()
	doc := &document{
		Version: FormatVersion,
		Kind:    r.Kind(),
		Rows:    rows,
		Cols:    cols,
		Spacing: r.Spacing(),
		X0:      x0,
		Y0:      y0,
		Status:  make([]uint8, r.NumberOfNodes()),
		Attrs:   attrs,
	}
	for i, s := range r.NodeStatus() {
		doc.Status[i] = uint8(s)
	}

	fields := r.AtNode()
	names := fields.Names()
	if only != nil {
		names = only
	}
	for _, name := range names {
		f, ok := fields.Get(name)
		if !ok {
			return nil, fmt.Errorf("%w: %q", grid.ErrFieldMissing, name)
		}
		doc.Fields = append(doc.Fields, fieldRecord{
			Name:    name,
			DType:   string(f.DType()),
			Float64: f.Float64s(),
			Int64:   f.Int64s(),
		})
	}
	return doc, nil
}

func decodeRaster(doc *document) (*grid.Raster, error) {
	if doc.Version != FormatVersion {
		return nil, fmt.Errorf("unsupported format version %d", doc.Version)
	}
	if doc.Kind != grid.RasterKind {
		return nil, fmt.Errorf("%w: unsupported grid kind %q", grid.ErrInvalidArgument, doc.Kind)
	}

	r, err := grid.NewRaster(doc.Rows, doc.Cols, doc.Spacing, grid.WithOrigin(doc.X0, doc.Y0))
	if err != nil {
		return nil, err
	}

	status := make([]grid.NodeStatus, len(doc.Status))
	for i, s := range doc.Status {
		status[i] = grid.NodeStatus(s)
	}
	if err := r.SetStatus(status); err != nil {
		return nil, err
	}

	for _, rec := range doc.Fields {
		dtype, err := grid.ParseDType(rec.DType)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", rec.Name, err)
		}
		switch dtype {
		case grid.Float64:
			_, err = r.AtNode().AddFloat64(rec.Name, rec.Float64, false)
		case grid.Int64:
			_, err = r.AtNode().AddInt64(rec.Name, rec.Int64, false)
		}
		if err != nil {
			return nil, err
		}
	}
	return r, nil
}
