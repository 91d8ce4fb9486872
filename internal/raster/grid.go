// Raster access for single-band NetCDF grids.
package raster

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/ctessum/cdf"
)

// MissingFileError reports that a raster path or glob resolved to nothing readable.
type MissingFileError struct {
	Path string
	Err  error
}

func (e *MissingFileError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("raster: no readable raster at %q: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("raster: no readable raster at %q", e.Path)
}

func (e *MissingFileError) Unwrap() error { return e.Err }

// GridFormatError reports that a raster file exists but carries no readable
// primary band.
type GridFormatError struct {
	Path   string
	Reason string
}

func (e *GridFormatError) Error() string {
	return fmt.Sprintf("raster: %s: %s", e.Path, e.Reason)
}

// Affine maps cell indices to map coordinates using the GDAL geotransform
// ordering: x = a[0] + col*a[1] + row*a[2], y = a[3] + col*a[4] + row*a[5].
type Affine [6]float64

// CellCenter returns the map coordinates of the center of cell (row, col).
func (a Affine) CellCenter(row, col int) (x, y float64) {
	fc, fr := float64(col)+0.5, float64(row)+0.5
	return a[0] + fc*a[1] + fr*a[2], a[3] + fc*a[4] + fr*a[5]
}

// CellArea returns |dx*dy| for an axis-aligned transform, the area of one
// cell in map units.
func (a Affine) CellArea() float64 {
	return math.Abs(a[1]*a[5] - a[2]*a[4])
}

// Grid is a single-band raster: a row-major value array with a validity mask,
// an affine index-to-coordinate mapping, and a spatial reference. Shape and
// mapping are fixed after load.
type Grid struct {
	Values    []float64 // row-major, Height*Width
	Valid     []bool    // false where nodata or non-finite
	Width     int
	Height    int
	Transform Affine
	Proj      string // PROJ.4 definition of the spatial reference
	Path      string
}

// At returns the value and validity of cell (row, col).
func (g *Grid) At(row, col int) (float64, bool) {
	i := row*g.Width + col
	return g.Values[i], g.Valid[i]
}

// SameShape reports whether g and o have identical dimensions.
func (g *Grid) SameShape(o *Grid) bool {
	return g.Width == o.Width && g.Height == o.Height
}

// Open reads the primary band of the raster at path. The file is expected to
// be a classic NetCDF file holding one 2-D variable, with nodata in the
// variable's _FillValue attribute and georeferencing in GeoTransform and
// proj4 attributes (variable-level first, then global), the convention GDAL's
// netCDF driver writes.
func Open(path string) (*Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &MissingFileError{Path: path, Err: err}
	}
	defer f.Close()

	cf, err := cdf.Open(f)
	if err != nil {
		return nil, &GridFormatError{Path: path, Reason: fmt.Sprintf("not a readable NetCDF file: %v", err)}
	}

	name := primaryVariable(cf)
	if name == "" {
		return nil, &GridFormatError{Path: path, Reason: "no 2-D variable to use as a band"}
	}
	lengths := cf.Header.Lengths(name)
	height, width := lengths[0], lengths[1]
	if height <= 0 || width <= 0 {
		return nil, &GridFormatError{Path: path, Reason: fmt.Sprintf("band %q has empty shape %dx%d", name, height, width)}
	}

	r := cf.Reader(name, nil, nil)
	buf := r.Zero(height * width)
	if _, err := r.Read(buf); err != nil {
		return nil, &GridFormatError{Path: path, Reason: fmt.Sprintf("reading band %q: %v", name, err)}
	}
	values, err := toFloat64s(buf)
	if err != nil {
		return nil, &GridFormatError{Path: path, Reason: fmt.Sprintf("band %q: %v", name, err)}
	}

	g := &Grid{
		Values: values,
		Valid:  make([]bool, len(values)),
		Width:  width,
		Height: height,
		Path:   path,
	}

	nodata, hasNodata := attrFloat(cf, name, "_FillValue")
	for i, v := range values {
		g.Valid[i] = !math.IsNaN(v) && !math.IsInf(v, 0) && !(hasNodata && v == nodata)
	}

	gt, ok := attrString(cf, name, "GeoTransform")
	if !ok {
		return nil, &GridFormatError{Path: path, Reason: "missing GeoTransform attribute"}
	}
	if g.Transform, err = parseGeoTransform(gt); err != nil {
		return nil, &GridFormatError{Path: path, Reason: err.Error()}
	}
	if p, ok := attrString(cf, name, "proj4"); ok {
		g.Proj = p
	} else if p, ok := attrString(cf, name, "spatial_ref"); ok {
		g.Proj = p
	}
	return g, nil
}

// OpenStack opens every raster matching glob, ordered by the numeric suffix in
// each filename (falling back to lexical order for files without one). All
// frames must share the shape of the first.
func OpenStack(glob string) ([]*Grid, error) {
	paths, err := filepath.Glob(glob)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, &MissingFileError{Path: glob}
	}
	SortStackPaths(paths)

	grids := make([]*Grid, 0, len(paths))
	for _, p := range paths {
		g, err := Open(p)
		if err != nil {
			return nil, err
		}
		if len(grids) > 0 && !g.SameShape(grids[0]) {
			return nil, &GridFormatError{
				Path:   p,
				Reason: fmt.Sprintf("frame shape %dx%d differs from first frame %dx%d", g.Height, g.Width, grids[0].Height, grids[0].Width),
			}
		}
		grids = append(grids, g)
	}
	return grids, nil
}

var trailingNumber = regexp.MustCompile(`(\d+)\.[^.]+$`)

// SortStackPaths orders raster paths by the numeric suffix before the file
// extension, so time_of_arrival_10 sorts after time_of_arrival_2.
func SortStackPaths(paths []string) {
	sort.SliceStable(paths, func(i, j int) bool {
		ni, iok := suffixNumber(paths[i])
		nj, jok := suffixNumber(paths[j])
		if iok && jok && ni != nj {
			return ni < nj
		}
		return paths[i] < paths[j]
	})
}

func suffixNumber(path string) (float64, bool) {
	m := trailingNumber.FindStringSubmatch(filepath.Base(path))
	if m == nil {
		return 0, false
	}
	n, err := strconv.ParseFloat(m[1], 64)
	return n, err == nil
}

// primaryVariable picks the first 2-D variable in the file.
func primaryVariable(cf *cdf.File) string {
	for _, v := range cf.Header.Variables() {
		if len(cf.Header.Lengths(v)) == 2 {
			return v
		}
	}
	return ""
}

func parseGeoTransform(s string) (Affine, error) {
	var a Affine
	fields := strings.Fields(s)
	if len(fields) != 6 {
		return a, fmt.Errorf("GeoTransform needs 6 values, got %d", len(fields))
	}
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return a, fmt.Errorf("GeoTransform value %q: %v", f, err)
		}
		a[i] = v
	}
	return a, nil
}

func attrString(cf *cdf.File, variable, name string) (string, bool) {
	for _, v := range []string{variable, ""} {
		if s, ok := cf.Header.GetAttribute(v, name).(string); ok && s != "" {
			return s, true
		}
	}
	return "", false
}

func attrFloat(cf *cdf.File, variable, name string) (float64, bool) {
	for _, v := range []string{variable, ""} {
		switch a := cf.Header.GetAttribute(v, name).(type) {
		case []float64:
			if len(a) > 0 {
				return a[0], true
			}
		case []float32:
			if len(a) > 0 {
				return float64(a[0]), true
			}
		case []int32:
			if len(a) > 0 {
				return float64(a[0]), true
			}
		case float64:
			return a, true
		case float32:
			return float64(a), true
		}
	}
	return 0, false
}

func toFloat64s(buf interface{}) ([]float64, error) {
	switch b := buf.(type) {
	case []float64:
		return b, nil
	case []float32:
		out := make([]float64, len(b))
		for i, v := range b {
			out[i] = float64(v)
		}
		return out, nil
	case []int32:
		out := make([]float64, len(b))
		for i, v := range b {
			out[i] = float64(v)
		}
		return out, nil
	case []int16:
		out := make([]float64, len(b))
		for i, v := range b {
			out[i] = float64(v)
		}
		return out, nil
	case []int8:
		out := make([]float64, len(b))
		for i, v := range b {
			out[i] = float64(v)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported band type %T", buf)
	}
}
