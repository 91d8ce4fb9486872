package report

import (
	"encoding/json"
	"os"
)

// FileWriter writes the flat metrics record to a JSON file.
type FileWriter struct {
	path string
}

// NewFileWriter creates a FileWriter targeting path.
func NewFileWriter(path string) *FileWriter {
	return &FileWriter{path: path}
}

// WriteSummary writes the flattened metrics for the run, replacing any
// previous file.
func (f *FileWriter) WriteSummary(s Summary) error {
	out, err := os.Create(f.path)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(Flatten(s.Records)); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
