// Writer implementation printing run summaries to STDOUT
package report

import (
	"encoding/json"
	"fmt"
)

// StdoutWriter prints the full summary to STDOUT as JSON.
type StdoutWriter struct{}

// WriteSummary outputs the summary.
func (w *StdoutWriter) WriteSummary(s Summary) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
