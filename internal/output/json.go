package output

import (
	"bytes"
	"encoding/json"
	"io"
	"os"

	"github.com/cloudeye-scanner/cloudeye/internal/detection"
	"github.com/cloudeye-scanner/cloudeye/internal/scanner"
)

type jsonEntry struct {
	URL           string            `json:"url"`
	SensitiveData detection.Finding `json:"sensitive_data"`
}

// JSONWriter writes results as an indented JSON array.
type JSONWriter struct {
	f       *os.File
	entries []jsonEntry
}

// NewJSONWriter creates a JSON output writer.
func NewJSONWriter(outputFile string) (*JSONWriter, error) {
	f, err := os.Create(outputFile)
	if err != nil {
		return nil, err
	}
	return &JSONWriter{f: f, entries: []jsonEntry{}}, nil
}

func (j *JSONWriter) WriteHeader() error { return nil }

func (j *JSONWriter) WriteResult(result *scanner.ScanResult) error {
	j.entries = append(j.entries, jsonEntry{
		URL:           result.URL,
		SensitiveData: result.SensitiveData,
	})
	return nil
}

// WriteFooter encodes the collected entries. Non-ASCII text is written as
// \u escapes so the file is plain ASCII.
func (j *JSONWriter) WriteFooter() error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(j.entries); err != nil {
		return err
	}
	_, err := j.f.Write(escapeNonASCII(buf.Bytes()))
	return err
}

func (j *JSONWriter) Close() error {
	return j.f.Close()
}

// ReadJSON parses a results file written by JSONWriter.
func ReadJSON(r io.Reader) ([]scanner.ScanResult, error) {
	var entries []jsonEntry
	if err := json.NewDecoder(r).Decode(&entries); err != nil {
		return nil, err
	}
	results := make([]scanner.ScanResult, len(entries))
	for i, e := range entries {
		results[i] = scanner.ScanResult{URL: e.URL, SensitiveData: e.SensitiveData}
	}
	return results, nil
}
