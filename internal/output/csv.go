package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"

	"github.com/cloudeye-scanner/cloudeye/internal/detection"
	"github.com/cloudeye-scanner/cloudeye/internal/scanner"
)

// NoSensitiveData fills the second column when a result has no matches.
const NoSensitiveData = "No Sensitive Data"

// CSVWriter writes one row per result: the URL and its finding as an
// inline JSON object.
type CSVWriter struct {
	f *os.File
	w *csv.Writer
}

// NewCSVWriter creates a CSV output writer.
func NewCSVWriter(outputFile string) (*CSVWriter, error) {
	f, err := os.Create(outputFile)
	if err != nil {
		return nil, err
	}
	cw := csv.NewWriter(f)
	cw.UseCRLF = true
	return &CSVWriter{f: f, w: cw}, nil
}

func (c *CSVWriter) WriteHeader() error {
	return c.w.Write([]string{"URL", "Sensitive Data"})
}

func (c *CSVWriter) WriteResult(result *scanner.ScanResult) error {
	if result.SensitiveData.IsEmpty() {
		return c.w.Write([]string{result.URL, NoSensitiveData})
	}
	return c.w.Write([]string{result.URL, findingCell(result.SensitiveData)})
}

func (c *CSVWriter) WriteFooter() error {
	c.w.Flush()
	return c.w.Error()
}

func (c *CSVWriter) Close() error {
	return c.f.Close()
}

// findingCell renders f on one line as {"Label": ["v1", "v2"]}, with ", "
// and ": " separators and non-ASCII text escaped.
func findingCell(f detection.Finding) string {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, label := range f.Labels() {
		if i > 0 {
			buf.WriteString(", ")
		}
		writeJSONString(&buf, label)
		buf.WriteString(": [")
		for j, v := range f.Matches(label) {
			if j > 0 {
				buf.WriteString(", ")
			}
			writeJSONString(&buf, v)
		}
		buf.WriteByte(']')
	}
	buf.WriteByte('}')
	return string(escapeNonASCII(buf.Bytes()))
}

func writeJSONString(buf *bytes.Buffer, s string) {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	// Encoding a string cannot fail.
	_ = enc.Encode(s)
	buf.Truncate(buf.Len() - 1) // trailing newline from Encode
}
