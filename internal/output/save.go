package output

import (
	"github.com/pkg/errors"

	"github.com/cloudeye-scanner/cloudeye/internal/scanner"
)

// Format is a result file type written at the end of every run.
type Format struct {
	Ext string
	New func(path string) (Writer, error)
}

// Formats lists the result files in write order.
var Formats = []Format{
	{Ext: ".json", New: func(path string) (Writer, error) { return NewJSONWriter(path) }},
	{Ext: ".csv", New: func(path string) (Writer, error) { return NewCSVWriter(path) }},
}

// Save writes results to base+".json" then base+".csv". saved is called
// with each path once its file is complete. The first failure is returned
// and already written files are left in place.
func Save(base string, results []scanner.ScanResult, saved func(path string)) error {
	for _, format := range Formats {
		path := base + format.Ext
		if err := writeFile(path, format, results); err != nil {
			return errors.Wrapf(err, "writing %s", path)
		}
		if saved != nil {
			saved(path)
		}
	}
	return nil
}

func writeFile(path string, format Format, results []scanner.ScanResult) (err error) {
	w, err := format.New(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := w.Close(); err == nil {
			err = cerr
		}
	}()

	if err := w.WriteHeader(); err != nil {
		return err
	}
	for i := range results {
		if err := w.WriteResult(&results[i]); err != nil {
			return err
		}
	}
	return w.WriteFooter()
}
