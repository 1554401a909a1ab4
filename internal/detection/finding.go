package detection

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Finding maps a pattern label to the unique values it matched in one
// response body. Labels and values keep insertion order so serialized
// output is stable across runs.
type Finding struct {
	labels  []string
	matches map[string][]string
}

// Add records values under label, skipping duplicates. Empty input is
// ignored so a present label never has an empty set.
func (f *Finding) Add(label string, values ...string) {
	if len(values) == 0 {
		return
	}
	if f.matches == nil {
		f.matches = make(map[string][]string)
	}
	existing, ok := f.matches[label]
	seen := make(map[string]struct{}, len(existing)+len(values))
	for _, v := range existing {
		seen[v] = struct{}{}
	}
	for _, v := range values {
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		existing = append(existing, v)
	}
	if !ok {
		f.labels = append(f.labels, label)
	}
	f.matches[label] = existing
}

// Len returns the number of labels present.
func (f Finding) Len() int { return len(f.labels) }

// IsEmpty reports whether no label matched.
func (f Finding) IsEmpty() bool { return len(f.labels) == 0 }

// Labels returns the present labels in insertion order.
func (f Finding) Labels() []string {
	out := make([]string, len(f.labels))
	copy(out, f.labels)
	return out
}

// Matches returns the values recorded for label, or nil.
func (f Finding) Matches(label string) []string {
	values := f.matches[label]
	if values == nil {
		return nil
	}
	out := make([]string, len(values))
	copy(out, values)
	return out
}

// Has reports whether label is present.
func (f Finding) Has(label string) bool {
	_, ok := f.matches[label]
	return ok
}

// Contains reports whether value was recorded under label.
func (f Finding) Contains(label, value string) bool {
	for _, v := range f.matches[label] {
		if v == value {
			return true
		}
	}
	return false
}

// MarshalJSON encodes the finding as an object keyed by label. HTML
// characters are not escaped.
func (f Finding) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	buf.WriteByte('{')
	for i, label := range f.labels {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := enc.Encode(label); err != nil {
			return nil, err
		}
		buf.Truncate(buf.Len() - 1)
		buf.WriteByte(':')
		if err := enc.Encode(f.matches[label]); err != nil {
			return nil, err
		}
		buf.Truncate(buf.Len() - 1)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes an object keyed by label, keeping key order.
func (f *Finding) UnmarshalJSON(data []byte) error {
	*f = Finding{}
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("finding: expected object, got %v", tok)
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		label, ok := tok.(string)
		if !ok {
			return fmt.Errorf("finding: expected label, got %v", tok)
		}
		var values []string
		if err := dec.Decode(&values); err != nil {
			return fmt.Errorf("finding: decoding %q: %w", label, err)
		}
		f.Add(label, values...)
	}
	_, err = dec.Token()
	return err
}
