package wordlist

import (
	"os"
	"strings"

	"github.com/pkg/errors"
)

// Load returns the candidate paths for a scan. If path is empty, the
// embedded default list is used. Entries are trimmed and blank lines
// dropped; order and duplicates are kept as written.
//
// A missing file yields an error matching fs.ErrNotExist.
func Load(path string) ([]string, error) {
	raw := embeddedWordlist
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "reading custom list %s", path)
		}
		raw = string(data)
	}
	return parse(raw), nil
}

func parse(raw string) []string {
	lines := strings.Split(raw, "\n")
	result := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		result = append(result, line)
	}
	return result
}
