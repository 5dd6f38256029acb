// Package queries produces the ordered list of food searches for a run.
package queries

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"mspro-labs/fdc-seed/internal/config"
)

// Default is the built-in starter list, used as-is when no file is given.
var Default = []string{
	"apple raw",
	"banana raw",
	"chicken breast roasted",
	"white rice cooked",
	"olive oil",
	"whole milk",
	"egg whole raw",
	"broccoli raw",
	"oats",
	"salmon atlantic cooked",
}

// Load reads newline-delimited queries from path, skipping blank lines and
// lines starting with '#'. An empty path yields the built-in list.
// The result is truncated to limit entries.
func Load(path string, limit int) ([]string, error) {
	if path == "" {
		return truncate(Default, limit), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, config.NewConfigError(fmt.Sprintf("cannot read queries file '%s'", path), err)
	}
	defer f.Close()

	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	if err := sc.Err(); err != nil {
		return nil, config.NewConfigError(fmt.Sprintf("cannot read queries file '%s'", path), err)
	}
	return truncate(out, limit), nil
}

// FromList cleans an inline query list the same way file lines are cleaned.
func FromList(list []string, limit int) []string {
	var out []string
	for _, q := range list {
		q = strings.TrimSpace(q)
		if q == "" || strings.HasPrefix(q, "#") {
			continue
		}
		out = append(out, q)
	}
	return truncate(out, limit)
}

func truncate(list []string, limit int) []string {
	if limit < 0 {
		limit = 0
	}
	if len(list) > limit {
		list = list[:limit]
	}
	out := make([]string, len(list))
	copy(out, list)
	return out
}
