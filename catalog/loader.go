package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"dailydsa/model"
	"dailydsa/utils"
)

var requiredColumns = []string{"title", "url", "difficulty", "related_topics"}

// LoadFile reads a CSV problem dataset from path.
func LoadFile(path string) (*Catalog, []error, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open catalog %s: %w", path, err)
	}
	defer f.Close()
	return Load(f)
}

// Load parses a CSV dataset. Rows that cannot be used are skipped and reported
// in the returned warnings; a malformed header or unreadable input is an error.
func Load(r io.Reader) (*Catalog, []error, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("read catalog header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))] = i
	}
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return nil, nil, fmt.Errorf("catalog is missing required column %q", col)
		}
	}

	var (
		problems []model.Problem
		warnings []error
		line     = 1
	)
	for {
		record, err := reader.Read()
		line++
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, warnings, fmt.Errorf("read catalog line %d: %w", line, err)
		}

		field := func(col string) string {
			i := index[col]
			if i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		title := field("title")
		if title == "" {
			warnings = append(warnings, fmt.Errorf("line %d: empty title", line))
			continue
		}
		difficulty := model.Difficulty(utils.NormalizeDifficulty(field("difficulty")))
		switch difficulty {
		case model.DifficultyEasy, model.DifficultyMedium, model.DifficultyHard:
		default:
			warnings = append(warnings, fmt.Errorf("line %d: unknown difficulty %q", line, field("difficulty")))
			continue
		}

		problems = append(problems, model.Problem{
			Title:      title,
			URL:        field("url"),
			Difficulty: difficulty,
			Topics:     utils.SplitList(field("related_topics")),
		})
	}

	return New(problems), warnings, nil
}
