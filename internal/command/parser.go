// Package command routes authenticated input to command handlers and
// parses structured command bodies.
package command

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/acampos/matriculabot/internal/domain"
)

// Field declares one key:value field of a structured command block.
// Label is the localized label matched in the text; Key is the canonical
// name handlers read the value by.
type Field struct {
	Key      string
	Label    string
	Required bool
	Numeric  bool
}

// Record holds parsed field values by canonical key.
type Record map[string]string

// Int returns the numeric value of a field. Parse errors cannot happen
// for fields declared Numeric; they are rejected during ParseBlock.
func (r Record) Int(key string) int {
	n, _ := strconv.Atoi(r[key])
	return n
}

type match struct {
	field Field
	start int // label start
	value int // value start, after "label:"
}

// ParseBlock extracts declared fields from a free-text block of the form
// "label: value label: value ...". A value runs until the next declared
// label or the end of the text. Labels match case-insensitively; values
// keep their original case. Missing or malformed required fields reject
// the whole block before any write.
func ParseBlock(text string, fields []Field) (Record, error) {
	// Byte-wise ASCII folding: offsets into the folded text stay valid in
	// the original. Full Unicode folding does not hold that property
	// (some lowercase forms change byte length) and labels are ASCII.
	lower := asciiLower(text)

	var matches []match
	for _, f := range fields {
		label := asciiLower(f.Label) + ":"
		offset := 0
		for {
			idx := strings.Index(lower[offset:], label)
			if idx < 0 {
				break
			}
			start := offset + idx
			// A label must begin the text or follow whitespace, so that
			// "codigo:" does not also match inside a value.
			if start == 0 || isSpace(lower[start-1]) {
				matches = append(matches, match{field: f, start: start, value: start + len(label)})
				break
			}
			offset = start + len(label)
		}
	}

	sort.Slice(matches, func(i, j int) bool { return matches[i].start < matches[j].start })

	record := make(Record, len(matches))
	for i, m := range matches {
		end := len(text)
		if i+1 < len(matches) {
			end = matches[i+1].start
		}
		value := strings.TrimSpace(text[m.value:end])
		if value != "" {
			record[m.field.Key] = value
		}
	}

	for _, f := range fields {
		value, ok := record[f.Key]
		if !ok {
			if f.Required {
				return nil, fmt.Errorf("field %q: %w", f.Key, domain.ErrMissingField)
			}
			continue
		}
		if f.Numeric {
			if _, err := strconv.Atoi(value); err != nil {
				return nil, fmt.Errorf("field %q is not a number: %w", f.Key, domain.ErrMissingField)
			}
		}
	}

	return record, nil
}

func asciiLower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + 'a' - 'A'
		}
	}
	return string(b)
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}
