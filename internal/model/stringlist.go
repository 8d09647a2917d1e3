package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// StringList is a list column. It is written as a JSON array and parsed
// strictly when read back: a JSON array, a Postgres array literal, a
// comma-delimited string and NULL are the accepted shapes, anything else
// fails the scan instead of leaking an odd value into the API.
type StringList []string

// GormDataType keeps the column portable between Postgres and SQLite.
func (StringList) GormDataType() string { return "text" }

// Value implements driver.Valuer.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	raw, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

// Scan implements sql.Scanner.
func (l *StringList) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*l = StringList{}
		return nil
	case string:
		out, err := parseStringList(v)
		if err != nil {
			return err
		}
		*l = out
		return nil
	case []byte:
		out, err := parseStringList(string(v))
		if err != nil {
			return err
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("string list: unsupported column type %T", src)
	}
}

// MarshalJSON always renders a list, never null.
func (l StringList) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(l))
}

// UnmarshalJSON accepts either a JSON array or a delimited string.
func (l *StringList) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*l = NormalizeToStringArray(v)
	return nil
}

// NormalizeToStringArray coerces nil, a delimited string, a JSON array
// string, a Postgres array literal, []string or []any into a trimmed list
// without empty entries. Applying it to its own output is a no-op.
func NormalizeToStringArray(v any) []string {
	switch t := v.(type) {
	case nil:
		return []string{}
	case []string:
		return cleanList(t)
	case StringList:
		return cleanList(t)
	case []any:
		items := make([]string, 0, len(t))
		for _, item := range t {
			if item == nil {
				continue
			}
			items = append(items, fmt.Sprint(item))
		}
		return cleanList(items)
	case string:
		out, err := parseStringList(t)
		if err != nil {
			// malformed JSON-looking text degrades to a delimited split
			return cleanList(strings.Split(strings.Trim(t, "[]"), ","))
		}
		return out
	default:
		return cleanList([]string{fmt.Sprint(t)})
	}
}

func parseStringList(s string) ([]string, error) {
	s = strings.TrimSpace(s)
	switch {
	case s == "" || s == "null":
		return []string{}, nil
	case strings.HasPrefix(s, "["):
		var items []any
		if err := json.Unmarshal([]byte(s), &items); err != nil {
			return nil, fmt.Errorf("string list: malformed JSON array: %w", err)
		}
		out := make([]string, 0, len(items))
		for _, item := range items {
			if item == nil {
				continue
			}
			out = append(out, fmt.Sprint(item))
		}
		return cleanList(out), nil
	case strings.HasPrefix(s, "{") && strings.HasSuffix(s, "}"):
		return parsePGArray(s[1 : len(s)-1]), nil
	default:
		return cleanList(strings.Split(s, ",")), nil
	}
}

// parsePGArray splits the body of a Postgres text[] literal, honouring
// double-quoted elements.
func parsePGArray(body string) []string {
	var (
		out     []string
		cur     strings.Builder
		inQuote bool
		escaped bool
	)
	for _, r := range body {
		switch {
		case escaped:
			cur.WriteRune(r)
			escaped = false
		case r == '\\':
			escaped = true
		case r == '"':
			inQuote = !inQuote
		case r == ',' && !inQuote:
			out = append(out, cur.String())
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	out = append(out, cur.String())
	cleaned := cleanList(out)
	filtered := cleaned[:0]
	for _, v := range cleaned {
		if v != "NULL" {
			filtered = append(filtered, v)
		}
	}
	return filtered
}

func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
