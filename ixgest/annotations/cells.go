package annotations

import (
	"encoding/json"
	"strings"

	"github.com/teranos/labelgate/errors"
)

// splitList decodes a list-encoded cell into its raw items.
// Accepted encodings:
//   - JSON arrays: ["a", "b"], [1, 6], [0.92, 0.87]
//   - Python list literals as pandas writes them: ['a', 'b'], [1, 6]
//
// String items come back unquoted, other items as their literal text.
func splitList(cell string) ([]string, error) {
	s := strings.TrimSpace(cell)
	if !strings.HasPrefix(s, "[") || !strings.HasSuffix(s, "]") {
		return nil, errors.Newf("expected a bracketed list, got %q", cell)
	}

	if items, ok := splitJSONList(s); ok {
		return items, nil
	}
	return splitLiteralList(s[1 : len(s)-1])
}

func splitJSONList(s string) ([]string, bool) {
	var raw []json.RawMessage
	if err := json.Unmarshal([]byte(s), &raw); err != nil {
		return nil, false
	}
	items := make([]string, 0, len(raw))
	for _, r := range raw {
		if len(r) > 0 && r[0] == '"' {
			var str string
			if err := json.Unmarshal(r, &str); err != nil {
				return nil, false
			}
			items = append(items, str)
			continue
		}
		items = append(items, string(r))
	}
	return items, true
}

// splitLiteralList scans the body of a Python-style list literal.
// A trailing comma is allowed; empty items are not.
func splitLiteralList(body string) ([]string, error) {
	items := []string{}
	i := 0
	for {
		i = skipSpace(body, i)
		if i >= len(body) {
			break
		}

		if q := body[i]; q == '\'' || q == '"' {
			var b strings.Builder
			j := i + 1
			for ; j < len(body) && body[j] != q; j++ {
				if body[j] == '\\' && j+1 < len(body) {
					j++
					b.WriteByte(unescape(body[j]))
					continue
				}
				b.WriteByte(body[j])
			}
			if j >= len(body) {
				return nil, errors.Newf("unterminated string in list at offset %d", i)
			}
			items = append(items, b.String())
			i = j + 1
		} else {
			j := strings.IndexByte(body[i:], ',')
			if j < 0 {
				j = len(body)
			} else {
				j += i
			}
			token := strings.TrimSpace(body[i:j])
			if token == "" {
				return nil, errors.Newf("empty list item at offset %d", i)
			}
			items = append(items, token)
			i = j
		}

		i = skipSpace(body, i)
		if i >= len(body) {
			break
		}
		if body[i] != ',' {
			return nil, errors.Newf("expected ',' at offset %d", i)
		}
		i++
	}
	return items, nil
}

func skipSpace(s string, i int) int {
	for i < len(s) && (s[i] == ' ' || s[i] == '\t' || s[i] == '\n' || s[i] == '\r') {
		i++
	}
	return i
}

func unescape(c byte) byte {
	switch c {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	case 'r':
		return '\r'
	default:
		return c
	}
}
