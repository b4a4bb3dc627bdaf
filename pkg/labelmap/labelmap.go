// Package labelmap loads TensorFlow object-detection label maps.
//
// A label map is a .pbtxt file (protobuf text format) assigning a positive
// integer id to every label name used in a dataset:
//
//	item {
//	  id: 1
//	  name: 'cat'
//	}
//	item {
//	  id: 2
//	  name: 'dog'
//	}
//
// The loader accepts the item/name/id/display_name subset of the
// StringIntLabelMap schema, single or double quoted strings, and
// #-comments.
package labelmap

import (
	"fmt"
	"io"
	"os"
	"strconv"
)

// LabelMap is an immutable mapping from label name to positive integer id.
type LabelMap struct {
	ids map[string]int
}

// Lookup returns the id assigned to a label name.
func (m *LabelMap) Lookup(name string) (int, bool) {
	id, ok := m.ids[name]
	return id, ok
}

// Len returns the number of labels in the map.
func (m *LabelMap) Len() int { return len(m.ids) }

// ParseFile loads a label map from a .pbtxt file.
func ParseFile(path string) (*LabelMap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	m, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Parse reads label map text and builds the name → id mapping.
func Parse(r io.Reader) (*LabelMap, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	tokens, err := lex(data)
	if err != nil {
		return nil, err
	}

	m := &LabelMap{ids: make(map[string]int)}
	seenIDs := make(map[int]string)

	pos := 0
	next := func() (token, bool) {
		if pos >= len(tokens) {
			return token{}, false
		}
		t := tokens[pos]
		pos++
		return t, true
	}

	for pos < len(tokens) {
		t, _ := next()
		if t.quoted || t.text != "item" {
			return nil, fmt.Errorf("label map: line %d: expected \"item\", got %q", t.line, t.text)
		}
		itemLine := t.line
		t, ok := next()
		if ok && t.text == ":" && !t.quoted {
			t, ok = next()
		}
		if !ok || t.quoted || t.text != "{" {
			return nil, fmt.Errorf("label map: line %d: expected \"{\" after item", itemLine)
		}

		var name string
		id := 0
		hasID := false
		for {
			t, ok = next()
			if !ok {
				return nil, fmt.Errorf("label map: line %d: unterminated item block", itemLine)
			}
			if !t.quoted && t.text == "}" {
				break
			}
			key := t
			t, ok = next()
			if !ok || t.quoted || t.text != ":" {
				return nil, fmt.Errorf("label map: line %d: expected \":\" after %q", key.line, key.text)
			}
			val, ok := next()
			if !ok {
				return nil, fmt.Errorf("label map: line %d: missing value for %q", key.line, key.text)
			}
			switch key.text {
			case "name":
				if !val.quoted {
					return nil, fmt.Errorf("label map: line %d: name must be a quoted string", val.line)
				}
				name = val.text
			case "id":
				n, err := strconv.Atoi(val.text)
				if err != nil {
					return nil, fmt.Errorf("label map: line %d: invalid id %q", val.line, val.text)
				}
				id = n
				hasID = true
			case "display_name":
				// Accepted and ignored; ids are keyed on name.
			default:
				return nil, fmt.Errorf("label map: line %d: unsupported field %q", key.line, key.text)
			}
		}

		if name == "" {
			return nil, fmt.Errorf("label map: line %d: item is missing a name", t.line)
		}
		if !hasID {
			return nil, fmt.Errorf("label map: line %d: item %q is missing an id", t.line, name)
		}
		if id < 1 {
			return nil, fmt.Errorf("label map: line %d: item %q has id %d, ids must be positive", t.line, name, id)
		}
		if _, dup := m.ids[name]; dup {
			return nil, fmt.Errorf("label map: line %d: duplicate label %q", t.line, name)
		}
		if other, dup := seenIDs[id]; dup {
			return nil, fmt.Errorf("label map: line %d: id %d assigned to both %q and %q", t.line, id, other, name)
		}
		m.ids[name] = id
		seenIDs[id] = name
	}

	if len(m.ids) == 0 {
		return nil, fmt.Errorf("label map: no items defined")
	}
	return m, nil
}

type token struct {
	text   string
	line   int
	quoted bool
}

// lex splits label map text into tokens, tracking line numbers for error
// reporting. Quoted strings keep their content without the quotes.
func lex(data []byte) ([]token, error) {
	var tokens []token
	line := 1
	i := 0
	for i < len(data) {
		c := data[i]
		switch {
		case c == '\n':
			line++
			i++
		case c == ' ' || c == '\t' || c == '\r':
			i++
		case c == '#':
			for i < len(data) && data[i] != '\n' {
				i++
			}
		case c == '{' || c == '}' || c == ':':
			tokens = append(tokens, token{text: string(c), line: line})
			i++
		case c == '\'' || c == '"':
			quote := c
			i++
			start := i
			for i < len(data) && data[i] != quote {
				if data[i] == '\n' {
					return nil, fmt.Errorf("label map: line %d: unterminated string", line)
				}
				i++
			}
			if i >= len(data) {
				return nil, fmt.Errorf("label map: line %d: unterminated string", line)
			}
			tokens = append(tokens, token{text: string(data[start:i]), line: line, quoted: true})
			i++
		default:
			start := i
			for i < len(data) && !isDelimiter(data[i]) {
				i++
			}
			tokens = append(tokens, token{text: string(data[start:i]), line: line})
		}
	}
	return tokens, nil
}

func isDelimiter(c byte) bool {
	switch c {
	case ' ', '\t', '\r', '\n', '{', '}', ':', '#', '\'', '"':
		return true
	}
	return false
}
