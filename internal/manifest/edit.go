package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/buger/jsonparser"
)

// defaultIndent is used when the document gives no indentation to follow.
const defaultIndent = "  "

// rootSpan returns the offsets of the top-level object's braces, end
// exclusive.
func rootSpan(data []byte) (int, int) {
	start := len(data) - len(bytes.TrimLeft(data, " \t\r\n"))
	end := len(bytes.TrimRight(data, " \t\r\n"))
	return start, end
}

// objectSpan returns the offsets of the object stored at keys, end exclusive.
func objectSpan(data []byte, keys ...string) (int, int, error) {
	value, kind, end, err := jsonparser.Get(data, keys...)
	if err != nil {
		return 0, 0, err
	}
	if kind != jsonparser.Object {
		return 0, 0, fmt.Errorf("%s is a %v, not an object", strings.Join(keys, "."), kind)
	}
	return end - len(value), end, nil
}

// insertMember appends key to the object spanning data[start:end]. The new
// member copies the separator and colon spacing of the object's first
// member; an empty object takes the document's indentation.
func insertMember(data []byte, start, end int, key string, value []byte) ([]byte, error) {
	name, err := encodeString(key)
	if err != nil {
		return nil, err
	}
	inner := data[start+1 : end-1]

	if len(bytes.TrimSpace(inner)) == 0 {
		unit, colon := documentStyle(data)
		var buf bytes.Buffer
		buf.WriteByte('{')
		if unit != "" {
			indent := lineIndent(data, start)
			buf.WriteString("\n" + indent + unit)
			buf.Write(name)
			buf.WriteString(colon)
			buf.Write(value)
			buf.WriteString("\n" + indent)
		} else {
			buf.Write(name)
			buf.WriteString(colon)
			buf.Write(value)
		}
		buf.WriteByte('}')
		return splice(data, start, end, buf.Bytes()), nil
	}

	lead := leadingSpace(inner)
	colon := colonAfterKey(inner[len(lead):])
	sep := lead
	if !strings.Contains(lead, "\n") && strings.HasSuffix(colon, " ") {
		sep = " "
	}

	// insert after the last value, before any space preceding the brace
	at := end - 1
	for at > start+1 && isSpace(data[at-1]) {
		at--
	}

	var buf bytes.Buffer
	buf.WriteByte(',')
	buf.WriteString(sep)
	buf.Write(name)
	buf.WriteString(colon)
	buf.Write(value)
	return splice(data, at, at, buf.Bytes()), nil
}

// documentStyle reports the indentation unit and colon spacing of the
// top-level object. An empty unit means the document is compact.
func documentStyle(data []byte) (string, string) {
	start, end := rootSpan(data)
	if end-start < 2 {
		return defaultIndent, ": "
	}
	inner := data[start+1 : end-1]
	if len(bytes.TrimSpace(inner)) == 0 {
		return defaultIndent, ": "
	}

	lead := leadingSpace(inner)
	colon := colonAfterKey(inner[len(lead):])
	i := strings.LastIndexByte(lead, '\n')
	if i < 0 {
		return "", colon
	}
	unit := lead[i+1:]
	if unit == "" {
		unit = defaultIndent
	}
	return unit, colon
}

// colonAfterKey returns the bytes between a member's key and its value,
// including the colon. member must start at the key's opening quote.
func colonAfterKey(member []byte) string {
	if len(member) == 0 || member[0] != '"' {
		return ": "
	}
	i := 1
	for i < len(member) && member[i] != '"' {
		if member[i] == '\\' {
			i++
		}
		i++
	}
	i++
	j := i
	for j < len(member) && isSpace(member[j]) {
		j++
	}
	if j >= len(member) || member[j] != ':' {
		return ": "
	}
	j++
	for j < len(member) && isSpace(member[j]) {
		j++
	}
	return string(member[i:j])
}

// lineIndent returns the leading whitespace of the line containing pos.
func lineIndent(data []byte, pos int) string {
	lineStart := bytes.LastIndexByte(data[:pos], '\n') + 1
	line := data[lineStart:pos]
	return string(line[:len(line)-len(bytes.TrimLeft(line, " \t"))])
}

func leadingSpace(b []byte) string {
	return string(b[:len(b)-len(bytes.TrimLeft(b, " \t\r\n"))])
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}

func splice(data []byte, from, to int, insert []byte) []byte {
	out := make([]byte, 0, len(data)-(to-from)+len(insert))
	out = append(out, data[:from]...)
	out = append(out, insert...)
	return append(out, data[to:]...)
}

// encodeString renders s as a JSON string without HTML escaping.
func encodeString(s string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
