package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ThumbnailField is the only catalog field the tools interpret
const ThumbnailField = "thumbnail"

// Field is a single key/value pair of a game record, kept as raw JSON
type Field struct {
	Key   string
	Value json.RawMessage
}

// Game represents one record of the catalog. Fields are kept in their
// original order and their values are never re-encoded unless replaced.
type Game struct {
	fields []Field
}

// Catalog is the ordered list of game records
type Catalog []*Game

// NewGame creates a game from an ordered list of fields
func NewGame(fields ...Field) *Game {
	return &Game{fields: fields}
}

// Fields returns the fields of the game in document order
func (g *Game) Fields() []Field {
	return g.fields
}

// Get returns the raw value of a field. Duplicate keys resolve to the last one,
// the same way a regular JSON decoder would.
func (g *Game) Get(key string) (json.RawMessage, bool) {
	for i := len(g.fields) - 1; i >= 0; i-- {
		if g.fields[i].Key == key {
			return g.fields[i].Value, true
		}
	}
	return nil, false
}

// String returns a field's value if it is a JSON string
func (g *Game) String(key string) (string, bool) {
	raw, ok := g.Get(key)
	if !ok {
		return "", false
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// Set replaces the value of a field, appending the field if it does not exist
func (g *Game) Set(key string, value json.RawMessage) {
	found := false
	for i := range g.fields {
		if g.fields[i].Key == key {
			g.fields[i].Value = value
			found = true
		}
	}
	if !found {
		g.fields = append(g.fields, Field{Key: key, Value: value})
	}
}

// Thumbnail returns the thumbnail path. ok is false when the field is absent
// or not a string.
func (g *Game) Thumbnail() (string, bool) {
	return g.String(ThumbnailField)
}

// SetThumbnail replaces the thumbnail path
func (g *Game) SetThumbnail(path string) {
	g.Set(ThumbnailField, encodeString(path))
}

// Label returns something human readable to identify the game in logs
func (g *Game) Label() string {
	if title, ok := g.String("title"); ok && title != "" {
		return title
	}
	if raw, ok := g.Get("id"); ok {
		return string(raw)
	}
	return ""
}

// UnmarshalJSON decodes a JSON object while keeping key order and raw values
func (g *Game) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("game record is not a JSON object")
	}

	g.fields = nil
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected token %v in game record", tok)
		}

		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("failed to decode field %q: %w", key, err)
		}
		g.fields = append(g.fields, Field{Key: key, Value: value})
	}

	// Closing brace
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}

// MarshalJSON encodes the record with its fields in their original order
func (g *Game) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, field := range g.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.Write(encodeString(field.Key))
		buf.WriteByte(':')
		buf.Write(field.Value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// encodeString encodes s as a JSON string without HTML escaping
func encodeString(s string) json.RawMessage {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s)
	return json.RawMessage(bytes.TrimRight(buf.Bytes(), "\n"))
}
