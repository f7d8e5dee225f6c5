// Package codec encodes the persisted state tree. Every backend stores the
// same JSON document, keyed under RootKey.
package codec

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/idilsaglam/combo/internal/model"
)

// RootKey is the fixed key the state tree lives under.
const RootKey = "root"

type envelope struct {
	Root *model.State `json:"root"`
}

// Encode renders st as indented JSON wrapped in the root envelope.
func Encode(st *model.State) ([]byte, error) {
	if st == nil {
		st = model.NewState()
	}
	b, err := json.MarshalIndent(envelope{Root: st}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("json marshal: %w", err)
	}
	return append(b, '\n'), nil
}

// Decode accepts three shapes:
//   - the root envelope written by Encode,
//   - a bare state object,
//   - a browser persist blob whose "lists" field holds the slice state,
//     either as an object or as a JSON string.
//
// Missing collections come back empty, never nil.
func Decode(b []byte) (*model.State, error) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return model.NewState(), nil
	}
	var top map[string]json.RawMessage
	if err := json.Unmarshal(b, &top); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}
	if raw, ok := top[RootKey]; ok {
		top = nil
		if err := json.Unmarshal(raw, &top); err != nil {
			return nil, fmt.Errorf("json unmarshal %s: %w", RootKey, err)
		}
		b = raw
	}
	// the browser keeps the whole slice under "lists", usually as a string
	if raw, ok := top["lists"]; ok && len(raw) > 0 {
		switch raw[0] {
		case '"':
			var inner string
			if err := json.Unmarshal(raw, &inner); err != nil {
				return nil, fmt.Errorf("json unmarshal persisted slice: %w", err)
			}
			b = []byte(inner)
		case '{':
			b = raw
		}
	}

	st := &model.State{}
	if err := json.Unmarshal(b, st); err != nil {
		return nil, fmt.Errorf("json unmarshal state: %w", err)
	}
	st.Normalize()
	return st, nil
}
