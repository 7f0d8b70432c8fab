package domain

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Options is the ordered set of answer choices of a question.
//
// Question banks are authored as objects ({"a": "...", "b": "..."}) whose key
// order is the display order, so decoding keeps that order. Encoding always
// produces a list of {label, text}: Postgres JSONB reorders object keys.
type Options []Option

// Text returns the text for label.
func (o Options) Text(label string) (string, bool) {
	for _, opt := range o {
		if opt.Label == label {
			return opt.Text, true
		}
	}
	return "", false
}

// Has reports whether label is offered.
func (o Options) Has(label string) bool {
	_, ok := o.Text(label)
	return ok
}

// Labels returns the labels in display order.
func (o Options) Labels() []string {
	labels := make([]string, 0, len(o))
	for _, opt := range o {
		labels = append(labels, opt.Label)
	}
	return labels
}

func (o *Options) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		*o = nil
		return nil
	}
	if trimmed[0] == '[' {
		var list []Option
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return fmt.Errorf("options: %w", err)
		}
		*o = list
		return nil
	}

	decoder := json.NewDecoder(bytes.NewReader(trimmed))
	tok, err := decoder.Token()
	if err != nil {
		return fmt.Errorf("options: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("options: expected object or list")
	}
	out := Options{}
	for decoder.More() {
		keyTok, err := decoder.Token()
		if err != nil {
			return fmt.Errorf("options: %w", err)
		}
		label, _ := keyTok.(string)
		var text string
		if err := decoder.Decode(&text); err != nil {
			return fmt.Errorf("options[%q]: %w", label, err)
		}
		out = append(out, Option{Label: label, Text: text})
	}
	if _, err := decoder.Token(); err != nil {
		return fmt.Errorf("options: %w", err)
	}
	*o = out
	return nil
}

func (o *Options) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.SequenceNode:
		var list []Option
		if err := node.Decode(&list); err != nil {
			return fmt.Errorf("options: %w", err)
		}
		*o = list
		return nil
	case yaml.MappingNode:
		out := make(Options, 0, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			label := node.Content[i].Value
			var text string
			if err := node.Content[i+1].Decode(&text); err != nil {
				return fmt.Errorf("options[%q]: %w", label, err)
			}
			out = append(out, Option{Label: label, Text: text})
		}
		*o = out
		return nil
	default:
		return fmt.Errorf("options: line %d: expected mapping or sequence", node.Line)
	}
}
