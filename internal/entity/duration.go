package entity

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Duration is a wait length as written by the recorder: either a number of
// milliseconds or a duration string such as "500ms", "2s" or "1m".
type Duration struct {
	Millis *float64
	Text   string
}

func Millis(ms float64) Duration {
	return Duration{Millis: &ms}
}

func DurationText(s string) Duration {
	return Duration{Text: s}
}

func (d Duration) IsZero() bool {
	return d.Millis == nil && d.Text == ""
}

func (d Duration) String() string {
	if d.Millis != nil {
		return strconv.FormatFloat(*d.Millis, 'f', -1, 64) + "ms"
	}

	return d.Text
}

func (d Duration) MarshalJSON() ([]byte, error) {
	switch {
	case d.Millis != nil:
		return json.Marshal(*d.Millis)
	case d.Text != "":
		return json.Marshal(d.Text)
	default:
		return []byte("null"), nil
	}
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*d = Duration{}
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decode duration: %w", err)
		}
		*d = DurationText(s)

		return nil
	}

	var ms float64
	if err := json.Unmarshal(data, &ms); err != nil {
		return fmt.Errorf("decode duration: %w", err)
	}
	*d = Millis(ms)

	return nil
}

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("decode duration: expected scalar, got kind %d", node.Kind)
	}

	if node.Tag == "!!int" || node.Tag == "!!float" {
		ms, err := strconv.ParseFloat(node.Value, 64)
		if err != nil {
			return fmt.Errorf("decode duration: %w", err)
		}
		*d = Millis(ms)

		return nil
	}

	if node.Tag == "!!null" {
		*d = Duration{}
		return nil
	}

	*d = DurationText(node.Value)

	return nil
}
