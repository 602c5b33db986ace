package entity

import "strings"

// ElementInfo is one DOM element as seen by a snapshot.
type ElementInfo struct {
	Ref        string            `json:"ref" yaml:"ref"`
	Tag        string            `json:"tag" yaml:"tag"`
	Role       string            `json:"role,omitempty" yaml:"role,omitempty"`
	Text       string            `json:"text,omitempty" yaml:"text,omitempty"`
	AriaLabel  string            `json:"ariaLabel,omitempty" yaml:"ariaLabel,omitempty"`
	TestID     string            `json:"testId,omitempty" yaml:"testId,omitempty"`
	ClassName  string            `json:"className,omitempty" yaml:"className,omitempty"`
	ID         string            `json:"id,omitempty" yaml:"id,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty" yaml:"attributes,omitempty"`
}

// Attr returns a free-form attribute value.
func (e ElementInfo) Attr(name string) string {
	if e.Attributes == nil {
		return ""
	}

	return e.Attributes[name]
}

// EffectiveTestID prefers the dedicated field, then data-testid, then data-test.
func (e ElementInfo) EffectiveTestID() string {
	if e.TestID != "" {
		return e.TestID
	}

	if v := e.Attr("data-testid"); v != "" {
		return v
	}

	return e.Attr("data-test")
}

// NormalizedTag is the lower-cased tag name.
func (e ElementInfo) NormalizedTag() string {
	return strings.ToLower(strings.TrimSpace(e.Tag))
}

// Snapshot is an ordered view of the elements known on a page. Element order is
// the enumeration order of the producer and is significant for tie-breaking.
type Snapshot struct {
	URL      string        `json:"url,omitempty" yaml:"url,omitempty"`
	Title    string        `json:"title,omitempty" yaml:"title,omitempty"`
	Elements []ElementInfo `json:"elements" yaml:"elements"`
}
