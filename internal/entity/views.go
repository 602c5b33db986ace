package entity

// CandidateView is a locator candidate together with its emitted code.
type CandidateView struct {
	LocatorCandidate
	Code string `json:"code"`
}

type VisualMode string

const (
	VisualAssert  VisualMode = "assert"
	VisualCapture VisualMode = "capture"
	VisualCompare VisualMode = "compare"
)

// VisualRequest asks for visual-check code. Locator scopes an assertion to one
// element; Baseline, Actual and Threshold only apply to comparisons. A nil
// Threshold uses the configured default.
type VisualRequest struct {
	Mode      VisualMode          `json:"mode"`
	Directive ScreenshotDirective `json:"directive"`
	Locator   *LocatorDescriptor  `json:"locator,omitempty"`
	Page      string              `json:"pageVariable,omitempty"`
	Baseline  string              `json:"baseline,omitempty"`
	Actual    string              `json:"actual,omitempty"`
	Threshold *float64            `json:"threshold,omitempty"`
}
