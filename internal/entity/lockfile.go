package entity

import "time"

type ActionKind string

const (
	ActionNavigate       ActionKind = "navigate"
	ActionClick          ActionKind = "click"
	ActionSelect         ActionKind = "select"
	ActionCheck          ActionKind = "check"
	ActionUncheck        ActionKind = "uncheck"
	ActionScrollIntoView ActionKind = "scroll_into_view"
	ActionFill           ActionKind = "fill"
	ActionType           ActionKind = "type"
	ActionWait           ActionKind = "wait"
	ActionVerifyState    ActionKind = "verify_state"
	ActionScreenshot     ActionKind = "screenshot"
	ActionBack           ActionKind = "back"
	ActionForward        ActionKind = "forward"
	ActionRefresh        ActionKind = "refresh"
	ActionReload         ActionKind = "reload"
	ActionIdentify       ActionKind = "identify_element"
	ActionAIVerify       ActionKind = "ai_verify"
	ActionCustom         ActionKind = "custom"
)

type WaitFor string

const (
	WaitForElement WaitFor = "element"
	WaitForText    WaitFor = "text"
	WaitForURL     WaitFor = "url"
	WaitForTime    WaitFor = "time"
)

type CheckType string

const (
	CheckElementVisible    CheckType = "element_visible"
	CheckElementNotVisible CheckType = "element_not_visible"
	CheckTextContains      CheckType = "text_contains"
	CheckTextNotContains   CheckType = "text_not_contains"
	CheckURLContains       CheckType = "url_contains"
	CheckElementCount      CheckType = "element_count"
	CheckAttributeEquals   CheckType = "attribute_equals"
)

// ExplorationLockfile is the finalized record of one exploration run.
type ExplorationLockfile struct {
	SpecName      string            `json:"specName" yaml:"specName"`
	SpecPath      string            `json:"specPath" yaml:"specPath"`
	ExplorationID string            `json:"explorationId" yaml:"explorationId"`
	Timestamp     time.Time         `json:"timestamp" yaml:"timestamp"`
	Steps         []ExplorationStep `json:"steps" yaml:"steps"`
	OutcomeChecks []OutcomeCheck    `json:"outcomeChecks,omitempty" yaml:"outcomeChecks,omitempty"`
}

type ExplorationStep struct {
	StepIndex  int           `json:"stepIndex" yaml:"stepIndex"`
	SpecAction SpecAction    `json:"specAction" yaml:"specAction"`
	Execution  StepExecution `json:"execution" yaml:"execution"`
}

// SpecAction is the declared intent of a step.
type SpecAction struct {
	Action      ActionKind `json:"action" yaml:"action"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	Target      string     `json:"target,omitempty" yaml:"target,omitempty"`
	Selector    string     `json:"selector,omitempty" yaml:"selector,omitempty"`
	URL         string     `json:"url,omitempty" yaml:"url,omitempty"`
	Value       string     `json:"value,omitempty" yaml:"value,omitempty"`
	Option      string     `json:"option,omitempty" yaml:"option,omitempty"`
	Key         string     `json:"key,omitempty" yaml:"key,omitempty"`
	PressEnter  bool       `json:"pressEnter,omitempty" yaml:"pressEnter,omitempty"`
	Checked     *bool      `json:"checked,omitempty" yaml:"checked,omitempty"`
	Question    string     `json:"question,omitempty" yaml:"question,omitempty"`

	Wait   *WaitCondition `json:"wait,omitempty" yaml:"wait,omitempty"`
	Checks []StateCheck   `json:"checks,omitempty" yaml:"checks,omitempty"`

	Name              string       `json:"name,omitempty" yaml:"name,omitempty"`
	Mask              []MaskRegion `json:"mask,omitempty" yaml:"mask,omitempty"`
	MaxDiffPixelRatio *float64     `json:"maxDiffPixelRatio,omitempty" yaml:"maxDiffPixelRatio,omitempty"`
	Threshold         *float64     `json:"threshold,omitempty" yaml:"threshold,omitempty"`
	Animations        string       `json:"animations,omitempty" yaml:"animations,omitempty"`
	FullPage          *bool        `json:"fullPage,omitempty" yaml:"fullPage,omitempty"`
	Timeout           *int         `json:"timeout,omitempty" yaml:"timeout,omitempty"`
}

// StepExecution is what actually happened when the step ran during exploration.
type StepExecution struct {
	Status          string             `json:"status" yaml:"status"`
	DurationMs      int64              `json:"durationMs" yaml:"durationMs"`
	Locator         *LocatorDescriptor `json:"locator,omitempty" yaml:"locator,omitempty"`
	SelectorUsed    string             `json:"selectorUsed,omitempty" yaml:"selectorUsed,omitempty"`
	ValueUsed       string             `json:"valueUsed,omitempty" yaml:"valueUsed,omitempty"`
	DiscoveryMethod string             `json:"discoveryMethod,omitempty" yaml:"discoveryMethod,omitempty"`
	Error           string             `json:"error,omitempty" yaml:"error,omitempty"`
}

type WaitCondition struct {
	For      WaitFor  `json:"for,omitempty" yaml:"for,omitempty"`
	Selector string   `json:"selector,omitempty" yaml:"selector,omitempty"`
	Text     string   `json:"text,omitempty" yaml:"text,omitempty"`
	URL      string   `json:"url,omitempty" yaml:"url,omitempty"`
	Duration Duration `json:"duration,omitempty" yaml:"duration,omitempty"`
}

type StateCheck struct {
	Type      CheckType `json:"type" yaml:"type"`
	Selector  string    `json:"selector,omitempty" yaml:"selector,omitempty"`
	Text      string    `json:"text,omitempty" yaml:"text,omitempty"`
	URL       string    `json:"url,omitempty" yaml:"url,omitempty"`
	Count     *int      `json:"count,omitempty" yaml:"count,omitempty"`
	Attribute string    `json:"attribute,omitempty" yaml:"attribute,omitempty"`
	Value     string    `json:"value,omitempty" yaml:"value,omitempty"`
}

// OutcomeCheck is a spec-level expectation evaluated at the end of exploration.
type OutcomeCheck struct {
	Check    string `json:"check" yaml:"check"`
	Expected any    `json:"expected,omitempty" yaml:"expected,omitempty"`
	Actual   any    `json:"actual,omitempty" yaml:"actual,omitempty"`
	Passed   bool   `json:"passed" yaml:"passed"`
}

// ReviewData is the human review attached to an exploration.
type ReviewData struct {
	Reviewer    string             `json:"reviewer" yaml:"reviewer"`
	SubmittedAt time.Time          `json:"submittedAt" yaml:"submittedAt"`
	Steps       map[int]StepReview `json:"steps,omitempty" yaml:"steps,omitempty"`
}

type StepReview struct {
	Status        string             `json:"status,omitempty" yaml:"status,omitempty"`
	Comment       string             `json:"comment,omitempty" yaml:"comment,omitempty"`
	LockedLocator *LocatorDescriptor `json:"lockedLocator,omitempty" yaml:"lockedLocator,omitempty"`
	Masks         []MaskRegion       `json:"masks,omitempty" yaml:"masks,omitempty"`
}

// GeneratedTest is the compiled test file.
type GeneratedTest struct {
	Path          string    `json:"path"`
	Content       string    `json:"content"`
	SpecName      string    `json:"specName"`
	ExplorationID string    `json:"explorationId"`
	GeneratedAt   time.Time `json:"generatedAt"`
}
