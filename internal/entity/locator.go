package entity

// Strategy names the way a candidate locates its element.
type Strategy string

const (
	StrategyRef    Strategy = "ref"
	StrategyTestID Strategy = "testid"
	StrategyRole   Strategy = "role"
	StrategyText   Strategy = "text"
	StrategyCSS    Strategy = "css"
	StrategyXPath  Strategy = "xpath"
)

// LocatorCandidate is a scored proposal for locating an element.
type LocatorCandidate struct {
	Hint        string            `json:"locator"`
	Strategy    Strategy          `json:"type"`
	Confidence  float64           `json:"confidence"`
	Description string            `json:"description,omitempty"`
	Descriptor  LocatorDescriptor `json:"descriptor"`
}

// LocatorArgs are the arguments of a named locator method.
type LocatorArgs struct {
	Role     string `json:"role,omitempty" yaml:"role,omitempty"`
	Name     string `json:"name,omitempty" yaml:"name,omitempty"`
	Text     string `json:"text,omitempty" yaml:"text,omitempty"`
	TestID   string `json:"testId,omitempty" yaml:"testId,omitempty"`
	Selector string `json:"selector,omitempty" yaml:"selector,omitempty"`
	Exact    *bool  `json:"exact,omitempty" yaml:"exact,omitempty"`
}

// Lookup returns a string argument by its wire name.
func (a LocatorArgs) Lookup(name string) (string, bool) {
	var v string

	switch name {
	case "role":
		v = a.Role
	case "name":
		v = a.Name
	case "text":
		v = a.Text
	case "testId":
		v = a.TestID
	case "selector":
		v = a.Selector
	}

	return v, v != ""
}

// DescriptorKind tells which form of a LocatorDescriptor is in effect.
type DescriptorKind int

const (
	KindNone DescriptorKind = iota
	KindMethod
	KindSelector
	KindRef
)

// LocatorDescriptor is a locked or resolved locator: a named method with args,
// a raw CSS selector, or a snapshot ref. Kind reports the effective form.
type LocatorDescriptor struct {
	Method   string      `json:"method,omitempty" yaml:"method,omitempty"`
	Args     LocatorArgs `json:"args,omitempty" yaml:"args,omitempty"`
	Selector string      `json:"selector,omitempty" yaml:"selector,omitempty"`
	Ref      string      `json:"ref,omitempty" yaml:"ref,omitempty"`
}

func ByMethod(method string, args LocatorArgs) LocatorDescriptor {
	return LocatorDescriptor{Method: method, Args: args}
}

func BySelector(selector string) LocatorDescriptor {
	return LocatorDescriptor{Selector: selector}
}

func ByRef(ref string) LocatorDescriptor {
	return LocatorDescriptor{Ref: ref}
}

// Kind applies the precedence method > selector > ref.
func (d LocatorDescriptor) Kind() DescriptorKind {
	switch {
	case d.Method != "":
		return KindMethod
	case d.Selector != "":
		return KindSelector
	case d.Ref != "":
		return KindRef
	default:
		return KindNone
	}
}

// EmitOptions controls how a locator expression is rendered.
type EmitOptions struct {
	PageVariable string             `json:"pageVariable,omitempty"`
	ChainFirst   bool               `json:"chainFirst,omitempty"`
	Nth          *int               `json:"nth,omitempty"`
	Within       *LocatorDescriptor `json:"within,omitempty"`
}

const DefaultPageVariable = "page"

// Page returns the page variable, defaulting to "page".
func (o EmitOptions) Page() string {
	if o.PageVariable == "" {
		return DefaultPageVariable
	}

	return o.PageVariable
}
