package locator

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"browserflow/internal/entity"
	"browserflow/pkg/apperr"
)

const (
	MethodGetByRole        = "getByRole"
	MethodGetByText        = "getByText"
	MethodGetByLabel       = "getByLabel"
	MethodGetByPlaceholder = "getByPlaceholder"
	MethodGetByTestID      = "getByTestId"
	MethodGetByAltText     = "getByAltText"
	MethodGetByTitle       = "getByTitle"
	MethodLocator          = "locator"
)

var (
	ErrMissingLocatorTarget    = errors.New("locator has no method, selector or ref")
	ErrMissingRequiredArgument = errors.New("missing required locator argument")
	ErrUnknownLocatorMethod    = errors.New("unknown locator method")
	ErrNoLocatorAvailable      = errors.New("no locator or fallback selector available")
)

type methodSpec struct {
	required string
	named    bool
	exact    bool
}

var methods = map[string]methodSpec{
	MethodGetByRole:        {required: "role", named: true, exact: true},
	MethodGetByText:        {required: "text", exact: true},
	MethodGetByLabel:       {required: "text", exact: true},
	MethodGetByPlaceholder: {required: "text", exact: true},
	MethodGetByTestID:      {required: "testId"},
	MethodGetByAltText:     {required: "text", exact: true},
	MethodGetByTitle:       {required: "text", exact: true},
	MethodLocator:          {required: "selector"},
}

// RefAttribute is the attribute snapshot refs are addressed by.
const RefAttribute = "data-ref"

// Emit renders d as a locator expression such as page.getByRole('button').
// A Within parent is emitted first (without index modifiers) and d is chained
// onto it; the index modifier applies to d only.
func Emit(d entity.LocatorDescriptor, opts entity.EmitOptions) (string, error) {
	const op = "Emit"

	base := opts.Page()

	if opts.Within != nil {
		parent, err := Emit(*opts.Within, entity.EmitOptions{PageVariable: opts.PageVariable})
		if err != nil {
			return "", err
		}

		base = parent
	}

	call, err := locatorCall(op, d)
	if err != nil {
		return "", err
	}

	return base + call + indexModifier(opts), nil
}

// ResolveCode emits the recorded descriptor, preferring its method, then its
// selector, then fallbackSelector.
func ResolveCode(d *entity.LocatorDescriptor, fallbackSelector string, opts entity.EmitOptions) (string, error) {
	const op = "ResolveCode"

	switch {
	case d != nil && d.Method != "":
		return Emit(entity.ByMethod(d.Method, d.Args), opts)
	case d != nil && d.Selector != "":
		return Emit(entity.BySelector(d.Selector), opts)
	case fallbackSelector != "":
		return Emit(entity.BySelector(fallbackSelector), opts)
	default:
		return "", apperr.Wrap(op, apperr.CodeInvalidArgument, ErrNoLocatorAvailable, map[string]any{
			apperr.MetaStage: apperr.StageLocator,
		})
	}
}

func locatorCall(op string, d entity.LocatorDescriptor) (string, error) {
	switch d.Kind() {
	case entity.KindMethod:
		return methodCall(op, d.Method, d.Args)
	case entity.KindSelector:
		return ".locator(" + quote(d.Selector) + ")", nil
	case entity.KindRef:
		return ".locator(" + quote(fmt.Sprintf(`[%s="%s"]`, RefAttribute, d.Ref)) + ")", nil
	default:
		return "", apperr.Wrap(op, apperr.CodeInvalidArgument, ErrMissingLocatorTarget, map[string]any{
			apperr.MetaStage: apperr.StageLocator,
		})
	}
}

func methodCall(op, method string, args entity.LocatorArgs) (string, error) {
	spec, ok := methods[method]
	if !ok {
		return "", apperr.Wrap(op, apperr.CodeInvalidArgument,
			fmt.Errorf("%w: %q", ErrUnknownLocatorMethod, method), map[string]any{
				apperr.MetaStage:  apperr.StageLocator,
				apperr.MetaMethod: method,
			})
	}

	value, ok := args.Lookup(spec.required)
	if !ok {
		return "", apperr.Wrap(op, apperr.CodeInvalidArgument,
			fmt.Errorf("%w: %s requires %q", ErrMissingRequiredArgument, method, spec.required), map[string]any{
				apperr.MetaStage:    apperr.StageLocator,
				apperr.MetaMethod:   method,
				apperr.MetaArgument: spec.required,
			})
	}

	var fields []string

	if spec.named && args.Name != "" {
		fields = append(fields, "name: "+quote(args.Name))
	}

	if spec.exact && args.Exact != nil {
		fields = append(fields, "exact: "+strconv.FormatBool(*args.Exact))
	}

	call := "." + method + "(" + quote(value)
	if len(fields) > 0 {
		call += ", { " + strings.Join(fields, ", ") + " }"
	}

	return call + ")", nil
}

// indexModifier applies nth before chainFirst.
func indexModifier(opts entity.EmitOptions) string {
	if opts.Nth != nil {
		switch n := *opts.Nth; n {
		case 0:
			return ".first()"
		case -1:
			return ".last()"
		default:
			return ".nth(" + strconv.Itoa(n) + ")"
		}
	}

	if opts.ChainFirst {
		return ".first()"
	}

	return ""
}

// EscapeString escapes s for a single-quoted JavaScript string literal.
func EscapeString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `'`, `\'`)
	s = strings.ReplaceAll(s, "\n", `\n`)
	s = strings.ReplaceAll(s, "\r", `\r`)
	s = strings.ReplaceAll(s, "\t", `\t`)

	return s
}

// Quote returns s as a single-quoted, escaped JavaScript string literal.
func Quote(s string) string {
	return quote(s)
}

func quote(s string) string {
	return "'" + EscapeString(s) + "'"
}
