package locator

import "browserflow/internal/entity"

// implicitRoles maps a tag name to its implicit ARIA role.
var implicitRoles = map[string]string{
	"a":        "link",
	"article":  "article",
	"aside":    "complementary",
	"button":   "button",
	"dialog":   "dialog",
	"footer":   "contentinfo",
	"form":     "form",
	"h1":       "heading",
	"h2":       "heading",
	"h3":       "heading",
	"h4":       "heading",
	"h5":       "heading",
	"h6":       "heading",
	"header":   "banner",
	"img":      "img",
	"input":    "textbox",
	"li":       "listitem",
	"main":     "main",
	"nav":      "navigation",
	"ol":       "list",
	"option":   "option",
	"progress": "progressbar",
	"section":  "region",
	"select":   "combobox",
	"table":    "table",
	"textarea": "textbox",
	"ul":       "list",
}

// inputTypeRoles refines the role of an <input> by its type attribute.
var inputTypeRoles = map[string]string{
	"button":   "button",
	"checkbox": "checkbox",
	"radio":    "radio",
	"range":    "slider",
	"reset":    "button",
	"search":   "searchbox",
	"submit":   "button",
}

var strategyConfidence = map[entity.Strategy]float64{
	entity.StrategyRef:    1.0,
	entity.StrategyTestID: 0.95,
}

const (
	roleNamedConfidence   = 0.9
	roleUnnamedConfidence = 0.85
	textExactConfidence   = 0.85
	textPartialConfidence = 0.7
	cssIDConfidence       = 0.75
	cssClassConfidence    = 0.6
	cssTagConfidence      = 0.4

	maxTextLength      = 50
	maxExactTextLength = 30
	maxCSSClasses      = 2
)

// signal weights used when matching a query against an element
const (
	textExactScore    = 1.0
	textContainsScore = 0.8
	textTermsWeight   = 0.6
	ariaExactScore    = 0.9
	ariaContainsScore = 0.7
	ariaTermsWeight   = 0.5
	tagScore          = 0.4
	explicitRoleScore = 0.5
	implicitRoleScore = 0.4
	testIDTermsWeight = 0.3
	classTermsWeight  = 0.2
	maxScore          = 1.0
)

// DefaultMaxCandidates bounds a resolution result when no limit is configured.
const DefaultMaxCandidates = 5

// implicitRole returns the role a tag carries without an explicit role attribute.
func implicitRole(el entity.ElementInfo) string {
	tag := el.NormalizedTag()
	if tag == "input" {
		if role, ok := inputTypeRoles[el.Attr("type")]; ok {
			return role
		}
	}

	return implicitRoles[tag]
}
