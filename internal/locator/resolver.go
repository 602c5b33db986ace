package locator

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"browserflow/internal/entity"
)

// Resolver ranks locator strategies for elements of a snapshot.
type Resolver struct {
	maxCandidates int
}

// NewResolver returns a Resolver that keeps at most maxCandidates results.
// A non-positive limit falls back to DefaultMaxCandidates.
func NewResolver(maxCandidates int) *Resolver {
	if maxCandidates <= 0 {
		maxCandidates = DefaultMaxCandidates
	}

	return &Resolver{maxCandidates: maxCandidates}
}

// ResolveCandidates picks the snapshot element that best matches query and
// returns its candidates, best first. An empty query, an empty snapshot or a
// query no element scores on yields an empty list.
func (r *Resolver) ResolveCandidates(query string, snap entity.Snapshot) []entity.LocatorCandidate {
	el, _, ok := r.Match(query, snap)
	if !ok {
		return []entity.LocatorCandidate{}
	}

	candidates := ResolveCandidatesForElement(el)
	if len(candidates) > r.maxCandidates {
		candidates = candidates[:r.maxCandidates]
	}

	return candidates
}

// Match returns the highest scoring element. On equal scores the element that
// comes first in snap.Elements wins.
func (r *Resolver) Match(query string, snap entity.Snapshot) (entity.ElementInfo, float64, bool) {
	q := newQuery(query)
	if q.empty() || len(snap.Elements) == 0 {
		return entity.ElementInfo{}, 0, false
	}

	best := -1
	bestScore := 0.0

	for i, el := range snap.Elements {
		if s := q.score(el); s > bestScore {
			best = i
			bestScore = s
		}
	}

	if best < 0 {
		return entity.ElementInfo{}, 0, false
	}

	return snap.Elements[best], bestScore, true
}

type query struct {
	text  string
	terms []string
}

func newQuery(raw string) query {
	terms := strings.Fields(strings.ToLower(raw))

	return query{text: strings.Join(terms, " "), terms: terms}
}

func (q query) empty() bool {
	return len(q.terms) == 0
}

func (q query) score(el entity.ElementInfo) float64 {
	total := 0.0

	total += q.phraseScore(normalizeText(el.Text), textExactScore, textContainsScore, textTermsWeight)
	total += q.phraseScore(normalizeText(el.AriaLabel), ariaExactScore, ariaContainsScore, ariaTermsWeight)

	if tag := el.NormalizedTag(); tag != "" && q.hasTerm(tag) {
		total += tagScore
	}

	if role := strings.ToLower(strings.TrimSpace(el.Role)); role != "" && q.hasTerm(role) {
		total += explicitRoleScore
	} else if role := implicitRole(el); role != "" && q.hasTerm(role) {
		total += implicitRoleScore
	}

	total += q.termFraction(normalizeIdent(el.EffectiveTestID())) * testIDTermsWeight
	total += q.termFraction(normalizeIdent(el.ClassName)) * classTermsWeight

	return min(total, maxScore)
}

// phraseScore scores exact equality, then containment, then term overlap.
func (q query) phraseScore(value string, exact, contains, weight float64) float64 {
	if value == "" {
		return 0
	}

	switch {
	case value == q.text:
		return exact
	case strings.Contains(value, q.text):
		return contains
	default:
		return q.termFraction(value) * weight
	}
}

func (q query) termFraction(value string) float64 {
	if value == "" || len(q.terms) == 0 {
		return 0
	}

	found := 0

	for _, term := range q.terms {
		if strings.Contains(value, term) {
			found++
		}
	}

	return float64(found) / float64(len(q.terms))
}

func (q query) hasTerm(word string) bool {
	for _, term := range q.terms {
		if term == word {
			return true
		}
	}

	return false
}

func normalizeText(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

func normalizeIdent(s string) string {
	s = strings.NewReplacer("-", " ", "_", " ").Replace(s)

	return normalizeText(s)
}

// ResolveCandidatesForElement returns every applicable strategy for a known
// element, best first. Equal confidences keep generation order:
// ref, testid, role, text, css.
func ResolveCandidatesForElement(el entity.ElementInfo) []entity.LocatorCandidate {
	candidates := make([]entity.LocatorCandidate, 0, 5)

	if el.Ref != "" {
		candidates = append(candidates, entity.LocatorCandidate{
			Hint:        el.Ref,
			Strategy:    entity.StrategyRef,
			Confidence:  strategyConfidence[entity.StrategyRef],
			Description: "snapshot reference " + el.Ref,
			Descriptor:  entity.ByRef(el.Ref),
		})
	}

	if testID := el.EffectiveTestID(); testID != "" {
		candidates = append(candidates, entity.LocatorCandidate{
			Hint:        testID,
			Strategy:    entity.StrategyTestID,
			Confidence:  strategyConfidence[entity.StrategyTestID],
			Description: fmt.Sprintf("test id %q", testID),
			Descriptor:  entity.ByMethod(MethodGetByTestID, entity.LocatorArgs{TestID: testID}),
		})
	}

	if c, ok := roleCandidate(el); ok {
		candidates = append(candidates, c)
	}

	if c, ok := textCandidate(el); ok {
		candidates = append(candidates, c)
	}

	candidates = append(candidates, cssCandidate(el))

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Confidence > candidates[j].Confidence
	})

	return candidates
}

func roleCandidate(el entity.ElementInfo) (entity.LocatorCandidate, bool) {
	role := strings.TrimSpace(el.Role)
	if role == "" {
		role = implicitRole(el)
	}

	if role == "" {
		return entity.LocatorCandidate{}, false
	}

	name := accessibleName(el)
	confidence := roleUnnamedConfidence
	hint := "role=" + role
	description := "role " + role

	if name != "" {
		confidence = roleNamedConfidence
		hint += fmt.Sprintf("[name=%q]", name)
		description += fmt.Sprintf(" named %q", name)
	}

	return entity.LocatorCandidate{
		Hint:        hint,
		Strategy:    entity.StrategyRole,
		Confidence:  confidence,
		Description: description,
		Descriptor:  entity.ByMethod(MethodGetByRole, entity.LocatorArgs{Role: role, Name: name}),
	}, true
}

// accessibleName prefers aria-label, then short visible text.
func accessibleName(el entity.ElementInfo) string {
	if label := strings.TrimSpace(el.AriaLabel); label != "" {
		return label
	}

	text := collapseSpace(el.Text)
	if text != "" && utf8.RuneCountInString(text) <= maxTextLength {
		return text
	}

	return ""
}

func textCandidate(el entity.ElementInfo) (entity.LocatorCandidate, bool) {
	text := collapseSpace(el.Text)
	length := utf8.RuneCountInString(text)

	if length == 0 || length > maxTextLength {
		return entity.LocatorCandidate{}, false
	}

	if length <= maxExactTextLength {
		exact := true

		return entity.LocatorCandidate{
			Hint:        fmt.Sprintf("text=%q", text),
			Strategy:    entity.StrategyText,
			Confidence:  textExactConfidence,
			Description: fmt.Sprintf("exact text %q", text),
			Descriptor:  entity.ByMethod(MethodGetByText, entity.LocatorArgs{Text: text, Exact: &exact}),
		}, true
	}

	return entity.LocatorCandidate{
		Hint:        "text=" + text,
		Strategy:    entity.StrategyText,
		Confidence:  textPartialConfidence,
		Description: fmt.Sprintf("text containing %q", text),
		Descriptor:  entity.ByMethod(MethodGetByText, entity.LocatorArgs{Text: text}),
	}, true
}

// cssCandidate prefers #id, then tag with up to two classes, then the bare tag.
func cssCandidate(el entity.ElementInfo) entity.LocatorCandidate {
	tag := el.NormalizedTag()
	if tag == "" {
		tag = "*"
	}

	selector := tag
	confidence := cssTagConfidence

	if id := strings.TrimSpace(el.ID); id != "" {
		selector = "#" + EscapeIdent(id)
		confidence = cssIDConfidence
	} else if classes := strings.Fields(el.ClassName); len(classes) > 0 {
		if len(classes) > maxCSSClasses {
			classes = classes[:maxCSSClasses]
		}
		for i, class := range classes {
			classes[i] = EscapeIdent(class)
		}
		selector = tag + "." + strings.Join(classes, ".")
		confidence = cssClassConfidence
	}

	return entity.LocatorCandidate{
		Hint:        selector,
		Strategy:    entity.StrategyCSS,
		Confidence:  confidence,
		Description: "css selector " + selector,
		Descriptor:  entity.BySelector(selector),
	}
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
