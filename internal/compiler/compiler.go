// Package compiler turns a reviewed exploration lockfile into a Playwright test file.
package compiler

import (
	"fmt"
	"strings"
	"time"

	"browserflow/internal/entity"
	"browserflow/internal/locator"
)

const (
	DefaultOutputDir    = "tests"
	DefaultImportSource = "@playwright/test"

	indentUnit = "  "
)

// Options tune the generated file. Use DefaultOptions as the starting point.
type Options struct {
	PageVariable    string
	IncludeComments bool
	OutputDir       string
	ImportSource    string
	// GeneratedAt is stamped in the header; the lockfile timestamp is used when zero.
	GeneratedAt time.Time
}

func DefaultOptions() Options {
	return Options{
		PageVariable:    entity.DefaultPageVariable,
		IncludeComments: true,
		OutputDir:       DefaultOutputDir,
		ImportSource:    DefaultImportSource,
	}
}

// Compile renders lf (and the optional review) as a test file. It never mutates
// its inputs and returns byte-identical content for identical arguments.
func Compile(lf entity.ExplorationLockfile, opts Options, review *entity.ReviewData) (*entity.GeneratedTest, error) {
	if opts.PageVariable == "" {
		opts.PageVariable = entity.DefaultPageVariable
	}

	if opts.ImportSource == "" {
		opts.ImportSource = DefaultImportSource
	}

	generatedAt := opts.GeneratedAt
	if generatedAt.IsZero() {
		generatedAt = lf.Timestamp
	}

	c := &compilation{
		opts:   opts,
		review: review,
		emit:   entity.EmitOptions{PageVariable: opts.PageVariable},
	}

	c.writeHeader(lf, generatedAt)

	title := locator.Quote(Describe(lf.SpecName))

	c.line(0, fmt.Sprintf("test.describe(%s, () => {", title))
	c.line(1, fmt.Sprintf("test(%s, async ({ %s }) => {", title, fixture(opts.PageVariable)))

	for i, step := range lf.Steps {
		if i > 0 {
			c.blank()
		}

		if err := c.writeStep(step); err != nil {
			return nil, err
		}
	}

	c.writeOutcomes(lf.OutcomeChecks)

	c.line(1, "});")
	c.line(0, "});")

	return &entity.GeneratedTest{
		Path:          TestPath(opts.OutputDir, lf.SpecName),
		Content:       c.out.String(),
		SpecName:      lf.SpecName,
		ExplorationID: lf.ExplorationID,
		GeneratedAt:   generatedAt,
	}, nil
}

type compilation struct {
	opts   Options
	review *entity.ReviewData
	emit   entity.EmitOptions
	out    strings.Builder
}

// line writes s at the given depth; every line of a multi-line s is indented.
func (c *compilation) line(depth int, s string) {
	prefix := strings.Repeat(indentUnit, depth)

	for _, l := range strings.Split(s, "\n") {
		c.out.WriteString(prefix)
		c.out.WriteString(l)
		c.out.WriteByte('\n')
	}
}

func (c *compilation) blank() {
	c.out.WriteByte('\n')
}

func (c *compilation) writeHeader(lf entity.ExplorationLockfile, generatedAt time.Time) {
	c.line(0, "/**")
	c.line(0, " * Generated by browserflow from a reviewed exploration. Do not edit by hand.")
	c.line(0, " *")
	c.line(0, " * Spec: "+headerValue(lf.SpecName))
	c.line(0, " * Spec path: "+headerValue(lf.SpecPath))
	c.line(0, " * Exploration: "+headerValue(lf.ExplorationID))

	if c.review != nil {
		c.line(0, fmt.Sprintf(" * Reviewed by: %s at %s", headerValue(c.review.Reviewer), formatTime(c.review.SubmittedAt)))
	}

	c.line(0, " * Generated at: "+formatTime(generatedAt))
	c.line(0, " */")
	c.line(0, fmt.Sprintf("import { test, expect } from %s;", locator.Quote(c.opts.ImportSource)))
	c.blank()
}

func (c *compilation) writeStep(step entity.ExplorationStep) error {
	name := step.SpecAction.Description
	if strings.TrimSpace(name) == "" {
		name = fmt.Sprintf("step_%d", step.StepIndex)
	}

	body, err := c.stepBody(step)
	if err != nil {
		return err
	}

	c.line(2, fmt.Sprintf("await test.step(%s, async () => {", locator.Quote(name)))

	if c.opts.IncludeComments {
		c.line(3, intentComment(step))

		if r, ok := c.stepReview(step.StepIndex); ok && r.Comment != "" {
			c.line(3, "// review: "+commentText(r.Comment))
		}
	}

	for _, stmt := range body {
		c.line(3, stmt)
	}

	c.line(2, "});")

	return nil
}

func (c *compilation) writeOutcomes(checks []entity.OutcomeCheck) {
	var lines []string

	for _, oc := range checks {
		if !oc.Passed {
			continue
		}

		lines = append(lines, "// - "+commentText(outcomeText(oc)))
	}

	if len(lines) == 0 {
		return
	}

	c.blank()
	c.line(2, "// Verified outcomes:")

	for _, l := range lines {
		c.line(2, l)
	}
}

func (c *compilation) stepReview(index int) (entity.StepReview, bool) {
	if c.review == nil || c.review.Steps == nil {
		return entity.StepReview{}, false
	}

	r, ok := c.review.Steps[index]

	return r, ok
}

func intentComment(step entity.ExplorationStep) string {
	a := step.SpecAction
	text := string(a.Action)

	if detail := firstNonEmpty(a.Target, a.URL, a.Selector, a.Question, a.Name); detail != "" {
		text += ": " + detail
	}

	if m := step.Execution.DiscoveryMethod; m != "" {
		text += " (located via " + m + ")"
	}

	return "// " + commentText(text)
}

func outcomeText(oc entity.OutcomeCheck) string {
	text := oc.Check

	if oc.Expected != nil {
		text += fmt.Sprintf(" (expected %v", oc.Expected)
		if oc.Actual != nil {
			text += fmt.Sprintf(", observed %v", oc.Actual)
		}
		text += ")"
	} else if oc.Actual != nil {
		text += fmt.Sprintf(" (observed %v)", oc.Actual)
	}

	return text
}

func fixture(pageVar string) string {
	if pageVar == entity.DefaultPageVariable {
		return pageVar
	}

	return "page: " + pageVar
}

// commentText keeps free text on a single line comment.
func commentText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// headerValue keeps free text inside the header block comment.
func headerValue(s string) string {
	return strings.ReplaceAll(commentText(s), "*/", "* /")
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}

	return ""
}
