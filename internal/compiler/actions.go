package compiler

import (
	"errors"
	"fmt"
	"strconv"

	"browserflow/internal/entity"
	"browserflow/internal/locator"
	"browserflow/internal/visual"
	"browserflow/pkg/apperr"
)

var ErrEmptyMask = errors.New("mask has neither selector nor region")

const (
	defaultConfirmKey = "Enter"
	bodySelector      = "body"
)

// stepBody returns the statements of one step block. Exploration-only and
// unknown actions produce a comment marker instead of runtime code.
func (c *compilation) stepBody(step entity.ExplorationStep) ([]string, error) {
	a := step.SpecAction
	page := c.opts.PageVariable

	switch a.Action {
	case entity.ActionNavigate:
		url := firstNonEmpty(step.Execution.ValueUsed, a.URL)
		if url == "" {
			return []string{"// navigate: no URL recorded"}, nil
		}

		return []string{fmt.Sprintf("await %s.goto(%s);", page, locator.Quote(url))}, nil

	case entity.ActionClick:
		return c.onTarget(step, "click()")

	case entity.ActionSelect:
		value := firstNonEmpty(step.Execution.ValueUsed, a.Option, a.Value)
		return c.onTarget(step, "selectOption("+locator.Quote(value)+")")

	case entity.ActionCheck:
		if a.Checked != nil && !*a.Checked {
			return c.onTarget(step, "uncheck()")
		}

		return c.onTarget(step, "check()")

	case entity.ActionUncheck:
		return c.onTarget(step, "uncheck()")

	case entity.ActionScrollIntoView:
		return c.onTarget(step, "scrollIntoViewIfNeeded()")

	case entity.ActionFill:
		return c.onTarget(step, "fill("+locator.Quote(recordedValue(step))+")")

	case entity.ActionType:
		return c.typeText(step)

	case entity.ActionWait:
		return c.wait(step)

	case entity.ActionVerifyState:
		return c.verifyState(step)

	case entity.ActionScreenshot:
		return c.screenshot(step)

	case entity.ActionBack:
		return []string{fmt.Sprintf("await %s.goBack();", page)}, nil

	case entity.ActionForward:
		return []string{fmt.Sprintf("await %s.goForward();", page)}, nil

	case entity.ActionRefresh, entity.ActionReload:
		return []string{fmt.Sprintf("await %s.reload();", page)}, nil

	case entity.ActionIdentify:
		return []string{"// identify_element: " + commentText(fmt.Sprintf("%q resolved during exploration, nothing to replay", a.Target))}, nil

	case entity.ActionAIVerify:
		return []string{"// ai_verify: " + commentText(fmt.Sprintf("%q checked during exploration, not replayed", firstNonEmpty(a.Question, a.Description)))}, nil

	case entity.ActionCustom:
		return []string{"// custom step: " + commentText(firstNonEmpty(a.Description, a.Target, "no description"))}, nil

	default:
		return []string{"// " + commentText(fmt.Sprintf("unsupported action %q, not compiled", string(a.Action)))}, nil
	}
}

// targetLocator resolves the step's element, preferring a review-locked
// locator, then the recorded locator, then the raw selector used.
func (c *compilation) targetLocator(step entity.ExplorationStep) (string, error) {
	const op = "targetLocator"

	descriptor := step.Execution.Locator
	if r, ok := c.stepReview(step.StepIndex); ok && r.LockedLocator != nil {
		descriptor = r.LockedLocator
	}

	fallback := firstNonEmpty(step.Execution.SelectorUsed, step.SpecAction.Selector)

	code, err := locator.ResolveCode(descriptor, fallback, c.emit)
	if err != nil {
		return "", stepError(op, step, err)
	}

	return code, nil
}

func (c *compilation) onTarget(step entity.ExplorationStep, call string) ([]string, error) {
	target, err := c.targetLocator(step)
	if err != nil {
		return nil, err
	}

	return []string{fmt.Sprintf("await %s.%s;", target, call)}, nil
}

func (c *compilation) typeText(step entity.ExplorationStep) ([]string, error) {
	target, err := c.targetLocator(step)
	if err != nil {
		return nil, err
	}

	lines := []string{fmt.Sprintf("await %s.pressSequentially(%s);", target, locator.Quote(recordedValue(step)))}

	if step.SpecAction.PressEnter {
		key := firstNonEmpty(step.SpecAction.Key, defaultConfirmKey)
		lines = append(lines, fmt.Sprintf("await %s.press(%s);", target, locator.Quote(key)))
	}

	return lines, nil
}

func (c *compilation) wait(step entity.ExplorationStep) ([]string, error) {
	const op = "wait"

	page := c.opts.PageVariable
	idle := []string{fmt.Sprintf("await %s.waitForLoadState('networkidle');", page)}

	w := step.SpecAction.Wait
	if w == nil {
		return idle, nil
	}

	switch w.For {
	case entity.WaitForElement:
		selector := firstNonEmpty(w.Selector, step.Execution.SelectorUsed, step.SpecAction.Selector)
		if selector == "" {
			return idle, nil
		}

		return []string{fmt.Sprintf("await %s.waitForSelector(%s);", page, locator.Quote(selector))}, nil

	case entity.WaitForText:
		text := firstNonEmpty(w.Text, step.SpecAction.Value)
		if text == "" {
			return idle, nil
		}

		return []string{fmt.Sprintf("await %s.getByText(%s).first().waitFor({ state: 'visible' });", page, locator.Quote(text))}, nil

	case entity.WaitForURL:
		url := firstNonEmpty(w.URL, step.SpecAction.URL)
		if url == "" {
			return idle, nil
		}

		return []string{fmt.Sprintf("await %s.waitForURL((url) => url.href.includes(%s));", page, locator.Quote(url))}, nil

	case entity.WaitForTime:
		if w.Duration.IsZero() {
			return idle, nil
		}

		d, err := ParseDuration(w.Duration)
		if err != nil {
			return nil, stepError(op, step, err)
		}

		return []string{fmt.Sprintf("await %s.waitForTimeout(%d);", page, d.Milliseconds())}, nil

	default:
		return idle, nil
	}
}

func (c *compilation) verifyState(step entity.ExplorationStep) ([]string, error) {
	const op = "verifyState"

	checks := step.SpecAction.Checks
	if len(checks) == 0 {
		return []string{"// verify_state: no checks declared"}, nil
	}

	lines := make([]string, 0, len(checks))

	for _, check := range checks {
		switch check.Type {
		case entity.CheckURLContains:
			lines = append(lines, fmt.Sprintf("expect(%s.url()).toContain(%s);", c.opts.PageVariable, locator.Quote(check.URL)))

		case entity.CheckTextContains, entity.CheckTextNotContains:
			target, err := c.checkLocator(step, check.Selector, bodySelector)
			if err != nil {
				return nil, err
			}

			lines = append(lines, fmt.Sprintf("await expect(%s).%s(%s);", target,
				negate(check.Type == entity.CheckTextNotContains, "toContainText"), locator.Quote(check.Text)))

		case entity.CheckElementVisible, entity.CheckElementNotVisible:
			target, err := c.checkLocator(step, check.Selector, "")
			if err != nil {
				return nil, err
			}

			lines = append(lines, fmt.Sprintf("await expect(%s).%s();", target,
				negate(check.Type == entity.CheckElementNotVisible, "toBeVisible")))

		case entity.CheckElementCount:
			if check.Count == nil {
				return nil, stepError(op, step, apperr.InvalidReqError(op, "count",
					fmt.Errorf("%s check needs a count", check.Type)))
			}

			target, err := c.checkLocator(step, check.Selector, "")
			if err != nil {
				return nil, err
			}

			lines = append(lines, fmt.Sprintf("await expect(%s).toHaveCount(%s);", target, strconv.Itoa(*check.Count)))

		case entity.CheckAttributeEquals:
			target, err := c.checkLocator(step, check.Selector, "")
			if err != nil {
				return nil, err
			}

			lines = append(lines, fmt.Sprintf("await expect(%s).toHaveAttribute(%s, %s);", target,
				locator.Quote(check.Attribute), locator.Quote(check.Value)))

		default:
			lines = append(lines, "// "+commentText(fmt.Sprintf("unsupported check %q, not compiled", string(check.Type))))
		}
	}

	return lines, nil
}

// checkLocator uses the check's own selector, then the step target, then fallback.
func (c *compilation) checkLocator(step entity.ExplorationStep, selector, fallback string) (string, error) {
	if selector != "" {
		return locator.Emit(entity.BySelector(selector), c.emit)
	}

	if c.hasTarget(step) || fallback == "" {
		return c.targetLocator(step)
	}

	return locator.Emit(entity.BySelector(fallback), c.emit)
}

func (c *compilation) screenshot(step entity.ExplorationStep) ([]string, error) {
	const op = "screenshot"

	a := step.SpecAction

	mask := make([]entity.MaskRegion, 0, len(a.Mask))
	mask = append(mask, a.Mask...)

	if r, ok := c.stepReview(step.StepIndex); ok {
		mask = append(mask, r.Masks...)
	}

	for i, m := range mask {
		if m.IsEmpty() {
			return nil, stepError(op, step, apperr.InvalidReqError(op, "mask",
				fmt.Errorf("%w: mask %d", ErrEmptyMask, i)))
		}
	}

	d := entity.ScreenshotDirective{
		Name:              firstNonEmpty(a.Name, fmt.Sprintf("step-%d", step.StepIndex)),
		Mask:              mask,
		MaxDiffPixelRatio: a.MaxDiffPixelRatio,
		Threshold:         a.Threshold,
		Animations:        a.Animations,
		FullPage:          a.FullPage,
		Timeout:           a.Timeout,
	}

	if !c.hasTarget(step) {
		return []string{visual.EmitScreenshotAssertion(d, c.emit)}, nil
	}

	target, err := c.targetLocator(step)
	if err != nil {
		return nil, err
	}

	return []string{visual.EmitElementScreenshotAssertion(target, d, c.emit)}, nil
}

func (c *compilation) hasTarget(step entity.ExplorationStep) bool {
	if r, ok := c.stepReview(step.StepIndex); ok && r.LockedLocator != nil {
		return true
	}

	return step.Execution.Locator != nil || step.Execution.SelectorUsed != "" || step.SpecAction.Selector != ""
}

func recordedValue(step entity.ExplorationStep) string {
	return firstNonEmpty(step.Execution.ValueUsed, step.SpecAction.Value)
}

func negate(not bool, matcher string) string {
	if not {
		return "not." + matcher
	}

	return matcher
}

func stepError(op string, step entity.ExplorationStep, err error) error {
	return apperr.Wrap(op, apperr.CodeCompileFailed, fmt.Errorf("step %d (%s): %w", step.StepIndex, step.SpecAction.Action, err), map[string]any{
		apperr.MetaStage:  apperr.StageCompile,
		apperr.MetaStep:   step.StepIndex,
		apperr.MetaAction: string(step.SpecAction.Action),
	})
}
