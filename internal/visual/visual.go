// Package visual emits screenshot assertions, captures and mask overlays.
//
// Region masks cannot be passed to the screenshot API directly, so each one is
// materialised as a fixed, non-interactive overlay element tagged with
// data-bf-mask="<i>" and masked by selector. Indices count region masks only.
package visual

import (
	"fmt"
	"path"
	"strconv"
	"strings"

	"browserflow/internal/entity"
	"browserflow/internal/locator"
)

const (
	MaskAttribute           = "data-bf-mask"
	DefaultCompareThreshold = 0.05
	CompareHelper           = "compareImages"

	pngSuffix = ".png"
)

// NormalizeName makes sure name ends in .png.
func NormalizeName(name string) string {
	if strings.HasSuffix(name, pngSuffix) {
		return name
	}

	return name + pngSuffix
}

// BuildMaskArray returns one locator expression per mask, in input order.
// Masks with neither a selector nor a region are skipped.
func BuildMaskArray(mask []entity.MaskRegion, pageVar string) []string {
	pageVar = pageOrDefault(pageVar)
	out := make([]string, 0, len(mask))
	region := 0

	for _, m := range mask {
		if m.IsEmpty() {
			continue
		}

		if m.IsRegion() {
			out = append(out, overlayLocator(pageVar, region))
			region++

			continue
		}

		out = append(out, pageVar+".locator("+locator.Quote(m.Selector)+")")
	}

	return out
}

// GenerateMaskSetupCode returns one evaluate statement per region mask, one per
// line, or "" when the list holds no region masks.
func GenerateMaskSetupCode(mask []entity.MaskRegion, pageVar string) string {
	pageVar = pageOrDefault(pageVar)
	lines := make([]string, 0, len(mask))
	region := 0

	for _, m := range mask {
		if !m.IsRegion() {
			continue
		}

		lines = append(lines, overlayStatement(pageVar, region, *m.Region))
		region++
	}

	return strings.Join(lines, "\n")
}

// OverlayStyle is the inline style of a region overlay.
func OverlayStyle(r entity.Rect) string {
	return fmt.Sprintf("position:fixed; pointer-events:none; z-index:99999; left:%s%%; top:%s%%; width:%s%%; height:%s%%;",
		formatNumber(r.X), formatNumber(r.Y), formatNumber(r.Width), formatNumber(r.Height))
}

func overlayStatement(pageVar string, index int, r entity.Rect) string {
	return fmt.Sprintf(
		"await %s.evaluate(() => { const el = document.createElement('div'); el.setAttribute('%s', '%d'); el.setAttribute('style', %s); document.body.appendChild(el); });",
		pageVar, MaskAttribute, index, locator.Quote(OverlayStyle(r)),
	)
}

func overlayLocator(pageVar string, index int) string {
	return fmt.Sprintf(`%s.locator('[%s="%d"]')`, pageVar, MaskAttribute, index)
}

// EmitScreenshotAssertion asserts the whole page against a stored baseline.
func EmitScreenshotAssertion(d entity.ScreenshotDirective, opts entity.EmitOptions) string {
	return emitAssertion(opts.Page(), opts.Page(), d)
}

// EmitElementScreenshotAssertion asserts a single element, given as an
// already emitted locator expression, against a stored baseline.
func EmitElementScreenshotAssertion(locatorExpr string, d entity.ScreenshotDirective, opts entity.EmitOptions) string {
	return emitAssertion(opts.Page(), locatorExpr, d)
}

func emitAssertion(pageVar, subject string, d entity.ScreenshotDirective) string {
	args := locator.Quote(NormalizeName(d.Name))

	fields := make([]string, 0, 6)
	if d.MaxDiffPixelRatio != nil {
		fields = append(fields, "maxDiffPixelRatio: "+formatNumber(*d.MaxDiffPixelRatio))
	}

	if d.Threshold != nil {
		fields = append(fields, "threshold: "+formatNumber(*d.Threshold))
	}

	fields = append(fields, captureFields(pageVar, d)...)

	if len(fields) > 0 {
		args += ", " + object(fields)
	}

	return withSetup(GenerateMaskSetupCode(d.Mask, pageVar),
		fmt.Sprintf("await expect(%s).toHaveScreenshot(%s);", subject, args))
}

// EmitScreenshotCapture writes a screenshot to baselinesPath without asserting.
func EmitScreenshotCapture(d entity.ScreenshotDirective, baselinesPath string, opts entity.EmitOptions) string {
	pageVar := opts.Page()
	target := NormalizeName(d.Name)

	if baselinesPath != "" {
		target = path.Join(baselinesPath, target)
	}

	fields := append([]string{"path: " + locator.Quote(target)}, captureFields(pageVar, d)...)

	return withSetup(GenerateMaskSetupCode(d.Mask, pageVar),
		fmt.Sprintf("await %s.screenshot(%s);", pageVar, object(fields)))
}

// captureFields renders the options shared by assertions and captures, in order.
func captureFields(pageVar string, d entity.ScreenshotDirective) []string {
	var fields []string

	if d.Animations != "" {
		fields = append(fields, "animations: "+locator.Quote(d.Animations))
	}

	if d.FullPage != nil {
		fields = append(fields, "fullPage: "+strconv.FormatBool(*d.FullPage))
	}

	if d.Timeout != nil {
		fields = append(fields, "timeout: "+strconv.Itoa(*d.Timeout))
	}

	if masks := BuildMaskArray(d.Mask, pageVar); len(masks) > 0 {
		fields = append(fields, "mask: ["+strings.Join(masks, ", ")+"]")
	}

	return fields
}

// EmitComparison compares two screenshot buffers with the pixel-diff helper
// and asserts the diff ratio stays within threshold. A negative threshold
// means unset and becomes DefaultCompareThreshold; zero demands identical images.
func EmitComparison(baselineVar, actualVar string, threshold float64) string {
	if baselineVar == "" {
		baselineVar = "baseline"
	}

	if actualVar == "" {
		actualVar = "actual"
	}

	if threshold < 0 {
		threshold = DefaultCompareThreshold
	}

	return fmt.Sprintf("const diffRatio = await %s(%s, %s);\nexpect(diffRatio).toBeLessThanOrEqual(%s);",
		CompareHelper, baselineVar, actualVar, formatNumber(threshold))
}

func withSetup(setup, statement string) string {
	if setup == "" {
		return statement
	}

	return setup + "\n" + statement
}

func object(fields []string) string {
	return "{ " + strings.Join(fields, ", ") + " }"
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func pageOrDefault(pageVar string) string {
	if pageVar == "" {
		return entity.DefaultPageVariable
	}

	return pageVar
}
