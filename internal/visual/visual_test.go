package visual

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"browserflow/internal/entity"
)

func floatPtr(v float64) *float64 { return &v }

func boolPtr(v bool) *bool { return &v }

func intPtr(v int) *int { return &v }

func mixedMask() []entity.MaskRegion {
	return []entity.MaskRegion{
		entity.MaskSelector(".a", ""),
		entity.MaskArea(entity.Rect{X: 10, Y: 20, Width: 30, Height: 40}, "banner"),
		entity.MaskArea(entity.Rect{X: 50, Y: 5, Width: 10, Height: 10}, ""),
	}
}

func TestNormalizeName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "home.png", NormalizeName("home"))
	assert.Equal(t, "home.png", NormalizeName("home.png"))
}

func TestGenerateMaskSetupCode_MixedMask(t *testing.T) {
	t.Parallel()

	code := GenerateMaskSetupCode(mixedMask(), "page")
	lines := strings.Split(code, "\n")
	require.Len(t, lines, 2)

	assert.Equal(t,
		`await page.evaluate(() => { const el = document.createElement('div'); el.setAttribute('data-bf-mask', '0'); el.setAttribute('style', 'position:fixed; pointer-events:none; z-index:99999; left:10%; top:20%; width:30%; height:40%;'); document.body.appendChild(el); });`,
		lines[0])
	assert.Contains(t, lines[1], `el.setAttribute('data-bf-mask', '1')`)
	assert.Contains(t, lines[1], "left:50%; top:5%; width:10%; height:10%;")
	assert.Equal(t, 2, strings.Count(code, "page.evaluate("))
}

func TestGenerateMaskSetupCode_NoRegions(t *testing.T) {
	t.Parallel()

	assert.Empty(t, GenerateMaskSetupCode(nil, "page"))
	assert.Empty(t, GenerateMaskSetupCode([]entity.MaskRegion{entity.MaskSelector(".clock", "")}, "page"))
}

func TestBuildMaskArray_PreservesOrderAndIndexesRegionsOnly(t *testing.T) {
	t.Parallel()

	mask := []entity.MaskRegion{
		entity.MaskArea(entity.Rect{Width: 1, Height: 1}, ""),
		entity.MaskSelector(".a", ""),
		entity.MaskArea(entity.Rect{Width: 2, Height: 2}, ""),
		entity.MaskSelector("#b", ""),
		entity.MaskArea(entity.Rect{Width: 3, Height: 3}, ""),
	}

	assert.Equal(t, []string{
		`p.locator('[data-bf-mask="0"]')`,
		`p.locator('.a')`,
		`p.locator('[data-bf-mask="1"]')`,
		`p.locator('#b')`,
		`p.locator('[data-bf-mask="2"]')`,
	}, BuildMaskArray(mask, "p"))
}

func TestBuildMaskArray_SkipsEmptyMasks(t *testing.T) {
	t.Parallel()

	mask := []entity.MaskRegion{
		{Reason: "nothing to mask"},
		entity.MaskArea(entity.Rect{Width: 1, Height: 1}, ""),
		{},
		entity.MaskSelector(".a", ""),
	}

	assert.Equal(t, []string{
		`p.locator('[data-bf-mask="0"]')`,
		`p.locator('.a')`,
	}, BuildMaskArray(mask, "p"))
}

func TestEmitScreenshotAssertion_OnlyEmptyMasks(t *testing.T) {
	t.Parallel()

	d := entity.ScreenshotDirective{Name: "home", Mask: []entity.MaskRegion{{Reason: "x"}}}

	assert.Equal(t, "await expect(page).toHaveScreenshot('home.png');", EmitScreenshotAssertion(d, entity.EmitOptions{}))
}

func TestEmitScreenshotAssertion_MixedMask(t *testing.T) {
	t.Parallel()

	got := EmitScreenshotAssertion(entity.ScreenshotDirective{Name: "checkout", Mask: mixedMask()}, entity.EmitOptions{})
	lines := strings.Split(got, "\n")
	require.Len(t, lines, 3)

	assert.True(t, strings.HasPrefix(lines[0], "await page.evaluate("))
	assert.True(t, strings.HasPrefix(lines[1], "await page.evaluate("))
	assert.Equal(t,
		`await expect(page).toHaveScreenshot('checkout.png', { mask: [page.locator('.a'), page.locator('[data-bf-mask="0"]'), page.locator('[data-bf-mask="1"]')] });`,
		lines[2])
}

func TestEmitScreenshotAssertion_Options(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		d    entity.ScreenshotDirective
		want string
	}{
		{
			name: "no options",
			d:    entity.ScreenshotDirective{Name: "home.png"},
			want: "await expect(page).toHaveScreenshot('home.png');",
		},
		{
			name: "all options in order",
			d: entity.ScreenshotDirective{
				Name:              "home",
				Mask:              []entity.MaskRegion{entity.MaskSelector(".ad", "")},
				MaxDiffPixelRatio: floatPtr(0.01),
				Threshold:         floatPtr(0.2),
				Animations:        "disabled",
				FullPage:          boolPtr(true),
				Timeout:           intPtr(5000),
			},
			want: "await expect(page).toHaveScreenshot('home.png', { maxDiffPixelRatio: 0.01, threshold: 0.2, animations: 'disabled', fullPage: true, timeout: 5000, mask: [page.locator('.ad')] });",
		},
		{
			name: "escaped name",
			d:    entity.ScreenshotDirective{Name: "it's", FullPage: boolPtr(false)},
			want: `await expect(page).toHaveScreenshot('it\'s.png', { fullPage: false });`,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, EmitScreenshotAssertion(tt.d, entity.EmitOptions{}))
		})
	}
}

func TestEmitElementScreenshotAssertion(t *testing.T) {
	t.Parallel()

	got := EmitElementScreenshotAssertion("page.getByTestId('card')", entity.ScreenshotDirective{
		Name: "card",
		Mask: []entity.MaskRegion{entity.MaskArea(entity.Rect{X: 1, Y: 2, Width: 3, Height: 4}, "")},
	}, entity.EmitOptions{})

	lines := strings.Split(got, "\n")
	require.Len(t, lines, 2)
	assert.Equal(t,
		`await expect(page.getByTestId('card')).toHaveScreenshot('card.png', { mask: [page.locator('[data-bf-mask="0"]')] });`,
		lines[1])
}

func TestEmitScreenshotCapture(t *testing.T) {
	t.Parallel()

	got := EmitScreenshotCapture(entity.ScreenshotDirective{
		Name:     "home",
		FullPage: boolPtr(true),
		Mask:     []entity.MaskRegion{entity.MaskSelector(".clock", "")},
	}, "baselines/login", entity.EmitOptions{PageVariable: "p"})

	assert.Equal(t,
		"await p.screenshot({ path: 'baselines/login/home.png', fullPage: true, mask: [p.locator('.clock')] });",
		got)

	bare := EmitScreenshotCapture(entity.ScreenshotDirective{Name: "home.png"}, "", entity.EmitOptions{})
	assert.Equal(t, "await page.screenshot({ path: 'home.png' });", bare)
}

func TestEmitComparison(t *testing.T) {
	t.Parallel()

	assert.Equal(t,
		"const diffRatio = await compareImages(baseline, actual);\nexpect(diffRatio).toBeLessThanOrEqual(0.05);",
		EmitComparison("", "", -1))
	assert.Equal(t,
		"const diffRatio = await compareImages(baseline, actual);\nexpect(diffRatio).toBeLessThanOrEqual(0);",
		EmitComparison("", "", 0))
	assert.Equal(t,
		"const diffRatio = await compareImages(before, after);\nexpect(diffRatio).toBeLessThanOrEqual(0.1);",
		EmitComparison("before", "after", 0.1))
}
