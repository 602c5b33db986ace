package entity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDuration_UnmarshalJSON(t *testing.T) {
	t.Parallel()

	var w struct {
		A Duration `json:"a"`
		B Duration `json:"b"`
		C Duration `json:"c"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"a": 1500, "b": "2s", "c": null}`), &w))

	require.NotNil(t, w.A.Millis)
	assert.InDelta(t, 1500.0, *w.A.Millis, 0)
	assert.Equal(t, DurationText("2s"), w.B)
	assert.True(t, w.C.IsZero())

	assert.Error(t, json.Unmarshal([]byte(`{"a": true}`), &w))
}

func TestDuration_UnmarshalYAML(t *testing.T) {
	t.Parallel()

	var w struct {
		A Duration `yaml:"a"`
		B Duration `yaml:"b"`
		C Duration `yaml:"c"`
		D Duration `yaml:"d"`
	}

	require.NoError(t, yaml.Unmarshal([]byte("a: 750\nb: 1m\nc: ~\nd: 0.5\n"), &w))

	assert.Equal(t, "750ms", w.A.String())
	assert.Equal(t, DurationText("1m"), w.B)
	assert.True(t, w.C.IsZero())
	require.NotNil(t, w.D.Millis)
	assert.InDelta(t, 0.5, *w.D.Millis, 1e-9)

	assert.Error(t, yaml.Unmarshal([]byte("a: [1, 2]\n"), &w))
}

func TestDuration_MarshalJSON(t *testing.T) {
	t.Parallel()

	out, err := json.Marshal(struct {
		A Duration `json:"a"`
		B Duration `json:"b"`
		C Duration `json:"c"`
	}{A: Millis(200), B: DurationText("3s")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a": 200, "b": "3s", "c": null}`, string(out))
}

func TestLocatorDescriptor_Kind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		d    LocatorDescriptor
		want DescriptorKind
	}{
		{name: "empty", d: LocatorDescriptor{}, want: KindNone},
		{name: "ref only", d: ByRef("e3"), want: KindRef},
		{name: "selector beats ref", d: LocatorDescriptor{Selector: "#a", Ref: "e3"}, want: KindSelector},
		{name: "method beats everything", d: LocatorDescriptor{Method: "getByText", Selector: "#a", Ref: "e3"}, want: KindMethod},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.d.Kind(), tt.name)
	}
}

func TestLocatorArgs_Lookup(t *testing.T) {
	t.Parallel()

	args := LocatorArgs{Role: "button", TestID: "save"}

	v, ok := args.Lookup("role")
	assert.True(t, ok)
	assert.Equal(t, "button", v)

	v, ok = args.Lookup("testId")
	assert.True(t, ok)
	assert.Equal(t, "save", v)

	_, ok = args.Lookup("name")
	assert.False(t, ok)

	_, ok = args.Lookup("bogus")
	assert.False(t, ok)
}

func TestMaskRegion_IsRegion(t *testing.T) {
	t.Parallel()

	assert.False(t, MaskSelector(".ad", "").IsRegion())
	assert.True(t, MaskArea(Rect{Width: 10, Height: 10}, "").IsRegion())
	assert.False(t, MaskRegion{Selector: ".ad", Region: &Rect{}}.IsRegion())
	assert.False(t, MaskRegion{}.IsRegion())
}

func TestElementInfo_EffectiveTestID(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "a", ElementInfo{TestID: "a", Attributes: map[string]string{"data-testid": "b"}}.EffectiveTestID())
	assert.Equal(t, "b", ElementInfo{Attributes: map[string]string{"data-testid": "b", "data-test": "c"}}.EffectiveTestID())
	assert.Equal(t, "c", ElementInfo{Attributes: map[string]string{"data-test": "c"}}.EffectiveTestID())
	assert.Empty(t, ElementInfo{}.EffectiveTestID())
	assert.Equal(t, "button", ElementInfo{Tag: " BUTTON "}.NormalizedTag())
}

const lockfileYAML = `
specName: checkout
specPath: specs/checkout.yaml
explorationId: exp-7
timestamp: 2026-05-04T10:00:00Z
steps:
  - stepIndex: 0
    specAction:
      action: wait
      wait:
        for: time
        duration: 500ms
    execution:
      status: passed
      durationMs: 510
  - stepIndex: 1
    specAction:
      action: screenshot
      name: cart
      mask:
        - selector: .price
        - region: {x: 0, y: 90, width: 100, height: 10}
          reason: footer
    execution:
      status: passed
      locator:
        method: getByRole
        args: {role: region, name: Cart}
outcomeChecks:
  - check: cart has items
    expected: 2
    actual: 2
    passed: true
`

func TestExplorationLockfile_DecodeYAML(t *testing.T) {
	t.Parallel()

	var lf ExplorationLockfile
	require.NoError(t, yaml.Unmarshal([]byte(lockfileYAML), &lf))

	assert.Equal(t, "checkout", lf.SpecName)
	assert.Equal(t, 2026, lf.Timestamp.Year())
	require.Len(t, lf.Steps, 2)

	wait := lf.Steps[0].SpecAction.Wait
	require.NotNil(t, wait)
	assert.Equal(t, WaitForTime, wait.For)
	assert.Equal(t, DurationText("500ms"), wait.Duration)

	shot := lf.Steps[1]
	require.Len(t, shot.SpecAction.Mask, 2)
	assert.False(t, shot.SpecAction.Mask[0].IsRegion())
	assert.True(t, shot.SpecAction.Mask[1].IsRegion())
	require.NotNil(t, shot.Execution.Locator)
	assert.Equal(t, KindMethod, shot.Execution.Locator.Kind())
	assert.Equal(t, "Cart", shot.Execution.Locator.Args.Name)

	require.Len(t, lf.OutcomeChecks, 1)
	assert.True(t, lf.OutcomeChecks[0].Passed)
}

func TestReviewData_DecodeJSON(t *testing.T) {
	t.Parallel()

	var r ReviewData
	require.NoError(t, json.Unmarshal([]byte(`{
		"reviewer": "kim",
		"submittedAt": "2026-05-05T08:00:00Z",
		"steps": {
			"3": {"status": "approved", "lockedLocator": {"selector": "#buy"}, "masks": [{"selector": ".ad"}]}
		}
	}`), &r))

	require.Contains(t, r.Steps, 3)
	assert.Equal(t, "#buy", r.Steps[3].LockedLocator.Selector)
	assert.Len(t, r.Steps[3].Masks, 1)
}
