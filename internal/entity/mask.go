package entity

// Rect is a viewport region in percent (0-100).
type Rect struct {
	X      float64 `json:"x" yaml:"x"`
	Y      float64 `json:"y" yaml:"y"`
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// MaskRegion excludes part of the screen from visual comparison, either by
// selector or by a percentage region. Order inside a mask list is significant.
type MaskRegion struct {
	Selector string `json:"selector,omitempty" yaml:"selector,omitempty"`
	Region   *Rect  `json:"region,omitempty" yaml:"region,omitempty"`
	Reason   string `json:"reason,omitempty" yaml:"reason,omitempty"`
}

func MaskSelector(selector, reason string) MaskRegion {
	return MaskRegion{Selector: selector, Reason: reason}
}

func MaskArea(r Rect, reason string) MaskRegion {
	return MaskRegion{Region: &r, Reason: reason}
}

// IsRegion reports whether the mask is a coordinate region. A mask carrying
// both forms is treated as a selector mask.
func (m MaskRegion) IsRegion() bool {
	return m.Selector == "" && m.Region != nil
}

// IsEmpty reports whether the mask names neither a selector nor a region.
func (m MaskRegion) IsEmpty() bool {
	return m.Selector == "" && m.Region == nil
}

// ScreenshotDirective describes a visual check.
type ScreenshotDirective struct {
	Name              string       `json:"name" yaml:"name"`
	Mask              []MaskRegion `json:"mask,omitempty" yaml:"mask,omitempty"`
	MaxDiffPixelRatio *float64     `json:"maxDiffPixelRatio,omitempty" yaml:"maxDiffPixelRatio,omitempty"`
	Threshold         *float64     `json:"threshold,omitempty" yaml:"threshold,omitempty"`
	Animations        string       `json:"animations,omitempty" yaml:"animations,omitempty"`
	FullPage          *bool        `json:"fullPage,omitempty" yaml:"fullPage,omitempty"`
	Timeout           *int         `json:"timeout,omitempty" yaml:"timeout,omitempty"`
}
