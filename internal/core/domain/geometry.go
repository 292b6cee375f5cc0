package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Size is a pixel size.
type Size struct {
	W uint32
	H uint32
}

// String returns the size formatted as "WxH".
func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.W, s.H)
}

// Vec2 converts the size to a vector.
func (s Size) Vec2() Vec2 {
	return Vec2{X: float64(s.W), Y: float64(s.H)}
}

// ParseSize parses a size formatted as "WxH".
func ParseSize(s string) (Size, error) {
	w, h, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "x")
	if !ok {
		return Size{}, fmt.Errorf("%w: size %q must be formatted as WxH", ErrInvalidInput, s)
	}
	wv, err := strconv.ParseUint(w, 10, 32)
	if err != nil {
		return Size{}, fmt.Errorf("%w: width %q: %v", ErrInvalidInput, w, err)
	}
	hv, err := strconv.ParseUint(h, 10, 32)
	if err != nil {
		return Size{}, fmt.Errorf("%w: height %q: %v", ErrInvalidInput, h, err)
	}
	if wv == 0 || hv == 0 {
		return Size{}, fmt.Errorf("%w: size %q must be positive", ErrInvalidInput, s)
	}
	return Size{W: uint32(wv), H: uint32(hv)}, nil
}

// Vec2 is a two-dimensional vector in image pixel coordinates.
type Vec2 struct {
	X float64
	Y float64
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Scale returns v * f.
func (v Vec2) Scale(f float64) Vec2 { return Vec2{v.X * f, v.Y * f} }

// Div returns the component-wise quotient v / o.
func (v Vec2) Div(o Vec2) Vec2 { return Vec2{v.X / o.X, v.Y / o.Y} }

// Min returns the component-wise minimum.
func (v Vec2) Min(o Vec2) Vec2 { return Vec2{math.Min(v.X, o.X), math.Min(v.Y, o.Y)} }

// Max returns the component-wise maximum.
func (v Vec2) Max(o Vec2) Vec2 { return Vec2{math.Max(v.X, o.X), math.Max(v.Y, o.Y)} }

// EditInfo is the persisted crop state of an edited background, in original
// image pixel coordinates.
type EditInfo struct {
	Center Vec2
	Scale  float64
}

// CropRegion is a clamped crop window over an image. It edits the EditInfo
// of the background it was obtained from.
type CropRegion struct {
	cropSize Vec2 // base size of the window, multiplied by scale
	texSize  Vec2
	edit     *EditInfo
	onEdit   func()
}

// NewCropRegion binds a crop window of cropSize to edit over an image of
// texSize and clips it.
func NewCropRegion(cropSize, texSize Vec2, edit *EditInfo) (*CropRegion, error) {
	if cropSize.X <= 0 || cropSize.Y <= 0 {
		return nil, fmt.Errorf("%w: crop size must be positive", ErrInvalidInput)
	}
	if edit == nil {
		return nil, fmt.Errorf("%w: nil edit state", ErrInvalidInput)
	}
	r := &CropRegion{cropSize: cropSize, texSize: texSize, edit: edit}
	r.Clip()
	return r, nil
}

// Center returns the window center.
func (r *CropRegion) Center() Vec2 { return r.edit.Center }

// Scale returns the window scale.
func (r *CropRegion) Scale() float64 { return r.edit.Scale }

// TopLeft returns the top-left corner of the window.
func (r *CropRegion) TopLeft() Vec2 {
	return r.edit.Center.Sub(r.halfExtent())
}

// BottomRight returns the bottom-right corner of the window.
func (r *CropRegion) BottomRight() Vec2 {
	return r.edit.Center.Add(r.halfExtent())
}

// SetCenter moves the window center and re-clips.
func (r *CropRegion) SetCenter(c Vec2) {
	r.edit.Center = c
	r.edited()
}

// Move shifts the window center by delta and re-clips.
func (r *CropRegion) Move(delta Vec2) {
	r.edit.Center = r.edit.Center.Add(delta)
	r.edited()
}

// SetScale changes the window scale and re-clips.
func (r *CropRegion) SetScale(s float64) {
	r.edit.Scale = s
	r.edited()
}

// Clip caps the scale so the window fits inside the image on both axes,
// then clamps the center so the window stays inside the image.
// A non-positive scale resets to 1 first. Clipping an already valid region
// leaves it unchanged.
func (r *CropRegion) Clip() {
	if !(r.edit.Scale > 0) {
		r.edit.Scale = 1
	}
	ratio := r.texSize.Div(r.cropSize)
	r.edit.Scale = math.Min(r.edit.Scale, math.Min(ratio.X, ratio.Y))
	half := r.halfExtent()
	lo := half
	hi := r.texSize.Sub(half)
	r.edit.Center = hi.Min(lo.Max(r.edit.Center))
}

func (r *CropRegion) halfExtent() Vec2 {
	return r.cropSize.Scale(r.edit.Scale / 2)
}

func (r *CropRegion) edited() {
	r.Clip()
	if r.onEdit != nil {
		r.onEdit()
	}
}
