package sim

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/gridscroll/internal/grid"
	"gopkg.in/yaml.v3"
)

// Viewport is the size every layout pass runs with.
type Viewport struct {
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// Jump scrolls to an item.
type Jump struct {
	Index  int     `json:"index" yaml:"index"`
	Align  string  `json:"align,omitempty" yaml:"align,omitempty"`
	Smooth bool    `json:"smooth,omitempty" yaml:"smooth,omitempty"`
	Extra  float64 `json:"extra,omitempty" yaml:"extra,omitempty"`
}

// Step is one input followed by a layout pass. Exactly one field is set; a
// step with none only lays out again.
type Step struct {
	Scroll     *float64  `json:"scroll,omitempty" yaml:"scroll,omitempty"`
	Jump       *Jump     `json:"jump,omitempty" yaml:"jump,omitempty"`
	Edge       string    `json:"edge,omitempty" yaml:"edge,omitempty"`
	Count      *int      `json:"count,omitempty" yaml:"count,omitempty"`
	Invalidate *int      `json:"invalidate,omitempty" yaml:"invalidate,omitempty"`
	Resize     *Viewport `json:"resize,omitempty" yaml:"resize,omitempty"`
	Idle       bool      `json:"idle,omitempty" yaml:"idle,omitempty"`
}

// Script is a scripted grid session.
type Script struct {
	Viewport Viewport `json:"viewport" yaml:"viewport"`
	Steps    []Step   `json:"steps" yaml:"steps"`
}

// DefaultScript lays out, scrolls a few pages and jumps to both ends.
func DefaultScript(width, height float64) Script {
	page := height
	return Script{
		Viewport: Viewport{Width: width, Height: height},
		Steps: []Step{
			{},
			{Scroll: &page},
			{Scroll: &page},
			{Edge: "end"},
			{Edge: "start"},
		},
	}
}

// LoadScript decodes a YAML or JSON script.
func LoadScript(r io.Reader) (Script, error) {
	var s Script
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return s, fmt.Errorf("failed to decode script: %w", err)
	}
	if s.Viewport.Width <= 0 || s.Viewport.Height <= 0 {
		return s, fmt.Errorf("script viewport must be positive, got %gx%g", s.Viewport.Width, s.Viewport.Height)
	}
	for i, st := range s.Steps {
		if err := st.validate(); err != nil {
			return s, fmt.Errorf("step %d: %w", i, err)
		}
	}
	return s, nil
}

func (s Step) validate() error {
	set := 0
	for _, ok := range []bool{
		s.Scroll != nil, s.Jump != nil, s.Edge != "", s.Count != nil,
		s.Invalidate != nil, s.Resize != nil, s.Idle,
	} {
		if ok {
			set++
		}
	}
	if set > 1 {
		return fmt.Errorf("only one action per step")
	}
	if s.Edge != "" && s.Edge != "start" && s.Edge != "end" {
		return fmt.Errorf("invalid edge %q", s.Edge)
	}
	if s.Jump != nil {
		if _, err := ParseAlign(s.Jump.Align); err != nil {
			return err
		}
	}
	return nil
}

// ParseAlign parses a scroll alignment name. Empty means start.
func ParseAlign(s string) (grid.ScrollAlign, error) {
	switch strings.ToLower(s) {
	case "", "start":
		return grid.AlignStart, nil
	case "center":
		return grid.AlignCenter, nil
	case "end":
		return grid.AlignEnd, nil
	case "auto":
		return grid.AlignAuto, nil
	}
	return grid.AlignStart, fmt.Errorf("invalid align %q", s)
}

// String describes the step.
func (s Step) String() string {
	switch {
	case s.Scroll != nil:
		return fmt.Sprintf("scroll %g", *s.Scroll)
	case s.Jump != nil:
		d := fmt.Sprintf("jump %d", s.Jump.Index)
		if s.Jump.Align != "" {
			d += " " + s.Jump.Align
		}
		if s.Jump.Smooth {
			d += " smooth"
		}
		return d
	case s.Edge != "":
		return "edge " + s.Edge
	case s.Count != nil:
		return fmt.Sprintf("count %d", *s.Count)
	case s.Invalidate != nil:
		return fmt.Sprintf("invalidate %d", *s.Invalidate)
	case s.Resize != nil:
		return fmt.Sprintf("resize %gx%g", s.Resize.Width, s.Resize.Height)
	case s.Idle:
		return "idle"
	}
	return "layout"
}
