package grid

import (
	"log/slog"
	"math"
	"strconv"
	"strings"
	"unicode"
)

type unit int

const (
	unitPx unit = iota
	unitPercent
	unitFr
)

type track struct {
	value float64
	unit  unit
}

// length resolves fixed tracks against size. Fractions have no fixed length.
func (t track) length(size float64) float64 {
	switch t.unit {
	case unitPercent:
		return size * t.value / 100
	case unitFr:
		return 0
	default:
		return t.value
	}
}

type repeatKind int

const (
	repeatNone repeatKind = iota
	repeatFill
	repeatStretch
)

// ParseTemplate resolves the tracks described by template inside size.
// It understands px, vp, bare numbers, percentages, fr, repeat(n, ...),
// repeat(auto-fill, ...), repeat(auto-fit, ...) and repeat(auto-stretch, ...).
// The returned gap differs from gap only for auto-stretch templates.
func ParseTemplate(template string, size, gap float64) ([]float64, float64) {
	size = math.Max(size, 0)
	if strings.TrimSpace(template) == "" {
		return []float64{size}, gap
	}

	var before, group, after []track
	kind := repeatNone
	for _, tok := range splitTopLevel(template) {
		if !strings.HasPrefix(strings.ToLower(tok), "repeat(") || !strings.HasSuffix(tok, ")") {
			t := parseTrack(tok)
			if kind == repeatNone {
				before = append(before, t)
			} else {
				after = append(after, t)
			}
			continue
		}
		inner := tok[len("repeat(") : len(tok)-1]
		countStr, tracksStr, ok := strings.Cut(inner, ",")
		if !ok {
			slog.Warn("Invalid grid template repeat", "repeat", tok)
			continue
		}
		var tracks []track
		for _, f := range strings.Fields(tracksStr) {
			tracks = append(tracks, parseTrack(f))
		}
		switch c := strings.ToLower(strings.TrimSpace(countStr)); c {
		case "auto-fill", "auto-fit", "auto-stretch":
			if kind != repeatNone {
				slog.Warn("Only one automatic repeat is allowed in a grid template", "template", template)
				continue
			}
			kind = repeatFill
			if c == "auto-stretch" {
				kind = repeatStretch
			}
			group = tracks
		default:
			n, err := strconv.Atoi(c)
			if err != nil || n < 0 {
				slog.Warn("Invalid grid template repeat count", "count", c)
				continue
			}
			for range n {
				if kind == repeatNone {
					before = append(before, tracks...)
				} else {
					after = append(after, tracks...)
				}
			}
		}
	}

	switch kind {
	case repeatStretch:
		return stretchTracks(group, size, gap)
	case repeatFill:
		return resolveTracks(fillTracks(before, group, after, size, gap), size, gap), gap
	}
	if len(before) == 0 {
		return []float64{size}, gap
	}
	return resolveTracks(before, size, gap), gap
}

// splitTopLevel splits s on whitespace outside parentheses.
func splitTopLevel(s string) []string {
	var out []string
	var b strings.Builder
	depth := 0
	flush := func() {
		if b.Len() > 0 {
			out = append(out, b.String())
			b.Reset()
		}
	}
	for _, r := range s {
		switch {
		case r == '(':
			depth++
		case r == ')':
			depth--
		case unicode.IsSpace(r) && depth == 0:
			flush()
			continue
		}
		b.WriteRune(r)
	}
	flush()
	return out
}

func parseTrack(s string) track {
	s = strings.ToLower(strings.TrimSpace(s))
	t := track{unit: unitPx}
	num := s
	switch {
	case strings.HasSuffix(s, "px"), strings.HasSuffix(s, "vp"):
		num = s[:len(s)-2]
	case strings.HasSuffix(s, "fr"):
		num = s[:len(s)-2]
		t.unit = unitFr
	case strings.HasSuffix(s, "%"):
		num = s[:len(s)-1]
		t.unit = unitPercent
	}
	v, err := strconv.ParseFloat(num, 64)
	if err != nil || v < 0 {
		slog.Warn("Invalid grid template track", "track", s)
		return track{unit: unitPx}
	}
	t.value = v
	return t
}

// fillTracks repeats group as many times as it fits next to the other tracks.
func fillTracks(before, group, after []track, size, gap float64) []track {
	var fixed float64
	others := len(before) + len(after)
	for _, t := range before {
		fixed += t.length(size)
	}
	for _, t := range after {
		fixed += t.length(size)
	}
	var groupLen float64
	for _, t := range group {
		groupLen += t.length(size)
	}
	repeat := 1
	if step := groupLen + gap*float64(len(group)); step > 0 {
		repeat = max(int(math.Floor((size+gap-fixed-gap*float64(others))/step)), 1)
	}
	tracks := append([]track{}, before...)
	for range repeat {
		tracks = append(tracks, group...)
	}
	return append(tracks, after...)
}

// stretchTracks packs fixed tracks and spreads the remaining space into gaps.
func stretchTracks(group []track, size, gap float64) ([]float64, float64) {
	if len(group) == 0 {
		return []float64{size}, gap
	}
	l := group[0].length(size)
	if l <= 0 {
		return []float64{size}, gap
	}
	count := max(int(math.Floor((size+gap)/(l+gap))), 1)
	if count > 1 {
		gap = (size - float64(count)*l) / float64(count-1)
	}
	tracks := make([]float64, count)
	for i := range tracks {
		tracks[i] = l
	}
	return tracks, gap
}

func resolveTracks(tracks []track, size, gap float64) []float64 {
	available := math.Max(size-gap*float64(len(tracks)-1), 0)
	out := make([]float64, len(tracks))
	var used, frSum float64
	for i, t := range tracks {
		if t.unit == unitFr {
			frSum += t.value
			continue
		}
		v := math.Min(math.Max(t.length(size), 0), math.Max(available-used, 0))
		out[i] = v
		used += v
	}
	if frSum > 0 {
		rest := math.Max(available-used, 0)
		for i, t := range tracks {
			if t.unit == unitFr {
				out[i] = rest * t.value / frSum
			}
		}
	}
	return out
}

// AdaptiveTracks fits as many cellLength tracks as size allows, bounded by
// minCount and maxCount. Zero bounds are unbounded.
func AdaptiveTracks(size, gap, cellLength float64, minCount, maxCount int) []float64 {
	if minCount <= 0 {
		minCount = 1
	}
	if maxCount <= 0 {
		maxCount = math.MaxInt32
	}
	if minCount > maxCount {
		minCount, maxCount = 1, math.MaxInt32
	}
	count := minCount
	if cellLength+gap > 0 {
		count = int(math.Floor((size + gap) / (cellLength + gap)))
	}
	count = min(max(count, minCount), maxCount)
	tracks := make([]float64, count)
	for i := range tracks {
		tracks[i] = cellLength
	}
	return tracks
}
