package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTemplate(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		name     string
		template string
		size     float64
		gap      float64
		want     []float64
		wantGap  float64
	}{
		{name: "fractions", template: "1fr 1fr 1fr", size: 300, want: []float64{100, 100, 100}},
		{name: "weighted fractions", template: "1fr 2fr", size: 300, gap: 0, want: []float64{100, 200}},
		{name: "fixed and fraction", template: "100px 1fr", size: 300, gap: 10, want: []float64{100, 190}, wantGap: 10},
		{name: "viewport pixels", template: "50vp 50", size: 300, want: []float64{50, 50}},
		{name: "percent", template: "repeat(2, 1fr) 50%", size: 400, want: []float64{100, 100, 200}},
		{name: "auto fill", template: "repeat(auto-fill, 100px)", size: 350, gap: 10, want: []float64{100, 100, 100}, wantGap: 10},
		{name: "auto fit", template: "repeat(auto-fit, 100px)", size: 99, want: []float64{99}},
		{name: "auto stretch", template: "repeat(auto-stretch, 100px)", size: 350, gap: 10, want: []float64{100, 100, 100}, wantGap: 25},
		{name: "empty", template: "  ", size: 300, want: []float64{300}},
		{name: "fixed tracks overflow", template: "200px 200px", size: 300, want: []float64{200, 100}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, gap := ParseTemplate(tc.template, tc.size, tc.gap)
			require.Len(t, got, len(tc.want))
			for i := range got {
				assert.InDelta(t, tc.want[i], got[i], epsilon, "track %d", i)
			}
			assert.InDelta(t, tc.wantGap, gap, epsilon)
		})
	}
}

func TestParseTemplateIgnoresBadTracks(t *testing.T) {
	t.Parallel()

	got, _ := ParseTemplate("1fr nope 1fr", 200, 0)
	assert.Equal(t, []float64{100, 0, 100}, got)

	got, _ = ParseTemplate("repeat(x, 1fr) 1fr", 200, 0)
	assert.Equal(t, []float64{200}, got)
}

func TestSplitTopLevel(t *testing.T) {
	t.Parallel()

	assert.Equal(t,
		[]string{"100px", "repeat(2, 1fr 2fr)", "auto"},
		splitTopLevel(" 100px  repeat(2, 1fr 2fr)\tauto "),
	)
}

func TestAdaptiveTracks(t *testing.T) {
	t.Parallel()

	assert.Len(t, AdaptiveTracks(350, 10, 100, 0, 0), 3)
	assert.Len(t, AdaptiveTracks(350, 10, 100, 0, 2), 2)
	assert.Len(t, AdaptiveTracks(350, 10, 100, 5, 0), 5)
	assert.Len(t, AdaptiveTracks(50, 0, 100, 0, 0), 1)
	// inverted bounds are ignored
	assert.Len(t, AdaptiveTracks(350, 10, 100, 6, 2), 3)
}
