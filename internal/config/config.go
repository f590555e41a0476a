package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/gridscroll/internal/grid"
	"github.com/tidwall/sjson"
)

const (
	appName              = "gridscroll"
	defaultDataDirectory = ".gridscroll"
	defaultLogLevel      = "info"

	defaultItems       = 500
	defaultCachedCount = 1
)

var defaultHeights = []int{3, 4, 5, 4}

type Padding struct {
	Top    float64 `json:"top,omitempty"`
	Right  float64 `json:"right,omitempty"`
	Bottom float64 `json:"bottom,omitempty"`
	Left   float64 `json:"left,omitempty"`
}

// GridConfig is the declarative grid configuration as it is written to disk.
type GridConfig struct {
	ColumnsTemplate string  `json:"columns_template,omitempty" jsonschema:"description=Column tracks; makes the grid scroll vertically,example=1fr 1fr 1fr"`
	RowsTemplate    string  `json:"rows_template,omitempty" jsonschema:"description=Row tracks; alone it makes the grid scroll horizontally"`
	ColumnsGap      float64 `json:"columns_gap,omitempty" jsonschema:"description=Gap between columns in cells"`
	RowsGap         float64 `json:"rows_gap,omitempty" jsonschema:"description=Gap between rows in cells"`

	CellLength float64 `json:"cell_length,omitempty" jsonschema:"description=Track length used when no template is set"`
	MinCount   int     `json:"min_count,omitempty"`
	MaxCount   int     `json:"max_count,omitempty"`

	CachedCount     *int    `json:"cached_count,omitempty" jsonschema:"description=Lines kept around the viewport; negative derives it from page_count,default=1"`
	ShowCachedItems bool    `json:"show_cached_items,omitempty"`
	PageCount       float64 `json:"page_count,omitempty"`

	EdgeEffect string  `json:"edge_effect,omitempty" jsonschema:"enum=none,enum=spring,enum=fade,default=none"`
	Direction  string  `json:"direction,omitempty" jsonschema:"enum=ltr,enum=rtl,default=ltr"`
	AlignItems string  `json:"align_items,omitempty" jsonschema:"enum=start,enum=stretch,default=start"`
	Padding    Padding `json:"padding,omitzero"`

	// IrregularIndexes switches the grid to index based placement.
	IrregularIndexes []int     `json:"irregular_indexes,omitempty" jsonschema:"description=Items that take a whole line"`
	IrregularSpan    grid.Span `json:"irregular_span,omitzero" jsonschema:"description=Span of every irregular item instead of a whole line"`
}

// DemoConfig describes the generated items of the viewer and simulate.
type DemoConfig struct {
	Items   int   `json:"items,omitempty" jsonschema:"description=Number of items,default=500"`
	Heights []int `json:"heights,omitempty" jsonschema:"description=Item main sizes cycled over the items"`
	// BigItems places items on explicit lines, keyed by index.
	BigItems map[int]grid.ItemProps `json:"big_items,omitempty"`
}

type Options struct {
	Debug         bool   `json:"debug,omitempty"`
	LogLevel      string `json:"log_level,omitempty" jsonschema:"enum=debug,enum=info,enum=warn,enum=error"`
	DataDirectory string `json:"data_directory,omitempty"` // Relative to the cwd
}

// Config holds the configuration for gridscroll.
type Config struct {
	Grid    GridConfig `json:"grid"`
	Demo    DemoConfig `json:"demo"`
	Options *Options   `json:"options,omitempty"`

	// Internal
	workingDir    string `json:"-"`
	dataConfigDir string `json:"-"`
	// loaded lists the files merged into the config, in order.
	loaded []string `json:"-"`
}

func (c *Config) WorkingDir() string {
	return c.workingDir
}

// Files returns the config files the config was merged from.
func (c *Config) Files() []string {
	return c.loaded
}

// GridOptions converts the grid section to engine options.
func (c *Config) GridOptions() (grid.Options, error) {
	g := c.Grid
	o := grid.Options{
		ColumnsTemplate: g.ColumnsTemplate,
		RowsTemplate:    g.RowsTemplate,
		ColumnsGap:      g.ColumnsGap,
		RowsGap:         g.RowsGap,
		CellLength:      g.CellLength,
		MinCount:        g.MinCount,
		MaxCount:        g.MaxCount,
		CachedCount:     defaultCachedCount,
		ShowCachedItems: g.ShowCachedItems,
		PageCount:       g.PageCount,
		Padding: grid.Padding{
			Top:    g.Padding.Top,
			Right:  g.Padding.Right,
			Bottom: g.Padding.Bottom,
			Left:   g.Padding.Left,
		},
	}
	if g.CachedCount != nil {
		o.CachedCount = *g.CachedCount
	}

	switch strings.ToLower(g.EdgeEffect) {
	case "", "none":
		o.EdgeEffect = grid.EdgeNone
	case "spring":
		o.EdgeEffect = grid.EdgeSpring
	case "fade":
		o.EdgeEffect = grid.EdgeFade
	default:
		return o, fmt.Errorf("invalid edge_effect %q", g.EdgeEffect)
	}

	switch strings.ToLower(g.Direction) {
	case "", "ltr":
		o.Direction = grid.LTR
	case "rtl":
		o.Direction = grid.RTL
	default:
		return o, fmt.Errorf("invalid direction %q", g.Direction)
	}

	switch strings.ToLower(g.AlignItems) {
	case "", "start":
		o.AlignItems = grid.AlignItemsStart
	case "stretch":
		o.AlignItems = grid.AlignItemsStretch
	default:
		return o, fmt.Errorf("invalid align_items %q", g.AlignItems)
	}

	if len(g.IrregularIndexes) > 0 {
		lo := &grid.LayoutOptions{IrregularIndexes: g.IrregularIndexes}
		if span := g.IrregularSpan; span.Rows > 0 || span.Columns > 0 {
			lo.SizeByIndex = func(int) grid.Span { return span }
		}
		o.LayoutOptions = lo
	}
	return o, nil
}

func (c *Config) SetConfigField(key string, value any) error {
	// read the data
	data, err := os.ReadFile(c.dataConfigDir)
	if err != nil {
		if os.IsNotExist(err) {
			data = []byte("{}")
		} else {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}

	newValue, err := sjson.Set(string(data), key, value)
	if err != nil {
		return fmt.Errorf("failed to set config field %s: %w", key, err)
	}
	if err := os.MkdirAll(filepath.Dir(c.dataConfigDir), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(c.dataConfigDir, []byte(newValue), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// DataConfigPath is the file SetConfigField writes to.
func (c *Config) DataConfigPath() string {
	return c.dataConfigDir
}
