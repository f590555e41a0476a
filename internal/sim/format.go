package sim

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// Write prints frames as text, json or yaml.
func Write(w io.Writer, frames []Frame, format string) error {
	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(frames); err != nil {
			return fmt.Errorf("failed to marshal frames to JSON: %w", err)
		}
		return nil
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(frames); err != nil {
			return fmt.Errorf("failed to marshal frames to YAML: %w", err)
		}
		return enc.Close()
	case "text", "":
		return writeText(w, frames)
	}
	return fmt.Errorf("unsupported format: %s", format)
}

func writeText(w io.Writer, frames []Frame) error {
	var b strings.Builder
	for _, f := range frames {
		fmt.Fprintf(&b, "step %d: %s (start %d, end %d, offset %g, reason %s)\n",
			f.Step, f.Action, f.Start, f.End, f.Offset, f.Reason)
		for _, it := range f.Items {
			fmt.Fprintf(&b, "  item %d: %gx%g at (%g, %g)\n", it.Index, it.Width, it.Height, it.X, it.Y)
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}
