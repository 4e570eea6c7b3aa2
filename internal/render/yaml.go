package render

import (
	"fmt"
	"io"

	"github.com/khanhnv2901/secdash/internal/domain/report"
	"gopkg.in/yaml.v3"
)

// WriteYAML renders rep as a YAML document with the same keys as WriteJSON
func WriteYAML(w io.Writer, rep report.Report) error {
	var payload any = absent()
	if view := NewView(rep); view != nil {
		payload = view
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(payload); err != nil {
		return fmt.Errorf("failed to render yaml report: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to flush yaml report: %w", err)
	}
	return nil
}
