package render

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/khanhnv2901/secdash/internal/domain/report"
)

// WriteJSON renders rep as an indented JSON object using the stored report keys.
// An absent report renders {"error": "No report available"}.
func WriteJSON(w io.Writer, rep report.Report) error {
	var payload any = absent()
	if view := NewView(rep); view != nil {
		payload = view
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(payload); err != nil {
		return fmt.Errorf("failed to render json report: %w", err)
	}
	return nil
}
