package cmd

import (
	"fmt"
	"strings"

	"github.com/khanhnv2901/secdash/internal/infrastructure/persistence/kv"
	"github.com/khanhnv2901/secdash/internal/render"
)

// UnsupportedFormatError indicates an unknown --format value.
type UnsupportedFormatError struct {
	Format string
}

func (e *UnsupportedFormatError) Error() string {
	names := make([]string, 0, len(render.Formats()))
	for _, f := range render.Formats() {
		names = append(names, string(f))
	}
	return fmt.Sprintf("unsupported format %q (use one of: %s)", e.Format, strings.Join(names, ", "))
}

// UnknownBackendError signals an unsupported --store value.
type UnknownBackendError struct {
	Backend string
}

func (e *UnknownBackendError) Error() string {
	if e.Backend == "" {
		return "store backend is empty (use one of: " + strings.Join(kv.Backends(), ", ") + ")"
	}
	return fmt.Sprintf("unknown store backend %q (use one of: %s)", e.Backend, strings.Join(kv.Backends(), ", "))
}
