package scan

// CheckProvider decides the outcome of the non-deterministic stages.
// Implementations must not perform network I/O.
type CheckProvider interface {
	AdminPathOpen(website, path string) bool
	SensitiveInfoExposed(website string) bool
}

// RandomSource yields values uniformly distributed in [0, 1)
type RandomSource interface {
	Float64() float64
}

// RandomCheckProvider flips an independent coin for every decision
type RandomCheckProvider struct {
	Source RandomSource
}

// AdminPathOpen marks the path open with probability one half
func (p RandomCheckProvider) AdminPathOpen(_, _ string) bool {
	return p.Source.Float64() > 0.5
}

// SensitiveInfoExposed reports an exposure with probability one half
func (p RandomCheckProvider) SensitiveInfoExposed(_ string) bool {
	return p.Source.Float64() > 0.5
}

// FixedCheckProvider returns preset outcomes
type FixedCheckProvider struct {
	OpenPaths []string
	Exposed   bool
}

func (p FixedCheckProvider) AdminPathOpen(_, path string) bool {
	for _, open := range p.OpenPaths {
		if open == path {
			return true
		}
	}
	return false
}

func (p FixedCheckProvider) SensitiveInfoExposed(_ string) bool {
	return p.Exposed
}
