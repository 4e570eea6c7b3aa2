package password

import (
	"strings"
	"unicode/utf8"
)

// Tier is the strength classification produced by Evaluate
type Tier string

const (
	TierWeak     Tier = "Weak"
	TierModerate Tier = "Moderate"
	TierStrong   Tier = "Strong"
)

// ParseTier converts a persisted tier string back into a Tier
func ParseTier(s string) (Tier, bool) {
	switch Tier(s) {
	case TierWeak, TierModerate, TierStrong:
		return Tier(s), true
	}
	return "", false
}

// MinLength is the minimum number of characters required by the length rule
const MinLength = 8

// SpecialCharacters is the fixed set accepted by the special-character rule
const SpecialCharacters = "@$!%*?&#"

// Rule is a single strength criterion
type Rule struct {
	Name      string
	Violation string
	satisfied func(string) bool
}

// Satisfied reports whether the password meets the rule
func (r Rule) Satisfied(password string) bool {
	return r.satisfied(password)
}

// Rules returns the criteria in evaluation order. Violations are reported in this order.
func Rules() []Rule {
	return []Rule{
		{
			Name:      "length",
			Violation: "Password must be at least 8 characters long.",
			satisfied: func(pwd string) bool { return utf8.RuneCountInString(pwd) >= MinLength },
		},
		{
			Name:      "uppercase",
			Violation: "Password must contain at least one uppercase letter.",
			satisfied: func(pwd string) bool { return containsInRange(pwd, 'A', 'Z') },
		},
		{
			Name:      "lowercase",
			Violation: "Password must contain at least one lowercase letter.",
			satisfied: func(pwd string) bool { return containsInRange(pwd, 'a', 'z') },
		},
		{
			Name:      "digits",
			Violation: "Password must contain at least one digit.",
			satisfied: func(pwd string) bool { return containsInRange(pwd, '0', '9') },
		},
		{
			Name:      "special",
			Violation: "Password must contain at least one special character.",
			satisfied: func(pwd string) bool { return strings.ContainsAny(pwd, SpecialCharacters) },
		},
	}
}

func containsInRange(s string, lo, hi rune) bool {
	return strings.ContainsFunc(s, func(r rune) bool { return r >= lo && r <= hi })
}

// Assessment is the outcome of evaluating one password
type Assessment struct {
	Tier       Tier
	Score      int
	Violations []string
}

// Evaluate scores the password against Rules and maps the score to a tier.
// Every string is valid input; the empty string fails all five rules.
func Evaluate(password string) Assessment {
	assessment := Assessment{Violations: make([]string, 0, 5)}
	for _, rule := range Rules() {
		if rule.Satisfied(password) {
			assessment.Score++
			continue
		}
		assessment.Violations = append(assessment.Violations, rule.Violation)
	}
	assessment.Tier = TierForScore(assessment.Score)
	return assessment
}

// TierForScore maps the number of satisfied rules to a tier
func TierForScore(score int) Tier {
	switch {
	case score < 3:
		return TierWeak
	case score == 3:
		return TierModerate
	default:
		return TierStrong
	}
}

// Storable reports whether a credential with this assessment may be persisted
func (a Assessment) Storable() bool {
	return a.Tier != TierWeak
}
