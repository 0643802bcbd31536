package account

import "strings"

// HasCreatorPlusOrAbove reports whether a plan grants the paid creator tier.
// Recognizes the backend enum values plus legacy tag formats.
func HasCreatorPlusOrAbove(plan string) bool {
	normalized := strings.ToLower(strings.TrimSpace(plan))
	if normalized == "" {
		return false
	}

	if normalized == "creatorplus" || normalized == "creatorpro" {
		return true
	}

	// Backward compatibility for legacy tag formats.
	if strings.Contains(normalized, "creatorplus") || strings.Contains(normalized, "creatorpro") {
		return true
	}
	return strings.Contains(normalized, "plus")
}

// CanAccessAnalysisByPlan gates the analytics dashboards
func CanAccessAnalysisByPlan(plan string) bool {
	return HasCreatorPlusOrAbove(plan)
}
