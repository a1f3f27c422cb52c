// Package ai implements AI-assisted bookmark categorization: a rate-limited,
// cached client around an LLM provider, with a keyword heuristic for degraded
// mode and a chunked batch orchestrator.
package ai

// Categories is the fixed taxonomy a categorization result must belong to.
var Categories = []string{
	"Development",
	"Design",
	"Business",
	"Education",
	"Entertainment",
	"News",
	"Shopping",
	"Social Media",
	"Tools & Utilities",
	"Health & Fitness",
	"Travel",
	"Food & Cooking",
	"Technology",
	"Finance",
	"Sports",
	"Science",
	"Arts & Culture",
	"Reference",
	"Documentation",
	"Uncategorized",
}

// FallbackCategory is assigned whenever categorization fails, is rate
// limited, or produces a result below the confidence threshold.
const FallbackCategory = "Uncategorized"

// MinConfidence is the threshold below which a result is downgraded to the
// fallback category.
const MinConfidence = 0.5

var categorySet = func() map[string]struct{} {
	set := make(map[string]struct{}, len(Categories))
	for _, c := range Categories {
		set[c] = struct{}{}
	}
	return set
}()

// ValidCategory reports whether category is a member of the taxonomy.
func ValidCategory(category string) bool {
	_, ok := categorySet[category]
	return ok
}
