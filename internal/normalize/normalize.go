// Package normalize cleans up LLM extraction output before persistence:
// salary ordering, remote-policy keyword mapping, and case-insensitive
// deduplication with canonical technology names. Nothing here is delegated
// to the LLM — it is the safety net against prompt drift.
package normalize

import (
	"strings"
)

// RemotePolicy is the closed set of remote-work classifications.
type RemotePolicy string

const (
	// RemoteRemote means fully remote.
	RemoteRemote RemotePolicy = "remote"
	// RemoteHybrid means a mix of office and remote days.
	RemoteHybrid RemotePolicy = "hybrid"
	// RemoteOnsite means office-based.
	RemoteOnsite RemotePolicy = "onsite"
	// RemoteUnspecified is the fallback when the text gives no signal.
	RemoteUnspecified RemotePolicy = "unspecified"
)

// remoteKeywords maps free-text fragments onto the closed policy set.
// Hybrid is checked first: "hybrid remote" should not classify as remote.
var remoteKeywords = []struct {
	policy   RemotePolicy
	keywords []string
}{
	{RemoteHybrid, []string{"hybrid", "flex", "days in office", "days per week in"}},
	{RemoteRemote, []string{"remote", "distributed", "work from home", "wfh", "anywhere"}},
	{RemoteOnsite, []string{"onsite", "on-site", "on site", "in office", "in-office", "office-based"}},
}

// MapRemotePolicy classifies the LLM's free-text remote-policy answer onto
// the closed set {remote, hybrid, onsite, unspecified}.
func MapRemotePolicy(text string) RemotePolicy {
	lowered := strings.ToLower(strings.TrimSpace(text))
	if lowered == "" {
		return RemoteUnspecified
	}
	for _, group := range remoteKeywords {
		for _, kw := range group.keywords {
			if strings.Contains(lowered, kw) {
				return group.policy
			}
		}
	}
	return RemoteUnspecified
}

// Salary orders a salary pair: inverted bounds are swapped, negative values
// dropped. Nil means "not stated".
func Salary(min, max *int) (*int, *int) {
	if min != nil && *min < 0 {
		min = nil
	}
	if max != nil && *max < 0 {
		max = nil
	}
	if min != nil && max != nil && *min > *max {
		min, max = max, min
	}
	return min, max
}

// techCanonical maps lowercase technology variants to one canonical form.
var techCanonical = map[string]string{
	"js":            "javascript",
	"node":          "nodejs",
	"node.js":       "nodejs",
	"react.js":      "react",
	"reactjs":       "react",
	"vue.js":        "vue",
	"vuejs":         "vue",
	"angular.js":    "angular",
	"angularjs":     "angular",
	"next.js":       "nextjs",
	"express.js":    "express",
	"expressjs":     "express",
	"ts":            "typescript",
	"py":            "python",
	"python3":       "python",
	"golang":        "go",
	"go lang":       "go",
	"postgres":      "postgresql",
	"psql":          "postgresql",
	"mongo":         "mongodb",
	"mongo db":      "mongodb",
	"k8s":           "kubernetes",
	"elastic search": "elasticsearch",
	"tf":            "tensorflow",
	"tensor flow":   "tensorflow",
	"torch":         "pytorch",
	"scikit-learn":  "sklearn",
	"scikit learn":  "sklearn",
	"fast api":      "fastapi",
	"drf":           "django",
	"gcp":           "google cloud",
	"amazon web services": "aws",
}

// TechStack canonicalizes and deduplicates a technology list. Matching is
// case-insensitive; output is lowercase canonical names in first-seen order.
func TechStack(items []string) []string {
	return dedupe(items, func(s string) string {
		if canonical, ok := techCanonical[s]; ok {
			return canonical
		}
		return s
	})
}

// StringSet trims and case-insensitively deduplicates a list, preserving the
// first-seen original casing. Used for skills and pain points.
func StringSet(items []string) []string {
	if len(items) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(items))
	var out []string
	for _, item := range items {
		trimmed := strings.TrimSpace(item)
		if trimmed == "" {
			continue
		}
		key := strings.ToLower(trimmed)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, trimmed)
	}
	return out
}

func dedupe(items []string, canon func(string) string) []string {
	if len(items) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(items))
	var out []string
	for _, item := range items {
		key := canon(strings.ToLower(strings.TrimSpace(item)))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, key)
	}
	return out
}
