package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapRemotePolicy(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected RemotePolicy
	}{
		{"exact remote", "Remote", RemoteRemote},
		{"fully distributed team", "fully distributed team", RemoteRemote},
		{"work from home", "Work from home available", RemoteRemote},
		{"hybrid", "Hybrid", RemoteHybrid},
		{"hybrid remote is hybrid", "hybrid remote, 2 days in office", RemoteHybrid},
		{"onsite", "Onsite", RemoteOnsite},
		{"on-site with hyphen", "On-site in Berlin", RemoteOnsite},
		{"office based", "office-based role", RemoteOnsite},
		{"no signal", "Competitive salary", RemoteUnspecified},
		{"empty", "", RemoteUnspecified},
		{"unknown label", "Unknown", RemoteUnspecified},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, MapRemotePolicy(tt.input))
		})
	}
}

func intPtr(v int) *int { return &v }

func TestSalary(t *testing.T) {
	tests := []struct {
		name     string
		min, max *int
		wantMin  *int
		wantMax  *int
	}{
		{"both nil", nil, nil, nil, nil},
		{"ordered pair unchanged", intPtr(100000), intPtr(150000), intPtr(100000), intPtr(150000)},
		{"inverted pair swapped", intPtr(150000), intPtr(100000), intPtr(100000), intPtr(150000)},
		{"negative min dropped", intPtr(-1), intPtr(90000), nil, intPtr(90000)},
		{"negative max dropped", intPtr(90000), intPtr(-5), intPtr(90000), nil},
		{"only min", intPtr(120000), nil, intPtr(120000), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotMin, gotMax := Salary(tt.min, tt.max)
			assert.Equal(t, tt.wantMin, gotMin)
			assert.Equal(t, tt.wantMax, gotMax)
			if gotMin != nil && gotMax != nil {
				require.LessOrEqual(t, *gotMin, *gotMax)
			}
		})
	}
}

func TestTechStack(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{"nil stays nil", nil, nil},
		{"canonicalizes variants", []string{"Golang", "K8s", "Postgres"}, []string{"go", "kubernetes", "postgresql"}},
		{"dedupes across variants", []string{"node.js", "NodeJS", "Node"}, []string{"nodejs"}},
		{"unknown entries pass lowercased", []string{"Rust", "Kafka"}, []string{"rust", "kafka"}},
		{"blank entries dropped", []string{"", "  ", "Go"}, []string{"go"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, TechStack(tt.input))
		})
	}
}

func TestStringSet(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{"nil stays nil", nil, nil},
		{"trims and keeps first casing", []string{" Leadership ", "leadership", "SQL"}, []string{"Leadership", "SQL"}},
		{"drops blanks", []string{"", "Mentoring"}, []string{"Mentoring"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, StringSet(tt.input))
		})
	}
}
