// Package profile rebuilds company aggregate profiles from the full set of a
// company's jobs. Recomputation is wholesale, never incremental, so the
// profile can never drift from the ground truth in the jobs table.
package profile

import (
	"sort"
	"strings"

	"github.com/jonathan/jobradar/internal/config"
)

// topN is how many entries the frequency-ranked lists keep.
const topN = 10

// JobFacts is the slice of a job row that aggregation needs.
type JobFacts struct {
	Parsed       bool // parsed_at set
	Department   string
	Seniority    string
	RemotePolicy string
	TechStack    []string
	Skills       []string
	PainPoints   []string
}

// Profile is the derived company aggregate, identity key (ats, company).
type Profile struct {
	TotalJobs          int            `json:"total_jobs"`
	JobsParsed         int            `json:"jobs_parsed"`
	ParseRate          float64        `json:"parse_rate"`
	Departments        map[string]int `json:"departments"`
	SeniorityBreakdown map[string]int `json:"seniority_breakdown"`
	TopTechStack       []string       `json:"top_tech_stack"`
	TopSkills          []string       `json:"top_skills"`
	TopPainPoints      []string       `json:"top_pain_points"`
	HiringSignals      []string       `json:"hiring_signals"`
}

// Build computes a Profile from all of a company's jobs. Deterministic:
// identical input always produces identical output, so back-to-back
// recomputes with no new jobs are idempotent.
func Build(jobs []JobFacts, thresholds config.SignalThresholds) Profile {
	p := Profile{
		TotalJobs:          len(jobs),
		Departments:        map[string]int{},
		SeniorityBreakdown: map[string]int{},
	}

	techCounts := map[string]int{}
	skillCounts := map[string]int{}
	painCounts := map[string]int{}
	remoteCount := 0

	for _, job := range jobs {
		if !job.Parsed {
			continue
		}
		p.JobsParsed++
		if job.Department != "" {
			p.Departments[job.Department]++
		}
		if job.Seniority != "" {
			p.SeniorityBreakdown[job.Seniority]++
		}
		if job.RemotePolicy == "remote" {
			remoteCount++
		}
		for _, t := range job.TechStack {
			techCounts[t]++
		}
		for _, s := range job.Skills {
			skillCounts[s]++
		}
		for _, pp := range job.PainPoints {
			painCounts[pp]++
		}
	}

	if p.TotalJobs > 0 {
		p.ParseRate = float64(p.JobsParsed) / float64(p.TotalJobs)
	}
	p.TopTechStack = rankTop(techCounts, topN)
	p.TopSkills = rankTop(skillCounts, topN)
	p.TopPainPoints = rankTop(painCounts, topN)
	p.HiringSignals = deriveSignals(p, remoteCount, thresholds)

	return p
}

// rankTop returns the n most frequent keys, ties broken alphabetically so
// the ranking is stable across runs.
func rankTop(counts map[string]int, n int) []string {
	if len(counts) == 0 {
		return nil
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})
	if len(keys) > n {
		keys = keys[:n]
	}
	return keys
}

// deriveSignals tags notable hiring patterns. Thresholds are configuration,
// not constants.
func deriveSignals(p Profile, remoteCount int, t config.SignalThresholds) []string {
	var signals []string
	if p.TotalJobs >= t.AggressiveHiringMinJobs {
		signals = append(signals, "aggressive_hiring")
	}
	if p.JobsParsed > 0 {
		// Extraction lowercases departments before persisting, but profiles
		// are also rebuilt over rows written by older runs or manual edits,
		// so the match is case-insensitive.
		engineering := 0
		for dept, n := range p.Departments {
			if strings.EqualFold(dept, "engineering") {
				engineering += n
			}
		}
		if float64(engineering)/float64(p.JobsParsed) >= t.EngineeringHeavyRatio {
			signals = append(signals, "engineering_heavy")
		}
		if float64(remoteCount)/float64(p.JobsParsed) >= t.RemoteFriendlyRatio {
			signals = append(signals, "remote_friendly")
		}
	}
	return signals
}
