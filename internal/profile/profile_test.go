package profile

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/jobradar/internal/config"
)

// engineeringJob mirrors what the extraction worker persists: departments
// and seniorities arrive lowercased.
func engineeringJob(tech ...string) JobFacts {
	return JobFacts{
		Parsed:       true,
		Department:   "engineering",
		Seniority:    "senior",
		RemotePolicy: "remote",
		TechStack:    tech,
		Skills:       []string{"communication"},
		PainPoints:   []string{"scaling"},
	}
}

func TestBuild_CountsAndParseRate(t *testing.T) {
	jobs := []JobFacts{
		engineeringJob("go", "postgresql"),
		engineeringJob("go"),
		{Parsed: false}, // fetched but not yet extracted
		{Parsed: true, Department: "sales", Seniority: "mid", RemotePolicy: "onsite"},
	}

	p := Build(jobs, config.DefaultSignalThresholds())
	assert.Equal(t, 4, p.TotalJobs)
	assert.Equal(t, 3, p.JobsParsed)
	assert.InDelta(t, 0.75, p.ParseRate, 1e-9)
	assert.Equal(t, map[string]int{"engineering": 2, "sales": 1}, p.Departments)
	assert.Equal(t, map[string]int{"senior": 2, "mid": 1}, p.SeniorityBreakdown)
	assert.Equal(t, []string{"go", "postgresql"}, p.TopTechStack, "ranked by frequency, ties alphabetical")
}

func TestBuild_EmptyCompany(t *testing.T) {
	p := Build(nil, config.DefaultSignalThresholds())
	assert.Equal(t, 0, p.TotalJobs)
	assert.Zero(t, p.ParseRate)
	assert.Nil(t, p.TopTechStack)
	assert.Nil(t, p.HiringSignals)
}

func TestBuild_Idempotent(t *testing.T) {
	jobs := []JobFacts{
		engineeringJob("go", "kubernetes", "aws"),
		engineeringJob("kubernetes", "terraform"),
		{Parsed: true, Department: "product", Seniority: "lead", RemotePolicy: "hybrid"},
	}
	thresholds := config.DefaultSignalThresholds()

	first := Build(jobs, thresholds)
	second := Build(jobs, thresholds)
	assert.Equal(t, first, second, "recompute with no new jobs must be identical")
}

func TestBuild_HiringSignals(t *testing.T) {
	thresholds := config.SignalThresholds{
		AggressiveHiringMinJobs: 3,
		EngineeringHeavyRatio:   0.6,
		RemoteFriendlyRatio:     0.5,
	}

	jobs := []JobFacts{
		engineeringJob("go"),
		engineeringJob("go"),
		{Parsed: true, Department: "sales", Seniority: "mid", RemotePolicy: "onsite"},
	}

	p := Build(jobs, thresholds)
	assert.Contains(t, p.HiringSignals, "aggressive_hiring")
	assert.Contains(t, p.HiringSignals, "engineering_heavy")
	assert.Contains(t, p.HiringSignals, "remote_friendly")

	// Rows written before normalization may carry the capitalized form;
	// the engineering share must still count them.
	p = Build([]JobFacts{
		{Parsed: true, Department: "Engineering", RemotePolicy: "onsite"},
		engineeringJob("go"),
		engineeringJob("go"),
	}, thresholds)
	assert.Contains(t, p.HiringSignals, "engineering_heavy")

	// Below every threshold: no signals at all.
	p = Build([]JobFacts{{Parsed: true, Department: "sales", RemotePolicy: "onsite"}},
		config.DefaultSignalThresholds())
	assert.Empty(t, p.HiringSignals)
}

func TestDebouncer_CoalescesBurst(t *testing.T) {
	var mu sync.Mutex
	calls := map[string]int{}

	d := NewDebouncer(20*time.Millisecond, func(_ context.Context, ats, company string) {
		mu.Lock()
		calls[ats+":"+company]++
		mu.Unlock()
	})

	ctx := context.Background()
	for i := 0; i < 10; i++ {
		d.Mark(ctx, "lever", "acme")
	}
	d.Mark(ctx, "lever", "beta")
	d.Flush()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, calls["lever:acme"], "burst collapses to one rebuild")
	assert.Equal(t, 1, calls["lever:beta"])
}

func TestDebouncer_RunsPendingRebuildOnCancel(t *testing.T) {
	var mu sync.Mutex
	count := 0

	d := NewDebouncer(time.Hour, func(_ context.Context, _, _ string) {
		mu.Lock()
		count++
		mu.Unlock()
	})

	ctx, cancel := context.WithCancel(context.Background())
	d.Mark(ctx, "greenhouse", "acme")
	cancel()
	d.Flush()

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, 1, count, "shutdown must not drop a scheduled rebuild")
}

func TestDebouncer_ReschedulesAfterWindow(t *testing.T) {
	var mu sync.Mutex
	count := 0

	d := NewDebouncer(5*time.Millisecond, func(context.Context, string, string) {
		mu.Lock()
		count++
		mu.Unlock()
	})

	ctx := context.Background()
	d.Mark(ctx, "ashby", "acme")
	d.Flush()
	d.Mark(ctx, "ashby", "acme")
	d.Flush()

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, 2, count, "a mark after the window schedules a fresh rebuild")
}
