// Package seeder generates synthetic verification logs for demos and local
// testing. The generated data deliberately contains every pattern the
// analyzer looks for: cache-attribution sequences, rapid-fire bursts, field
// degradations and cross-source disagreements.
package seeder

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"

	"github.com/sentrakyc/veriwatch/analyzer/pkg/analysis"
)

// Config controls the generated dataset.
type Config struct {
	Entities        int           // distinct NIKs
	TimeSpread      time.Duration // events are placed backwards from End
	End             time.Time     // zero means time.Now()
	RapidFireBursts int           // entities that get a burst of sub-second hits
	Degradations    int           // entities that get a Sesuai -> Tidak Sesuai flip
	Disagreements   int           // entities where sources disagree on one field
	Seed            int64         // 0 means non-deterministic
}

// DefaultConfig returns a dataset shape good enough to exercise every
// detector.
func DefaultConfig() Config {
	return Config{
		Entities:        200,
		TimeSpread:      7 * 24 * time.Hour,
		RapidFireBursts: 5,
		Degradations:    10,
		Disagreements:   8,
	}
}

// Generator produces synthetic verification events.
type Generator struct {
	cfg   Config
	rng   *rand.Rand
	faker *gofakeit.Faker
	end   time.Time
}

// New creates a Generator. The same seed always yields the same dataset.
func New(cfg Config) *Generator {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	end := cfg.End
	if end.IsZero() {
		end = time.Now().Truncate(time.Second)
	}
	return &Generator{
		cfg:   cfg,
		rng:   rand.New(rand.NewSource(seed)),
		faker: gofakeit.New(seed),
		end:   end,
	}
}

// sequencePatterns are the source orderings an entity's requests follow,
// weighted roughly like production traffic.
var sequencePatterns = [][]string{
	{analysis.SourceCache},
	{analysis.SourceCache},
	{analysis.SourceDukcapil, analysis.SourceCache},
	{analysis.SourceDukcapil, analysis.SourceCache},
	{analysis.SourceBCA, analysis.SourceCache},
	{analysis.SourceDukcapil, analysis.SourceBCA, analysis.SourceCache},
	{analysis.SourceDukcapil},
	{analysis.SourceBCA},
}

// Generate builds the full synthetic event set, sorted by timestamp.
func (g *Generator) Generate() []analysis.Event {
	var events []analysis.Event

	for i := 0; i < g.cfg.Entities; i++ {
		nik := g.nik()
		pattern := sequencePatterns[g.rng.Intn(len(sequencePatterns))]
		at := g.randomTime()

		for _, source := range pattern {
			events = append(events, g.event(nik, at, source))
			at = at.Add(time.Duration(1+g.rng.Intn(120)) * time.Minute)
		}

		switch {
		case i < g.cfg.RapidFireBursts:
			events = append(events, g.burst(nik, at)...)
		case i < g.cfg.RapidFireBursts+g.cfg.Degradations:
			events = append(events, g.degradation(nik, at)...)
		case i < g.cfg.RapidFireBursts+g.cfg.Degradations+g.cfg.Disagreements:
			events = append(events, g.disagreement(nik, at)...)
		}
	}

	analysis.SortEvents(events)
	return events
}

// event builds one verification hit with mostly matching fields.
func (g *Generator) event(nik string, at time.Time, source string) analysis.Event {
	statuses := map[string]string{}
	for _, field := range analysis.TrackedFields {
		switch {
		case g.rng.Float64() < 0.05:
			statuses[field] = analysis.StatusMissing
		case g.rng.Float64() < 0.08:
			statuses[field] = analysis.StatusMismatch
		default:
			statuses[field] = analysis.StatusMatch
		}
	}
	return analysis.Event{
		ID:            uuid.NewString(),
		NIK:           nik,
		CreatedAt:     at,
		SourceResult:  source,
		SourceApp:     g.sourceApp(),
		FieldStatuses: statuses,
	}
}

// burst produces a rapid-fire run of hits spaced under a second apart.
func (g *Generator) burst(nik string, at time.Time) []analysis.Event {
	n := 5 + g.rng.Intn(4)
	events := make([]analysis.Event, 0, n)
	for i := 0; i < n; i++ {
		events = append(events, g.event(nik, at, analysis.SourceCache))
		at = at.Add(time.Duration(200+g.rng.Intn(700)) * time.Millisecond)
	}
	return events
}

// degradation produces a pair of hits where one field flips from match to
// mismatch.
func (g *Generator) degradation(nik string, at time.Time) []analysis.Event {
	field := analysis.TrackedFields[g.rng.Intn(len(analysis.TrackedFields))]

	first := g.event(nik, at, analysis.SourceDukcapil)
	first.FieldStatuses[field] = analysis.StatusMatch

	second := g.event(nik, at.Add(time.Duration(1+g.rng.Intn(48))*time.Hour), analysis.SourceBCA)
	second.FieldStatuses[field] = analysis.StatusMismatch

	return []analysis.Event{first, second}
}

// disagreement produces hits from two sources that settle on different
// values for the same field.
func (g *Generator) disagreement(nik string, at time.Time) []analysis.Event {
	field := analysis.TrackedFields[g.rng.Intn(len(analysis.TrackedFields))]

	a := g.event(nik, at, analysis.SourceDukcapil)
	a.FieldStatuses[field] = analysis.StatusMatch

	b := g.event(nik, at.Add(time.Hour), analysis.SourceBCA)
	b.FieldStatuses[field] = analysis.StatusMismatch

	c := g.event(nik, at.Add(2*time.Hour), analysis.SourceBCA)
	c.FieldStatuses[field] = analysis.StatusMismatch

	return []analysis.Event{a, b, c}
}

// nik builds a plausible 16-digit identifier: 6-digit region code, DDMMYY
// birth date and a 4-digit serial.
func (g *Generator) nik() string {
	region := 310000 + g.rng.Intn(9999)
	birth := g.faker.DateRange(
		time.Date(1955, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2004, 12, 31, 0, 0, 0, 0, time.UTC),
	)
	day := birth.Day()
	// Female NIKs encode the birth day offset by 40.
	if g.rng.Intn(2) == 0 {
		day += 40
	}
	return fmt.Sprintf("%06d%02d%02d%02d%04d", region, day, int(birth.Month()), birth.Year()%100, 1+g.rng.Intn(9999))
}

func (g *Generator) sourceApp() string {
	apps := []string{"mobile-onboarding", "branch-teller", "partner-api", "web-portal"}
	return apps[g.rng.Intn(len(apps))]
}

func (g *Generator) randomTime() time.Time {
	offset := time.Duration(g.rng.Int63n(int64(g.cfg.TimeSpread)))
	return g.end.Add(-offset)
}
