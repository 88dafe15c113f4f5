package plan

import (
	"fmt"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	"github.com/cognicore/fxseo/pkg/fxseo/internalerr"
)

// HorizonDays is the default planning horizon: 13 weeks.
const HorizonDays = 91

// DayRules maps a weekday to the pillars published on it.
type DayRules map[time.Weekday][]string

// DefaultDayRules returns the built-in weekly cadence. Each weekday carries
// exactly two pillars; weekends carry none.
func DefaultDayRules() DayRules {
	return DayRules{
		time.Monday:    {PillarBrokerReviews, PillarEducation},
		time.Tuesday:   {PillarStrategies, PillarPlatforms},
		time.Wednesday: {PillarBrokerReviews, PillarSafety},
		time.Thursday:  {PillarEducation, PillarPayments},
		time.Friday:    {PillarBrokerReviews, PillarStrategies},
	}
}

// Options configures a Generator.
type Options struct {
	// Start is the first calendar day considered. Only the date part is used.
	Start time.Time

	// Days is the horizon length; zero selects HorizonDays.
	Days int

	Rules DayRules

	// Chooser selects title templates; nil selects an unseeded source.
	Chooser Chooser

	Logger *zap.Logger
}

// Generator schedules pillar keywords onto a weekday calendar.
type Generator struct {
	start   time.Time
	days    int
	rules   DayRules
	builder *itemBuilder
	logger  *zap.Logger
}

// NewGenerator creates a Generator from opts.
func NewGenerator(opts Options) *Generator {
	start := opts.Start
	if start.IsZero() {
		start = time.Now()
	}
	start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())

	days := opts.Days
	if days <= 0 {
		days = HorizonDays
	}
	rules := opts.Rules
	if rules == nil {
		rules = DefaultDayRules()
	}
	chooser := opts.Chooser
	if chooser == nil {
		chooser = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Generator{
		start:   start,
		days:    days,
		rules:   rules,
		builder: &itemBuilder{chooser: chooser},
		logger:  logger,
	}
}

// Start returns the normalized first day of the horizon.
func (g *Generator) Start() time.Time {
	return g.start
}

// Generate walks the horizon day by day, skipping weekends, and creates one
// item per (day, pillar) slot. The keyword for a slot is picked by the
// rotating index (week*7 + weekday) mod len(available). Slots whose pillar has
// no keywords are skipped. Day rules naming an unknown pillar are an error.
func (g *Generator) Generate(pillars []Pillar) ([]Item, error) {
	byName := make(map[string]Pillar, len(pillars))
	for _, p := range pillars {
		byName[p.Name] = p
	}
	for day := time.Sunday; day <= time.Saturday; day++ {
		for _, name := range g.rules[day] {
			if _, ok := byName[name]; !ok {
				return nil, fmt.Errorf("%s rule references %q: %w", day, name, internalerr.ErrUnknownPillar)
			}
		}
	}

	var items []Item
	skipped := 0
	for d := 0; d < g.days; d++ {
		date := g.start.AddDate(0, 0, d)
		weekday := date.Weekday()
		if weekday == time.Saturday || weekday == time.Sunday {
			continue
		}
		week := d / 7

		for slot, name := range g.rules[weekday] {
			p := byName[name]
			pool := p.AvailableKeywords()
			if len(pool) == 0 {
				skipped++
				continue
			}
			k := pool[(week*7+int(weekday))%len(pool)]
			it, err := g.builder.build(date, slot, p, contentTypeFor(p, week, weekday), k)
			if err != nil {
				return nil, err
			}
			items = append(items, it)
		}
	}

	g.logger.Info("content calendar generated",
		zap.Time("start", g.start),
		zap.Int("days", g.days),
		zap.Int("items", len(items)),
		zap.Int("skipped_slots", skipped))
	return items, nil
}

func contentTypeFor(p Pillar, week int, weekday time.Weekday) ContentType {
	if len(p.ContentTypes) == 0 {
		return Guide
	}
	return p.ContentTypes[(week+int(weekday))%len(p.ContentTypes)]
}
