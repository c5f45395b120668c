package gen

import (
	"context"
	"math/rand"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/traceforge/traceforge/internal/model"
	"github.com/traceforge/traceforge/pkg/catalog"
	tferrors "github.com/traceforge/traceforge/pkg/errors"
)

// Options controls one generation run.
type Options struct {
	// NumCases is the number of independent cases to generate. Must be
	// positive.
	NumCases int

	// TimeSpanHours is the window over which case start times are
	// jittered, offset from BaseTime.
	TimeSpanHours float64

	// Seed seeds the master pseudorandom stream. Two runs with the same
	// options and seed produce byte-identical output.
	Seed int64

	// Workers bounds concurrent case generation. Zero or one means
	// sequential. Output is identical regardless of worker count.
	Workers int

	// BaseTime anchors the log's time axis. Zero means "now minus the
	// time span", matching a log that ends roughly at generation time.
	BaseTime time.Time

	// Progress, if set, is called once per completed case. It must be
	// safe for concurrent use when Workers > 1.
	Progress func()
}

// ActivityCount is one entry of the top-activity distribution.
type ActivityCount struct {
	Activity string
	Count    int
}

// Metadata summarizes a finished generation run.
type Metadata struct {
	RunID                string
	Seed                 int64
	GeneratedAt          time.Time
	TotalEvents          int
	UniqueCases          int
	WorkflowDistribution map[string]int
	TopActivities        []ActivityCount
	BottleneckPct        float64
	ErrorRatePct         float64
	MeanCaseLength       float64
}

// Assembler orchestrates whole-log generation: weighted workflow
// selection, start-time jitter, per-case generation, global ordering,
// and aggregate metadata.
type Assembler struct {
	workflows *catalog.WorkflowCatalog
	cases     *CaseGenerator
}

// NewAssembler creates an assembler over the given catalogs.
func NewAssembler(workflows *catalog.WorkflowCatalog, cases *CaseGenerator) *Assembler {
	return &Assembler{workflows: workflows, cases: cases}
}

// casePlan fixes everything about a case before it is generated. Plans
// are drawn sequentially from the master stream so that parallel case
// generation stays deterministic.
type casePlan struct {
	tpl   *catalog.Template
	start time.Time
	seed  int64
}

// Generate produces the full, timestamp-ordered event log plus summary
// metadata. It fails fast before producing any event on invalid input;
// there is no partial-log recovery.
func (a *Assembler) Generate(ctx context.Context, opts Options) ([]model.Event, *Metadata, error) {
	if opts.NumCases <= 0 {
		return nil, nil, tferrors.New(tferrors.CodeInvalidInput, "number of cases must be positive").
			WithContext("numCases", opts.NumCases)
	}
	if opts.TimeSpanHours < 0 {
		return nil, nil, tferrors.New(tferrors.CodeInvalidInput, "time span must be non-negative").
			WithContext("timeSpanHours", opts.TimeSpanHours)
	}
	if a.workflows.Len() == 0 {
		return nil, nil, tferrors.New(tferrors.CodeCatalogEmpty, "workflow catalog is empty")
	}

	span := time.Duration(opts.TimeSpanHours * float64(time.Hour))
	baseTime := opts.BaseTime
	if baseTime.IsZero() {
		baseTime = time.Now().UTC().Add(-span)
	}

	// All master-stream draws happen here, in case order, so that the
	// plan list (and therefore the output) does not depend on how many
	// workers later execute it.
	master := rand.New(rand.NewSource(opts.Seed))
	plans := make([]casePlan, opts.NumCases)
	for i := range plans {
		plans[i] = casePlan{
			tpl:   a.pickWeighted(master),
			start: baseTime.Add(time.Duration(master.Float64() * float64(span))),
			seed:  master.Int63(),
		}
	}

	perCase := make([][]model.Event, opts.NumCases)
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range plans {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rng := rand.New(rand.NewSource(plans[i].seed))
			events, err := a.cases.Generate(plans[i].tpl, i, plans[i].start, rng)
			if err != nil {
				return err
			}
			perCase[i] = events
			if opts.Progress != nil {
				opts.Progress()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	total := 0
	for _, events := range perCase {
		total += len(events)
	}
	log := make([]model.Event, 0, total)
	for _, events := range perCase {
		log = append(log, events...)
	}

	// Stable: events with equal timestamps keep case-generation order.
	sort.SliceStable(log, func(i, j int) bool {
		return log[i].Timestamp.Before(log[j].Timestamp)
	})

	meta := a.summarize(log, plans, opts.Seed)
	return log, meta, nil
}

// pickWeighted samples a template with replacement, proportional to its
// declared weight.
func (a *Assembler) pickWeighted(rng *rand.Rand) *catalog.Template {
	templates := a.workflows.Templates()
	r := rng.Float64() * a.workflows.TotalWeight()
	acc := 0.0
	for i := range templates {
		acc += templates[i].Weight
		if r < acc {
			return &templates[i]
		}
	}
	return &templates[len(templates)-1]
}

func (a *Assembler) summarize(log []model.Event, plans []casePlan, seed int64) *Metadata {
	meta := &Metadata{
		RunID:                uuid.NewString(),
		Seed:                 seed,
		GeneratedAt:          time.Now().UTC(),
		TotalEvents:          len(log),
		UniqueCases:          len(plans),
		WorkflowDistribution: make(map[string]int),
	}

	for i := range plans {
		meta.WorkflowDistribution[plans[i].tpl.ID]++
	}

	activityCounts := make(map[string]int)
	bottlenecks := 0
	errors := 0
	for i := range log {
		activityCounts[log[i].Activity]++
		if log[i].IsBottleneck {
			bottlenecks++
		}
		if log[i].Result == model.OutcomeError {
			errors++
		}
	}

	counts := make([]ActivityCount, 0, len(activityCounts))
	for activity, count := range activityCounts {
		counts = append(counts, ActivityCount{Activity: activity, Count: count})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Activity < counts[j].Activity
	})
	if len(counts) > 10 {
		counts = counts[:10]
	}
	meta.TopActivities = counts

	if len(log) > 0 {
		meta.BottleneckPct = float64(bottlenecks) / float64(len(log)) * 100
		meta.ErrorRatePct = float64(errors) / float64(len(log)) * 100
	}
	if len(plans) > 0 {
		meta.MeanCaseLength = float64(len(log)) / float64(len(plans))
	}
	return meta
}
