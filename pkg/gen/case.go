package gen

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/traceforge/traceforge/internal/model"
	"github.com/traceforge/traceforge/pkg/catalog"
	tferrors "github.com/traceforge/traceforge/pkg/errors"
)

// Per-event sampling constants.
const (
	minStageEvents = 2
	maxStageEvents = 5
	stageFollowP   = 0.8  // probability an event follows its stage pattern
	errorRate      = 0.03 // independent ERROR outcome probability
)

// CaseGenerator produces the ordered event sequence for a single case
// by traversing a template's stages in declared order. All stochastic
// choices draw from the rand.Rand handed to Generate, so one case is
// fully determined by its sub-seed.
type CaseGenerator struct {
	acts  *catalog.ActivityCatalog
	paths *PathResolver
}

// NewCaseGenerator creates a case generator over the given catalogs.
func NewCaseGenerator(acts *catalog.ActivityCatalog, paths *PathResolver) *CaseGenerator {
	return &CaseGenerator{acts: acts, paths: paths}
}

// Generate runs one case: stage-by-stage event production with noise
// injection, activity-driven bottleneck labeling, and a clock that
// starts at the case's designated start time and advances by each
// event's sampled duration. The first event of a case carries the start
// time itself; every later timestamp equals the previous timestamp plus
// the previous event's duration.
func (g *CaseGenerator) Generate(tpl *catalog.Template, caseNum int, start time.Time, rng *rand.Rand) ([]model.Event, error) {
	pool := g.acts.Pool()
	if len(pool) == 0 {
		return nil, tferrors.New(tferrors.CodeCatalogEmpty, "activity pool is empty")
	}

	caseID := fmt.Sprintf("%s_%d", tpl.ID, caseNum)
	pid := 2000 + caseNum
	durations := NewDurationModel(rng)
	clock := start

	events := make([]model.Event, 0, len(tpl.Stages)*maxStageEvents)
	for _, stage := range tpl.Stages {
		if len(stage.Activities) == 0 {
			return nil, tferrors.New(tferrors.CodeEmptyStage, "stage has no candidate activities").
				WithContext("workflow", tpl.ID).
				WithContext("stage", stage.Name)
		}

		n := minStageEvents + rng.Intn(maxStageEvents-minStageEvents+1)
		for i := 0; i < n; i++ {
			var activity string
			if rng.Float64() < stageFollowP {
				activity = stage.Activities[rng.Intn(len(stage.Activities))]
			} else {
				// Noise injection: any known system call may appear here,
				// including incidental bottleneck-pattern hits.
				activity = pool[rng.Intn(len(pool))]
			}

			label, isBottleneck := tpl.BottleneckLabel(activity)
			durMS := durations.Sample(isBottleneck)

			result := model.OutcomeSuccess
			if rng.Float64() < errorRate {
				result = model.OutcomeError
			}

			category := g.acts.Category(activity)
			events = append(events, model.Event{
				CaseID:           caseID,
				Activity:         activity,
				Timestamp:        clock,
				Resource:         tpl.Executable,
				WorkflowType:     tpl.ID,
				BusinessProcess:  tpl.Description,
				Stage:            stage.Name,
				StageDescription: stage.Description,
				PID:              pid,
				TID:              100 + rng.Intn(900),
				FilePath:         g.paths.Resolve(activity, tpl.ID, rng),
				Category:         category,
				DurationMS:       durMS,
				Result:           result,
				IsBottleneck:     isBottleneck,
				BottleneckType:   label,
				Quality:          QualityLabel(durMS, isBottleneck),
				AnomalyScore:     AnomalyScore(durMS, category, tpl.ID),
			})

			clock = clock.Add(msToDuration(durMS))
		}
	}

	return events, nil
}
