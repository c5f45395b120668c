package gen

import (
	"github.com/traceforge/traceforge/internal/model"
	"github.com/traceforge/traceforge/pkg/catalog"
)

// QualityLabel judges an event duration against fixed thresholds,
// conditioned on its bottleneck status.
func QualityLabel(durationMS float64, isBottleneck bool) model.Quality {
	switch {
	case durationMS > 500:
		return model.QualityPoor
	case isBottleneck && durationMS > 100:
		return model.QualityAcceptable
	case durationMS < 10:
		return model.QualityExcellent
	default:
		return model.QualityGood
	}
}

// AnomalyScore computes a bounded [0,1] heuristic for how unusual an
// event is given its duration and workflow context. The score is
// additive and clamped; it is a pure function of its inputs.
//
// Context penalties are family-driven rather than substring matches:
// thread work inside a document-editing workflow is unusual, file work
// inside background system maintenance is mildly unusual.
func AnomalyScore(durationMS float64, category model.Category, workflowType string) float64 {
	score := 0.0

	if durationMS > 1000 {
		score += 0.5
	} else if durationMS > 500 {
		score += 0.3
	}

	switch workflowType {
	case catalog.WorkflowDocumentEditing:
		if category == model.CategoryThread {
			score += 0.2
		}
	case catalog.WorkflowSystemMaintenance:
		if category == model.CategoryFile || category == model.CategoryFileSystem {
			score += 0.1
		}
	}

	if score > 1.0 {
		score = 1.0
	}
	if score < 0.0 {
		score = 0.0
	}
	return score
}
