package engine

import (
	"fmt"

	"github.com/trellisplan/trellis/internal/model"
)

// DefaultMinConfidence is the floor below which AI-proposed connections are
// rejected outright.
const DefaultMinConfidence = 0.6

// ValidateSuggestions filters externally proposed connections against the
// current snapshot. Rejections are not errors; each carries a reason for
// audit logging. Accepted suggestions are returned for human approval and
// are never applied by the engine itself.
func ValidateSuggestions(
	candidates []model.SuggestedConnection,
	items []*model.WorkItem,
	existing []*model.Connection,
	minConfidence float64,
) (accepted []model.ValidatedSuggestion, rejected []model.RejectedSuggestion) {
	if minConfidence <= 0 {
		minConfidence = DefaultMinConfidence
	}

	byID := make(map[string]*model.WorkItem, len(items))
	for _, it := range items {
		byID[it.ID] = it
	}

	type key struct {
		source, target string
		typ            model.ConnectionType
	}
	taken := make(map[key]bool, len(existing))
	for _, c := range existing {
		if c.IsActive() {
			taken[key{c.SourceID, c.TargetID, c.Type}] = true
		}
	}

	for _, cand := range candidates {
		reject := func(reason string) {
			rejected = append(rejected, model.RejectedSuggestion{Suggestion: cand, Reason: reason})
		}

		src, ok := byID[cand.SourceID]
		if !ok {
			reject(fmt.Sprintf("source item %q not found", cand.SourceID))
			continue
		}
		tgt, ok := byID[cand.TargetID]
		if !ok {
			reject(fmt.Sprintf("target item %q not found", cand.TargetID))
			continue
		}
		if cand.SourceID == cand.TargetID {
			reject("self-loop")
			continue
		}
		if !cand.Type.IsValid() {
			reject(fmt.Sprintf("unknown connection type %q", cand.Type))
			continue
		}
		k := key{cand.SourceID, cand.TargetID, cand.Type}
		if taken[k] {
			reject(fmt.Sprintf("duplicate of an active %s connection from %s to %s",
				cand.Type, cand.SourceID, cand.TargetID))
			continue
		}
		if cand.Confidence < minConfidence {
			reject(fmt.Sprintf("confidence %.2f below threshold %.2f", cand.Confidence, minConfidence))
			continue
		}

		// Accepted candidates count as taken so a batch cannot smuggle
		// in duplicates of itself.
		taken[k] = true
		accepted = append(accepted, model.ValidatedSuggestion{
			Suggestion: cand,
			Source:     model.ItemSummary{ID: src.ID, Name: src.Name, Type: src.Type},
			Target:     model.ItemSummary{ID: tgt.ID, Name: tgt.Name, Type: tgt.Type},
		})
	}

	return accepted, rejected
}
