package server

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/trellisplan/trellis/internal/engine"
	"github.com/trellisplan/trellis/internal/events"
	"github.com/trellisplan/trellis/internal/model"
)

type validateSuggestionsInput struct {
	Suggestions []model.SuggestedConnection `json:"suggestions"`

	// MinConfidence overrides the server's configured floor when positive.
	MinConfidence float64 `json:"min_confidence"`
}

// handleValidateSuggestions handles POST /v1/suggestions/validate. Candidate
// connections from an external generator are filtered against the current
// graph; accepted ones are returned for human approval, never applied here.
func (s *GraphServer) handleValidateSuggestions(w http.ResponseWriter, r *http.Request) {
	var in validateSuggestionsInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	items, conns, err := s.store.Snapshot(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load snapshot")
		return
	}

	minConfidence := s.minConfidence
	if in.MinConfidence > 0 {
		minConfidence = in.MinConfidence
	}

	accepted, rejected := engine.ValidateSuggestions(in.Suggestions, items, conns, minConfidence)

	// Rejections are expected churn from the generator; keep them in the
	// audit log rather than treating them as failures.
	for _, rej := range rejected {
		slog.Info("suggestion rejected",
			"source", rej.Suggestion.SourceID,
			"target", rej.Suggestion.TargetID,
			"type", rej.Suggestion.Type,
			"reason", rej.Reason,
		)
	}

	s.publish(r.Context(), events.TopicSuggestionsValidated, events.SuggestionsValidated{
		Accepted: len(accepted),
		Rejected: len(rejected),
	})

	if accepted == nil {
		accepted = []model.ValidatedSuggestion{}
	}
	if rejected == nil {
		rejected = []model.RejectedSuggestion{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"accepted": accepted,
		"rejected": rejected,
	})
}
