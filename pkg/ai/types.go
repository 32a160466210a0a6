package ai

import "context"

// ReviewCriterion is one rubric dimension presented to the reviewer model.
type ReviewCriterion struct {
	ID       uint
	Title    string
	MaxScore int
}

// ReviewInput contains the artefacts needed to draft rubric scores for a
// final report.
type ReviewInput struct {
	ProblemTitle  string
	ReportURL     string
	ReportContent string
	Criteria      []ReviewCriterion
}

// ReviewSuggestion is one drafted score. Suggestions are advisory text, never
// persisted directly.
type ReviewSuggestion struct {
	CriterionID   uint   `json:"criterion_id"`
	Score         int    `json:"score"`
	Justification string `json:"justification"`
}

// Reviewer describes a black-box text producer capable of drafting rubric
// scores.
type Reviewer interface {
	Review(ctx context.Context, input ReviewInput) ([]ReviewSuggestion, error)
}
