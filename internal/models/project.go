package models

import "time"

// Phase is the ordered lifecycle stage of a project. Transitions are forward
// only, one step at a time, and closed is terminal.
type Phase string

const (
	PhasePre      Phase = "pre"
	PhaseResearch Phase = "research"
	PhasePost     Phase = "post"
	PhaseClosed   Phase = "closed"
)

var phaseOrder = map[Phase]int{
	PhasePre:      0,
	PhaseResearch: 1,
	PhasePost:     2,
	PhaseClosed:   3,
}

// Valid reports whether the phase belongs to the enumeration.
func (p Phase) Valid() bool {
	_, ok := phaseOrder[p]
	return ok
}

// CanAdvanceTo reports whether a direct transition from p to target is legal.
func (p Phase) CanAdvanceTo(target Phase) bool {
	from, okFrom := phaseOrder[p]
	to, okTo := phaseOrder[target]
	return okFrom && okTo && to == from+1
}

// Project is a team's run at a problem. Phase is the single source of truth
// for which mutations are legal.
type Project struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	ProblemID          uint      `gorm:"not null;index" json:"problem_id"`
	TeamID             uint      `gorm:"not null;index" json:"team_id"`
	Phase              Phase     `gorm:"size:16;not null;default:pre" json:"phase"`
	LearningGoals      string    `gorm:"type:text" json:"learning_goals"`
	FinalReportURL     string    `gorm:"size:512" json:"final_report_url"`
	FinalReportContent string    `gorm:"type:text" json:"final_report_content"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
	Problem            Problem   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Team               Team      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

// IsClosed reports whether the project reached its terminal phase.
func (p Project) IsClosed() bool {
	return p.Phase == PhaseClosed
}
