package models

import "time"

// Problem is a learning-project prompt offered within a course. Each problem
// carries exactly one rubric used to assess final reports.
type Problem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CourseID  uint      `gorm:"not null;index" json:"course_id"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Statement string    `gorm:"type:text" json:"statement"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Rubric    Rubric    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"rubric"`
}

// Rubric is the set of criteria a final report is scored against.
type Rubric struct {
	ID        uint              `gorm:"primaryKey" json:"id"`
	ProblemID uint              `gorm:"not null;uniqueIndex" json:"problem_id"`
	CreatedAt time.Time         `json:"created_at"`
	Criteria  []RubricCriterion `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"criteria"`
}

// RubricCriterion is a single scored dimension with a maximum point value.
type RubricCriterion struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	RubricID  uint   `gorm:"not null;index" json:"rubric_id"`
	Title     string `gorm:"size:255;not null" json:"title"`
	MaxScore  int    `gorm:"not null" json:"max_score"`
	SortOrder int    `gorm:"not null;default:0" json:"sort_order"`
}

// TableName pins the irregular plural; the default naming strategy would
// migrate this model as rubric_criterions.
func (RubricCriterion) TableName() string {
	return "rubric_criteria"
}
