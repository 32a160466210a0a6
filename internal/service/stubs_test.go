package service

import (
	"context"
	"io"
	"sync"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/praxislab/praxis-go-api/internal/dto"
	"github.com/praxislab/praxis-go-api/internal/models"
	"github.com/praxislab/praxis-go-api/internal/repository"
)

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

type stubUserRepo struct {
	users map[uint]models.User
}

func (r *stubUserRepo) FindByID(ctx context.Context, id uint) (models.User, error) {
	if user, ok := r.users[id]; ok {
		return user, nil
	}
	return models.User{}, gorm.ErrRecordNotFound
}

func (r *stubUserRepo) Create(ctx context.Context, user *models.User) error {
	if r.users == nil {
		r.users = make(map[uint]models.User)
	}
	r.users[user.ID] = *user
	return nil
}

type stubCourseRepo struct {
	courses map[uint]models.Course
}

func (r *stubCourseRepo) FindByID(ctx context.Context, id uint) (models.Course, error) {
	if course, ok := r.courses[id]; ok {
		return course, nil
	}
	return models.Course{}, gorm.ErrRecordNotFound
}

type stubTeamRepo struct {
	mu      sync.Mutex
	teams   map[uint]models.Team
	members []models.TeamMembership
	nextID  uint
}

func (r *stubTeamRepo) FindByID(ctx context.Context, id uint) (models.Team, error) {
	if team, ok := r.teams[id]; ok {
		return team, nil
	}
	return models.Team{}, gorm.ErrRecordNotFound
}

func (r *stubTeamRepo) IsMember(ctx context.Context, teamID, userID uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.members {
		if m.TeamID == teamID && m.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubTeamRepo) AddMember(ctx context.Context, membership *models.TeamMembership) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.members {
		if m.TeamID == membership.TeamID && m.UserID == membership.UserID {
			return repository.ErrDuplicateMembership
		}
	}
	r.nextID++
	membership.ID = r.nextID
	r.members = append(r.members, *membership)
	return nil
}

func (r *stubTeamRepo) CountMembers(ctx context.Context, teamID uint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, m := range r.members {
		if m.TeamID == teamID {
			count++
		}
	}
	return count, nil
}

func (r *stubTeamRepo) ListMembers(ctx context.Context, teamID uint) ([]models.TeamMembership, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.TeamMembership
	for _, m := range r.members {
		if m.TeamID == teamID {
			out = append(out, m)
		}
	}
	return out, nil
}

type stubProjectRepo struct {
	mu       sync.Mutex
	projects map[uint]*models.Project
	criteria []models.RubricCriterion
}

func (r *stubProjectRepo) FindByID(ctx context.Context, id uint) (models.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if project, ok := r.projects[id]; ok {
		return *project, nil
	}
	return models.Project{}, gorm.ErrRecordNotFound
}

func (r *stubProjectRepo) CriteriaForProject(ctx context.Context, projectID uint) ([]models.RubricCriterion, error) {
	return r.criteria, nil
}

func (r *stubProjectRepo) ConfirmLearningGoals(ctx context.Context, projectID uint, goals string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	project, ok := r.projects[projectID]
	if !ok || project.Phase != models.PhasePre {
		return repository.ErrPhaseConflict
	}
	project.LearningGoals = goals
	project.Phase = models.PhaseResearch
	return nil
}

func (r *stubProjectRepo) AttachFinalReport(ctx context.Context, projectID uint, url, content string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	project, ok := r.projects[projectID]
	if !ok || project.Phase != models.PhaseResearch {
		return repository.ErrPhaseConflict
	}
	project.FinalReportURL = url
	project.FinalReportContent = content
	project.Phase = models.PhasePost
	return nil
}

type stubAssessmentRepo struct {
	mu          sync.Mutex
	projects    *stubProjectRepo
	assessments map[uint]*models.Assessment
	nextID      uint
	scoresErr   error
	deleted     []uint
}

func (r *stubAssessmentRepo) Create(ctx context.Context, assessment *models.Assessment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.assessments {
		if existing.ProjectID == assessment.ProjectID && existing.AssessorID == assessment.AssessorID {
			return repository.ErrDuplicateAssessment
		}
	}
	if r.assessments == nil {
		r.assessments = make(map[uint]*models.Assessment)
	}
	r.nextID++
	assessment.ID = r.nextID
	stored := *assessment
	r.assessments[assessment.ID] = &stored
	return nil
}

func (r *stubAssessmentRepo) CreateScores(ctx context.Context, scores []models.AssessmentScore) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.scoresErr != nil {
		return r.scoresErr
	}
	if len(scores) == 0 {
		return nil
	}
	if assessment, ok := r.assessments[scores[0].AssessmentID]; ok {
		assessment.Scores = append(assessment.Scores, scores...)
	}
	return nil
}

func (r *stubAssessmentRepo) DeleteByID(ctx context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.assessments, id)
	r.deleted = append(r.deleted, id)
	return nil
}

func (r *stubAssessmentRepo) FindByProjectAndAssessor(ctx context.Context, projectID, assessorID uint) (models.Assessment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, assessment := range r.assessments {
		if assessment.ProjectID == projectID && assessment.AssessorID == assessorID {
			return *assessment, nil
		}
	}
	return models.Assessment{}, gorm.ErrRecordNotFound
}

func (r *stubAssessmentRepo) FindByProject(ctx context.Context, projectID uint) (models.Assessment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, assessment := range r.assessments {
		if assessment.ProjectID == projectID {
			return *assessment, nil
		}
	}
	return models.Assessment{}, gorm.ErrRecordNotFound
}

func (r *stubAssessmentRepo) Finalize(ctx context.Context, assessmentID, projectID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	assessment, ok := r.assessments[assessmentID]
	if !ok || assessment.Status != models.AssessmentStatusPendingReview {
		return repository.ErrAssessmentConflict
	}
	if r.projects != nil {
		r.projects.mu.Lock()
		project, exists := r.projects.projects[projectID]
		if !exists || project.Phase != models.PhasePost {
			r.projects.mu.Unlock()
			return repository.ErrPhaseConflict
		}
		project.Phase = models.PhaseClosed
		r.projects.mu.Unlock()
	}
	assessment.Status = models.AssessmentStatusFinal
	return nil
}

type stubNotificationRepo struct {
	mu            sync.Mutex
	notifications []models.Notification
	nextID        uint
}

func (r *stubNotificationRepo) Create(ctx context.Context, notification *models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	notification.ID = r.nextID
	r.notifications = append(r.notifications, *notification)
	return nil
}

func (r *stubNotificationRepo) ListByRecipient(ctx context.Context, recipientID uint, unreadOnly bool, limit, offset int) ([]models.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Notification
	for _, n := range r.notifications {
		if n.RecipientID != recipientID {
			continue
		}
		if unreadOnly && n.IsRead {
			continue
		}
		out = append(out, n)
	}
	return out, nil
}

func (r *stubNotificationRepo) MarkRead(ctx context.Context, id, recipientID uint) (models.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, n := range r.notifications {
		if n.ID == id && n.RecipientID == recipientID {
			r.notifications[i].IsRead = true
			return r.notifications[i], nil
		}
	}
	return models.Notification{}, gorm.ErrRecordNotFound
}

func (r *stubNotificationRepo) CountUnread(ctx context.Context, recipientID uint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, n := range r.notifications {
		if n.RecipientID == recipientID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

type recordedActivity struct {
	mu      sync.Mutex
	entries []ActivityEntry
}

func (r *recordedActivity) Record(ctx context.Context, entry ActivityEntry) (dto.ActivityResponse, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
	return dto.ActivityResponse{}, nil
}
