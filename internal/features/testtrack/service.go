package testtrack

import (
	"context"
	"errors"
	"time"

	common_models "github.com/AzizRahmanYaad/cbs-dashboard/internal/common/models"
	"github.com/AzizRahmanYaad/cbs-dashboard/internal/features/audit"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TrackService interface {
	CreateModule(ctx context.Context, actorID primitive.ObjectID, name, description string) (*TestModule, error)
	ListModules(ctx context.Context) ([]TestModule, error)
	UpdateModule(ctx context.Context, id primitive.ObjectID, name, description string) (*TestModule, error)
	DeleteModule(ctx context.Context, id primitive.ObjectID) error

	CreateCase(ctx context.Context, actorID primitive.ObjectID, tc *TestCase) (*TestCase, error)
	GetCase(ctx context.Context, id primitive.ObjectID) (*TestCase, error)
	ListCases(ctx context.Context, moduleID *primitive.ObjectID, status string, page, limit int64) ([]TestCase, int64, error)
	UpdateCase(ctx context.Context, id primitive.ObjectID, tc *TestCase) (*TestCase, error)
	DeleteCase(ctx context.Context, id primitive.ObjectID) error

	RecordExecution(ctx context.Context, actorID primitive.ObjectID, e *TestExecution) (*TestExecution, error)
	ListExecutions(ctx context.Context, testCaseID primitive.ObjectID) ([]TestExecution, error)

	CreateDefect(ctx context.Context, actorID primitive.ObjectID, d *Defect) (*Defect, error)
	GetDefect(ctx context.Context, id primitive.ObjectID) (*Defect, error)
	ListDefects(ctx context.Context, status string, page, limit int64) ([]Defect, int64, error)
	UpdateDefectStatus(ctx context.Context, id primitive.ObjectID, status string) (*Defect, error)

	AddComment(ctx context.Context, actorID primitive.ObjectID, targetType string, targetID primitive.ObjectID, body string) (*Comment, error)
	ListComments(ctx context.Context, targetType string, targetID primitive.ObjectID) ([]Comment, error)
}

type TrackServiceImpl struct {
	Repo         TrackRepository
	AuditService audit.AuditService
}

func NewTrackService(repo TrackRepository, auditService audit.AuditService) TrackService {
	return &TrackServiceImpl{
		Repo:         repo,
		AuditService: auditService,
	}
}

func oneOf(value string, allowed []string) bool {
	for _, v := range allowed {
		if v == value {
			return true
		}
	}
	return false
}

func (s *TrackServiceImpl) CreateModule(ctx context.Context, actorID primitive.ObjectID, name, description string) (*TestModule, error) {
	if name == "" {
		return nil, errors.New("module name is required")
	}

	now := time.Now()
	m := &TestModule{
		ID:          primitive.NewObjectID(),
		Name:        name,
		Description: description,
		CreatedBy:   actorID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.Repo.CreateModule(ctx, m); err != nil {
		return nil, err
	}

	_ = s.AuditService.LogChange(ctx, common_models.AuditActionCreate, "test_modules", m.ID.Hex(),
		map[string]common_models.Change{"name": {New: name}})
	return m, nil
}

func (s *TrackServiceImpl) ListModules(ctx context.Context) ([]TestModule, error) {
	return s.Repo.ListModules(ctx)
}

func (s *TrackServiceImpl) UpdateModule(ctx context.Context, id primitive.ObjectID, name, description string) (*TestModule, error) {
	m, err := s.Repo.FindModule(ctx, id)
	if err != nil {
		return nil, errors.New("test module not found")
	}

	if name != "" {
		m.Name = name
	}
	m.Description = description
	m.UpdatedAt = time.Now()
	if err := s.Repo.UpdateModule(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *TrackServiceImpl) DeleteModule(ctx context.Context, id primitive.ObjectID) error {
	return s.Repo.DeleteModule(ctx, id)
}

func (s *TrackServiceImpl) CreateCase(ctx context.Context, actorID primitive.ObjectID, tc *TestCase) (*TestCase, error) {
	if tc.Title == "" {
		return nil, errors.New("test case title is required")
	}
	if tc.Status == "" {
		tc.Status = CaseStatusDraft
	}

	now := time.Now()
	tc.ID = primitive.NewObjectID()
	tc.CreatedBy = actorID
	tc.CreatedAt = now
	tc.UpdatedAt = now

	if err := s.Repo.CreateCase(ctx, tc); err != nil {
		return nil, err
	}

	_ = s.AuditService.LogChange(ctx, common_models.AuditActionCreate, "test_cases", tc.ID.Hex(),
		map[string]common_models.Change{"title": {New: tc.Title}})
	return tc, nil
}

func (s *TrackServiceImpl) GetCase(ctx context.Context, id primitive.ObjectID) (*TestCase, error) {
	return s.Repo.FindCase(ctx, id)
}

func (s *TrackServiceImpl) ListCases(ctx context.Context, moduleID *primitive.ObjectID, status string, page, limit int64) ([]TestCase, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	filter := bson.M{}
	if moduleID != nil {
		filter["module_id"] = *moduleID
	}
	if status != "" {
		filter["status"] = status
	}
	return s.Repo.ListCases(ctx, filter, limit, (page-1)*limit)
}

func (s *TrackServiceImpl) UpdateCase(ctx context.Context, id primitive.ObjectID, tc *TestCase) (*TestCase, error) {
	existing, err := s.Repo.FindCase(ctx, id)
	if err != nil {
		return nil, err
	}

	existing.Title = tc.Title
	existing.Description = tc.Description
	existing.Preconditions = tc.Preconditions
	existing.Steps = tc.Steps
	existing.Priority = tc.Priority
	if tc.Status != "" {
		existing.Status = tc.Status
	}
	existing.AssigneeID = tc.AssigneeID
	existing.UpdatedAt = time.Now()

	if err := s.Repo.UpdateCase(ctx, existing); err != nil {
		return nil, err
	}

	_ = s.AuditService.LogChange(ctx, common_models.AuditActionUpdate, "test_cases", id.Hex(),
		map[string]common_models.Change{"title": {New: existing.Title}})
	return existing, nil
}

func (s *TrackServiceImpl) DeleteCase(ctx context.Context, id primitive.ObjectID) error {
	if err := s.Repo.DeleteCase(ctx, id); err != nil {
		return err
	}
	_ = s.AuditService.LogChange(ctx, common_models.AuditActionDelete, "test_cases", id.Hex(),
		map[string]common_models.Change{"deleted": {New: true}})
	return nil
}

func (s *TrackServiceImpl) RecordExecution(ctx context.Context, actorID primitive.ObjectID, e *TestExecution) (*TestExecution, error) {
	if !oneOf(e.Status, ExecutionStatuses) {
		return nil, errors.New("invalid execution status")
	}
	if _, err := s.Repo.FindCase(ctx, e.TestCaseID); err != nil {
		return nil, errors.New("test case not found")
	}

	e.ID = primitive.NewObjectID()
	e.ExecutedBy = actorID
	e.ExecutedAt = time.Now()

	if err := s.Repo.CreateExecution(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *TrackServiceImpl) ListExecutions(ctx context.Context, testCaseID primitive.ObjectID) ([]TestExecution, error) {
	return s.Repo.ListExecutions(ctx, testCaseID)
}

func (s *TrackServiceImpl) CreateDefect(ctx context.Context, actorID primitive.ObjectID, d *Defect) (*Defect, error) {
	if d.Title == "" {
		return nil, errors.New("defect title is required")
	}
	if d.Status == "" {
		d.Status = DefectOpen
	}
	if !oneOf(d.Status, DefectStatuses) {
		return nil, errors.New("invalid defect status")
	}

	now := time.Now()
	d.ID = primitive.NewObjectID()
	d.ReportedBy = actorID
	d.CreatedAt = now
	d.UpdatedAt = now

	if err := s.Repo.CreateDefect(ctx, d); err != nil {
		return nil, err
	}

	_ = s.AuditService.LogChange(ctx, common_models.AuditActionCreate, "defects", d.ID.Hex(),
		map[string]common_models.Change{"title": {New: d.Title}, "severity": {New: d.Severity}})
	return d, nil
}

func (s *TrackServiceImpl) GetDefect(ctx context.Context, id primitive.ObjectID) (*Defect, error) {
	return s.Repo.FindDefect(ctx, id)
}

func (s *TrackServiceImpl) ListDefects(ctx context.Context, status string, page, limit int64) ([]Defect, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}
	return s.Repo.ListDefects(ctx, filter, limit, (page-1)*limit)
}

func (s *TrackServiceImpl) UpdateDefectStatus(ctx context.Context, id primitive.ObjectID, status string) (*Defect, error) {
	if !oneOf(status, DefectStatuses) {
		return nil, errors.New("invalid defect status")
	}

	d, err := s.Repo.FindDefect(ctx, id)
	if err != nil {
		return nil, err
	}

	old := d.Status
	d.Status = status
	d.UpdatedAt = time.Now()

	if err := s.Repo.UpdateDefect(ctx, d); err != nil {
		return nil, err
	}

	_ = s.AuditService.LogChange(ctx, common_models.AuditActionUpdate, "defects", id.Hex(),
		map[string]common_models.Change{"status": {Old: old, New: status}})
	return d, nil
}

func (s *TrackServiceImpl) AddComment(ctx context.Context, actorID primitive.ObjectID, targetType string, targetID primitive.ObjectID, body string) (*Comment, error) {
	if targetType != "test_case" && targetType != "defect" {
		return nil, errors.New("target must be test_case or defect")
	}
	if body == "" {
		return nil, errors.New("comment body is required")
	}

	c := &Comment{
		ID:         primitive.NewObjectID(),
		TargetType: targetType,
		TargetID:   targetID,
		AuthorID:   actorID,
		Body:       body,
		CreatedAt:  time.Now(),
	}
	if err := s.Repo.CreateComment(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *TrackServiceImpl) ListComments(ctx context.Context, targetType string, targetID primitive.ObjectID) ([]Comment, error) {
	return s.Repo.ListComments(ctx, targetType, targetID)
}
