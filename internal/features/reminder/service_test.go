package reminder

import (
	"context"
	"testing"
	"time"

	common_models "github.com/AzizRahmanYaad/cbs-dashboard/internal/common/models"
	"github.com/AzizRahmanYaad/cbs-dashboard/internal/features/dailyreport"
	"github.com/AzizRahmanYaad/cbs-dashboard/internal/features/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type stubUserRepo struct {
	user.UserRepository
	active []user.User
}

func (s *stubUserRepo) ListActive(ctx context.Context) ([]user.User, error) {
	return s.active, nil
}

type stubReportRepo struct {
	dailyreport.ReportRepository
	filed map[primitive.ObjectID]bool
}

func (s *stubReportRepo) EmployeeIDsWithReport(ctx context.Context, date time.Time) (map[primitive.ObjectID]bool, error) {
	return s.filed, nil
}

type capturingAudit struct {
	entries []string
}

func (c *capturingAudit) LogChange(ctx context.Context, action common_models.AuditAction, module string, recordID string, changes map[string]common_models.Change) error {
	c.entries = append(c.entries, recordID)
	return nil
}

func (c *capturingAudit) ListLogs(ctx context.Context, filters map[string]interface{}, page, limit int64) ([]common_models.AuditLog, error) {
	return nil, nil
}

func TestRunOnceFlagsUsersWithoutReport(t *testing.T) {
	filed := user.User{ID: primitive.NewObjectID(), Username: "awali", Active: true}
	missing := user.User{ID: primitive.NewObjectID(), Username: "karim", Active: true}

	auditSvc := &capturingAudit{}
	svc := &ReminderServiceImpl{
		UserRepo:     &stubUserRepo{active: []user.User{filed, missing}},
		ReportRepo:   &stubReportRepo{filed: map[primitive.ObjectID]bool{filed.ID: true}},
		AuditService: auditSvc,
		Logger:       zap.NewNop(),
	}

	got, err := svc.RunOnce(context.Background())
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.Equal(t, "karim", got[0].Username)
	assert.Equal(t, []string{missing.ID.Hex()}, auditSvc.entries)
}

func TestStartRejectsBadSchedule(t *testing.T) {
	svc := &ReminderServiceImpl{
		Logger:   zap.NewNop(),
		schedule: "not a cron expression",
	}

	assert.Error(t, svc.Start())
}
