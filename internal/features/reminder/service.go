package reminder

import (
	"context"
	"fmt"
	"time"

	common_models "github.com/AzizRahmanYaad/cbs-dashboard/internal/common/models"
	"github.com/AzizRahmanYaad/cbs-dashboard/internal/config"
	"github.com/AzizRahmanYaad/cbs-dashboard/internal/features/audit"
	"github.com/AzizRahmanYaad/cbs-dashboard/internal/features/dailyreport"
	"github.com/AzizRahmanYaad/cbs-dashboard/internal/features/user"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// ReminderService runs the end-of-day sweep that flags active employees
// who have not yet filed a report for the current business date.
type ReminderService interface {
	Start() error
	Stop()
	RunOnce(ctx context.Context) ([]user.User, error)
}

type ReminderServiceImpl struct {
	UserRepo     user.UserRepository
	ReportRepo   dailyreport.ReportRepository
	AuditService audit.AuditService
	Logger       *zap.Logger

	schedule  string
	scheduler *cron.Cron
}

func NewReminderService(
	cfg *config.Config,
	userRepo user.UserRepository,
	reportRepo dailyreport.ReportRepository,
	auditService audit.AuditService,
	logger *zap.Logger,
) ReminderService {
	return &ReminderServiceImpl{
		UserRepo:     userRepo,
		ReportRepo:   reportRepo,
		AuditService: auditService,
		Logger:       logger,
		schedule:     cfg.ReminderCron,
	}
}

func (s *ReminderServiceImpl) Start() error {
	if _, err := cron.ParseStandard(s.schedule); err != nil {
		return fmt.Errorf("invalid reminder schedule %q: %w", s.schedule, err)
	}

	s.scheduler = cron.New()
	_, err := s.scheduler.AddFunc(s.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if _, err := s.RunOnce(ctx); err != nil {
			s.Logger.Error("missing report sweep failed",
				zap.String("func", "ReminderService.RunOnce"),
				zap.Error(err))
		}
	})
	if err != nil {
		return err
	}

	s.scheduler.Start()
	s.Logger.Info("report reminder scheduled", zap.String("schedule", s.schedule))
	return nil
}

func (s *ReminderServiceImpl) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}

// RunOnce performs a single sweep and returns the employees missing a report.
func (s *ReminderServiceImpl) RunOnce(ctx context.Context) ([]user.User, error) {
	today := dailyreport.BusinessDay(time.Now())

	users, err := s.UserRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	filed, err := s.ReportRepo.EmployeeIDsWithReport(ctx, today)
	if err != nil {
		return nil, err
	}

	var missing []user.User
	for _, u := range users {
		if !filed[u.ID] {
			missing = append(missing, u)
		}
	}

	for _, u := range missing {
		s.Logger.Warn("daily report missing",
			zap.String("func", "ReminderService.RunOnce"),
			zap.String("employee", u.Username),
			zap.String("date", today.Format("2006-01-02")))

		changes := map[string]common_models.Change{
			"missing_report": {New: today.Format("2006-01-02")},
		}
		_ = s.AuditService.LogChange(ctx, common_models.AuditActionCron, "daily_reports", u.ID.Hex(), changes)
	}

	s.Logger.Info("missing report sweep complete",
		zap.Int("active_users", len(users)),
		zap.Int("missing", len(missing)))

	return missing, nil
}
