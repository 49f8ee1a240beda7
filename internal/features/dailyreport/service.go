package dailyreport

import (
	"context"
	"fmt"
	"time"

	common_models "github.com/AzizRahmanYaad/cbs-dashboard/internal/common/models"
	"github.com/AzizRahmanYaad/cbs-dashboard/internal/features/audit"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Capability is an authorization capability resolved from a user's roles.
// The report lifecycle never inspects role names directly.
type Capability string

const (
	CanReview     Capability = "review"
	CanAdminister Capability = "administer"
)

type Employee struct {
	ID          primitive.ObjectID
	DisplayName string
}

// EmployeeDirectory is the identity/role collaborator
type EmployeeDirectory interface {
	FindEmployee(ctx context.Context, id primitive.ObjectID) (*Employee, error)
	HasCapability(ctx context.Context, userID primitive.ObjectID, cap Capability) (bool, error)
}

// Renderer turns a consolidated document or report projections into bytes.
// Its errors pass through the service unmodified.
type Renderer interface {
	RenderConsolidated(doc *ConsolidatedDocument) ([]byte, error)
	RenderReports(projections []*ReportProjection) ([]byte, error)
}

// Download is a rendered artifact plus its delivery metadata
type Download struct {
	Bytes       []byte
	Filename    string
	ContentType string
}

const downloadContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Dashboard struct {
	TotalReports           int64            `json:"total_reports"`
	DraftReports           int64            `json:"draft_reports"`
	PendingReports         int64            `json:"pending_reports"`
	ApprovedReports        int64            `json:"approved_reports"`
	RejectedReports        int64            `json:"rejected_reports"`
	TotalEscalations       int64            `json:"total_escalations"`
	TotalPendingActivities int64            `json:"total_pending_activities"`
	TotalTicketedIssues    int64            `json:"total_ticketed_issues"`
	ReportsByStatus        map[string]int64 `json:"reports_by_status"`
}

type ReportService interface {
	CreateReport(ctx context.Context, employeeID primitive.ObjectID, req *CreateReportRequest) (*DailyReport, error)
	UpdateReport(ctx context.Context, reportID, actingUserID primitive.ObjectID, req *UpdateReportRequest) (*DailyReport, error)
	SubmitReport(ctx context.Context, reportID, actingUserID primitive.ObjectID) (*DailyReport, error)
	ReviewReport(ctx context.Context, reportID, reviewerID primitive.ObjectID, req *ReviewRequest) (*DailyReport, error)
	GetReport(ctx context.Context, reportID, actingUserID primitive.ObjectID) (*DailyReport, error)
	GetReportByDate(ctx context.Context, date time.Time, employeeID primitive.ObjectID) (*DailyReport, error)
	GetMyReports(ctx context.Context, employeeID primitive.ObjectID, page, limit int64) ([]*DailyReport, int64, error)
	GetAllReports(ctx context.Context, actingUserID primitive.ObjectID, filter ListFilter, page, limit int64) ([]*DailyReport, int64, error)
	GetReportsByDate(ctx context.Context, actingUserID primitive.ObjectID, date time.Time) ([]*DailyReport, error)
	DeleteReport(ctx context.Context, reportID, actingUserID primitive.ObjectID) error
	GetDashboard(ctx context.Context, actingUserID primitive.ObjectID) (*Dashboard, error)

	GetProjection(ctx context.Context, reportID, actingUserID primitive.ObjectID) (*ReportProjection, error)
	DownloadMyReport(ctx context.Context, reportID, actingUserID primitive.ObjectID) (*Download, error)
	DownloadEmployeeReports(ctx context.Context, actingUserID, employeeID primitive.ObjectID, start, end *time.Time) (*Download, error)
	DownloadConsolidated(ctx context.Context, actingUserID primitive.ObjectID, date time.Time, cbsEndTime, cbsStartTimeNextDay string) (*Download, error)
}

type ReportServiceImpl struct {
	Repo         ReportRepository
	Directory    EmployeeDirectory
	Renderer     Renderer
	AuditService audit.AuditService
	Logger       *zap.Logger
}

func NewReportService(
	repo ReportRepository,
	directory EmployeeDirectory,
	renderer Renderer,
	auditService audit.AuditService,
	logger *zap.Logger,
) ReportService {
	return &ReportServiceImpl{
		Repo:         repo,
		Directory:    directory,
		Renderer:     renderer,
		AuditService: auditService,
		Logger:       logger,
	}
}

// CreateReport creates a DRAFT report for the employee. At most one report
// may exist per (business date, employee); the pre-check and the unique
// index both surface as ErrDuplicateReport.
func (s *ReportServiceImpl) CreateReport(ctx context.Context, employeeID primitive.ObjectID, req *CreateReportRequest) (*DailyReport, error) {
	employee, err := s.Directory.FindEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	businessDate := BusinessDay(time.Now())
	if req.BusinessDate != "" {
		parsed, err := time.Parse("2006-01-02", req.BusinessDate)
		if err != nil {
			return nil, &ValidationError{Msg: "business_date must be YYYY-MM-DD"}
		}
		businessDate = BusinessDay(parsed)
	}

	if _, err := s.Repo.FindByDateAndEmployee(ctx, businessDate, employeeID); err == nil {
		return nil, ErrDuplicateReport
	} else if err != ErrReportNotFound {
		return nil, err
	}

	report := &DailyReport{
		BusinessDate:        businessDate,
		EmployeeID:          employee.ID,
		EmployeeName:        employee.DisplayName,
		Status:              StatusDraft,
		CbsEndTime:          req.CbsEndTime,
		CbsStartTimeNextDay: req.CbsStartTimeNextDay,
		ReportingLine:       req.ReportingLine,
	}
	report.ApplySections(req.ReportSections)

	if err := s.Repo.Insert(ctx, report); err != nil {
		return nil, err
	}

	s.audit(ctx, common_models.AuditActionCreate, report)
	s.Logger.Info("daily report created",
		zap.String("report_id", report.ID.Hex()),
		zap.String("employee", report.EmployeeName),
		zap.Time("business_date", report.BusinessDate))

	return report, nil
}

// UpdateReport applies an edit on behalf of the owner or a reviewer.
func (s *ReportServiceImpl) UpdateReport(ctx context.Context, reportID, actingUserID primitive.ObjectID, req *UpdateReportRequest) (*DailyReport, error) {
	report, err := s.Repo.FindByID(ctx, reportID)
	if err != nil {
		return nil, err
	}

	if report.EmployeeID != actingUserID {
		ok, err := s.Directory.HasCapability(ctx, actingUserID, CanReview)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrPermissionDenied
		}
	}

	report.ApplyEdit(req, time.Now())

	if err := s.Repo.Update(ctx, report); err != nil {
		return nil, err
	}

	s.audit(ctx, common_models.AuditActionUpdate, report)
	return report, nil
}

// SubmitReport moves an owner's report to SUBMITTED after validation.
func (s *ReportServiceImpl) SubmitReport(ctx context.Context, reportID, actingUserID primitive.ObjectID) (*DailyReport, error) {
	report, err := s.Repo.FindByID(ctx, reportID)
	if err != nil {
		return nil, err
	}

	if report.EmployeeID != actingUserID {
		return nil, ErrPermissionDenied
	}

	if err := report.Submit(time.Now()); err != nil {
		return nil, err
	}

	if err := s.Repo.Update(ctx, report); err != nil {
		return nil, err
	}

	s.audit(ctx, common_models.AuditActionSubmit, report)
	return report, nil
}

// ReviewReport records a review decision. The capability gate runs before
// the report is loaded so unauthorized callers learn nothing about existence.
func (s *ReportServiceImpl) ReviewReport(ctx context.Context, reportID, reviewerID primitive.ObjectID, req *ReviewRequest) (*DailyReport, error) {
	ok, err := s.Directory.HasCapability(ctx, reviewerID, CanReview)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrPermissionDenied
	}

	reviewer, err := s.Directory.FindEmployee(ctx, reviewerID)
	if err != nil {
		return nil, err
	}

	report, err := s.Repo.FindByID(ctx, reportID)
	if err != nil {
		return nil, err
	}

	if err := report.Review(reviewer.ID, reviewer.DisplayName, req.Status, req.ReviewComments, time.Now()); err != nil {
		return nil, err
	}

	if err := s.Repo.Update(ctx, report); err != nil {
		return nil, err
	}

	s.audit(ctx, common_models.AuditActionReview, report)
	s.Logger.Info("daily report reviewed",
		zap.String("report_id", report.ID.Hex()),
		zap.String("decision", string(req.Status)),
		zap.String("reviewer", reviewer.DisplayName))

	return report, nil
}

func (s *ReportServiceImpl) GetReport(ctx context.Context, reportID, actingUserID primitive.ObjectID) (*DailyReport, error) {
	report, err := s.Repo.FindByID(ctx, reportID)
	if err != nil {
		return nil, err
	}

	if report.EmployeeID != actingUserID {
		ok, err := s.Directory.HasCapability(ctx, actingUserID, CanReview)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrPermissionDenied
		}
	}

	return report, nil
}

func (s *ReportServiceImpl) GetReportByDate(ctx context.Context, date time.Time, employeeID primitive.ObjectID) (*DailyReport, error) {
	return s.Repo.FindByDateAndEmployee(ctx, date, employeeID)
}

func (s *ReportServiceImpl) GetMyReports(ctx context.Context, employeeID primitive.ObjectID, page, limit int64) ([]*DailyReport, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	return s.Repo.FindByEmployee(ctx, employeeID, page, limit)
}

func (s *ReportServiceImpl) GetAllReports(ctx context.Context, actingUserID primitive.ObjectID, filter ListFilter, page, limit int64) ([]*DailyReport, int64, error) {
	if err := s.requireCapability(ctx, actingUserID, CanReview); err != nil {
		return nil, 0, err
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	return s.Repo.FindFiltered(ctx, filter, page, limit)
}

func (s *ReportServiceImpl) GetReportsByDate(ctx context.Context, actingUserID primitive.ObjectID, date time.Time) ([]*DailyReport, error) {
	if err := s.requireCapability(ctx, actingUserID, CanReview); err != nil {
		return nil, err
	}
	return s.Repo.FindAllByDate(ctx, date)
}

// DeleteReport removes a report; owner or reviewer only.
func (s *ReportServiceImpl) DeleteReport(ctx context.Context, reportID, actingUserID primitive.ObjectID) error {
	report, err := s.Repo.FindByID(ctx, reportID)
	if err != nil {
		return err
	}

	if report.EmployeeID != actingUserID {
		ok, err := s.Directory.HasCapability(ctx, actingUserID, CanReview)
		if err != nil {
			return err
		}
		if !ok {
			return ErrPermissionDenied
		}
	}

	if err := s.Repo.Delete(ctx, reportID); err != nil {
		return err
	}

	s.audit(ctx, common_models.AuditActionDelete, report)
	return nil
}

func (s *ReportServiceImpl) GetDashboard(ctx context.Context, actingUserID primitive.ObjectID) (*Dashboard, error) {
	if err := s.requireCapability(ctx, actingUserID, CanReview); err != nil {
		return nil, err
	}

	d := &Dashboard{}
	var err error
	if d.TotalReports, err = s.Repo.Count(ctx); err != nil {
		return nil, err
	}
	if d.DraftReports, err = s.Repo.CountByStatus(ctx, StatusDraft); err != nil {
		return nil, err
	}
	if d.PendingReports, err = s.Repo.CountByStatus(ctx, StatusSubmitted); err != nil {
		return nil, err
	}
	if d.ApprovedReports, err = s.Repo.CountByStatus(ctx, StatusApproved); err != nil {
		return nil, err
	}
	if d.RejectedReports, err = s.Repo.CountByStatus(ctx, StatusRejected); err != nil {
		return nil, err
	}

	if d.TotalEscalations, d.TotalPendingActivities, d.TotalTicketedIssues, err = s.Repo.SectionTotals(ctx); err != nil {
		return nil, err
	}

	d.ReportsByStatus = map[string]int64{
		string(StatusDraft):     d.DraftReports,
		string(StatusSubmitted): d.PendingReports,
		string(StatusApproved):  d.ApprovedReports,
		string(StatusRejected):  d.RejectedReports,
	}

	return d, nil
}

// GetProjection builds the single-report document; owner or reviewer access.
func (s *ReportServiceImpl) GetProjection(ctx context.Context, reportID, actingUserID primitive.ObjectID) (*ReportProjection, error) {
	report, err := s.GetReport(ctx, reportID, actingUserID)
	if err != nil {
		return nil, err
	}
	return ProjectReport(report), nil
}

// DownloadMyReport renders one report, strictly owner-only. Reviewer and
// administrator capabilities do not open this path: downloading another's
// report is personal-data access, not supervisory oversight.
func (s *ReportServiceImpl) DownloadMyReport(ctx context.Context, reportID, actingUserID primitive.ObjectID) (*Download, error) {
	report, err := s.Repo.FindByID(ctx, reportID)
	if err != nil {
		return nil, err
	}

	if report.EmployeeID != actingUserID {
		return nil, ErrPermissionDenied
	}

	bytes, err := s.Renderer.RenderReports([]*ReportProjection{ProjectReport(report)})
	if err != nil {
		return nil, err
	}

	s.audit(ctx, common_models.AuditActionExport, report)
	return &Download{
		Bytes:       bytes,
		ContentType: downloadContentType,
		Filename:    fmt.Sprintf("Daily_Report_%s_%s.xlsx", report.EmployeeName, report.BusinessDate.Format("2006-01-02")),
	}, nil
}

// DownloadEmployeeReports renders every report of one employee in a date
// range; reviewer capability required.
func (s *ReportServiceImpl) DownloadEmployeeReports(ctx context.Context, actingUserID, employeeID primitive.ObjectID, start, end *time.Time) (*Download, error) {
	if err := s.requireCapability(ctx, actingUserID, CanReview); err != nil {
		return nil, err
	}

	reports, err := s.Repo.FindByEmployeeAndRange(ctx, employeeID, start, end)
	if err != nil {
		return nil, err
	}
	if len(reports) == 0 {
		return nil, ErrReportNotFound
	}

	projections := make([]*ReportProjection, 0, len(reports))
	for _, r := range reports {
		projections = append(projections, ProjectReport(r))
	}

	bytes, err := s.Renderer.RenderReports(projections)
	if err != nil {
		return nil, err
	}

	return &Download{
		Bytes:       bytes,
		ContentType: downloadContentType,
		Filename:    fmt.Sprintf("Daily_Report_%s_%s.xlsx", reports[0].EmployeeName, time.Now().Format("2006-01-02")),
	}, nil
}

// DownloadConsolidated merges every report for one business date and renders
// the combined document; reviewer capability required.
func (s *ReportServiceImpl) DownloadConsolidated(ctx context.Context, actingUserID primitive.ObjectID, date time.Time, cbsEndTime, cbsStartTimeNextDay string) (*Download, error) {
	if err := s.requireCapability(ctx, actingUserID, CanReview); err != nil {
		return nil, err
	}

	reports, err := s.Repo.FindAllByDate(ctx, date)
	if err != nil {
		return nil, err
	}
	if len(reports) == 0 {
		return nil, &ValidationError{Msg: "no reports found for the specified date: " + date.Format("2006-01-02")}
	}

	doc, err := Consolidate(reports, cbsEndTime, cbsStartTimeNextDay)
	if err != nil {
		return nil, err
	}

	bytes, err := s.Renderer.RenderConsolidated(doc)
	if err != nil {
		return nil, err
	}

	s.Logger.Info("consolidated report rendered",
		zap.Time("business_date", date),
		zap.Int("reports", len(reports)))

	return &Download{
		Bytes:       bytes,
		ContentType: downloadContentType,
		Filename:    fmt.Sprintf("CBS_Daily_Report_%s.xlsx", date.Format("2006-01-02")),
	}, nil
}

func (s *ReportServiceImpl) requireCapability(ctx context.Context, userID primitive.ObjectID, cap Capability) error {
	ok, err := s.Directory.HasCapability(ctx, userID, cap)
	if err != nil {
		return err
	}
	if !ok {
		return ErrPermissionDenied
	}
	return nil
}

func (s *ReportServiceImpl) audit(ctx context.Context, action common_models.AuditAction, report *DailyReport) {
	if s.AuditService == nil {
		return
	}
	if err := s.AuditService.LogChange(ctx, action, "daily_reports", report.ID.Hex(), nil); err != nil {
		s.Logger.Warn("audit log failed", zap.Error(err))
	}
}
