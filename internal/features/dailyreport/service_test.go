package dailyreport

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type mockReportRepo struct {
	reports map[primitive.ObjectID]*DailyReport

	inserted *DailyReport
	updated  *DailyReport
	deleted  primitive.ObjectID
}

func newMockReportRepo(reports ...*DailyReport) *mockReportRepo {
	m := &mockReportRepo{reports: make(map[primitive.ObjectID]*DailyReport)}
	for _, r := range reports {
		if r.ID.IsZero() {
			r.ID = primitive.NewObjectID()
		}
		m.reports[r.ID] = r
	}
	return m
}

func (m *mockReportRepo) EnsureIndexes(ctx context.Context) error { return nil }

func (m *mockReportRepo) Insert(ctx context.Context, report *DailyReport) error {
	for _, r := range m.reports {
		if r.EmployeeID == report.EmployeeID && r.BusinessDate.Equal(report.BusinessDate) {
			return ErrDuplicateReport
		}
	}
	report.ID = primitive.NewObjectID()
	m.reports[report.ID] = report
	m.inserted = report
	return nil
}

func (m *mockReportRepo) Update(ctx context.Context, report *DailyReport) error {
	m.reports[report.ID] = report
	m.updated = report
	return nil
}

func (m *mockReportRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	delete(m.reports, id)
	m.deleted = id
	return nil
}

func (m *mockReportRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*DailyReport, error) {
	if r, ok := m.reports[id]; ok {
		return r, nil
	}
	return nil, ErrReportNotFound
}

func (m *mockReportRepo) FindByDateAndEmployee(ctx context.Context, date time.Time, employeeID primitive.ObjectID) (*DailyReport, error) {
	for _, r := range m.reports {
		if r.EmployeeID == employeeID && r.BusinessDate.Equal(BusinessDay(date)) {
			return r, nil
		}
	}
	return nil, ErrReportNotFound
}

func (m *mockReportRepo) FindAllByDate(ctx context.Context, date time.Time) ([]*DailyReport, error) {
	var out []*DailyReport
	for _, r := range m.reports {
		if r.BusinessDate.Equal(BusinessDay(date)) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockReportRepo) FindByEmployee(ctx context.Context, employeeID primitive.ObjectID, page, limit int64) ([]*DailyReport, int64, error) {
	var out []*DailyReport
	for _, r := range m.reports {
		if r.EmployeeID == employeeID {
			out = append(out, r)
		}
	}
	return out, int64(len(out)), nil
}

func (m *mockReportRepo) FindFiltered(ctx context.Context, filter ListFilter, page, limit int64) ([]*DailyReport, int64, error) {
	var out []*DailyReport
	for _, r := range m.reports {
		out = append(out, r)
	}
	return out, int64(len(out)), nil
}

func (m *mockReportRepo) FindByEmployeeAndRange(ctx context.Context, employeeID primitive.ObjectID, start, end *time.Time) ([]*DailyReport, error) {
	var out []*DailyReport
	for _, r := range m.reports {
		if r.EmployeeID == employeeID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockReportRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(m.reports)), nil
}

func (m *mockReportRepo) CountByStatus(ctx context.Context, status ReportStatus) (int64, error) {
	var n int64
	for _, r := range m.reports {
		if r.Status == status {
			n++
		}
	}
	return n, nil
}

func (m *mockReportRepo) SectionTotals(ctx context.Context) (int64, int64, int64, error) {
	return 0, 0, 0, nil
}

func (m *mockReportRepo) EmployeeIDsWithReport(ctx context.Context, date time.Time) (map[primitive.ObjectID]bool, error) {
	out := make(map[primitive.ObjectID]bool)
	for _, r := range m.reports {
		if r.BusinessDate.Equal(BusinessDay(date)) {
			out[r.EmployeeID] = true
		}
	}
	return out, nil
}

type mockDirectory struct {
	employees    map[primitive.ObjectID]*Employee
	capabilities map[primitive.ObjectID]map[Capability]bool
}

func newMockDirectory() *mockDirectory {
	return &mockDirectory{
		employees:    make(map[primitive.ObjectID]*Employee),
		capabilities: make(map[primitive.ObjectID]map[Capability]bool),
	}
}

func (m *mockDirectory) addEmployee(name string, caps ...Capability) primitive.ObjectID {
	id := primitive.NewObjectID()
	m.employees[id] = &Employee{ID: id, DisplayName: name}
	m.capabilities[id] = make(map[Capability]bool)
	for _, c := range caps {
		m.capabilities[id][c] = true
	}
	return id
}

func (m *mockDirectory) FindEmployee(ctx context.Context, id primitive.ObjectID) (*Employee, error) {
	if e, ok := m.employees[id]; ok {
		return e, nil
	}
	return nil, ErrEmployeeNotFound
}

func (m *mockDirectory) HasCapability(ctx context.Context, userID primitive.ObjectID, cap Capability) (bool, error) {
	return m.capabilities[userID][cap], nil
}

type mockRenderer struct {
	consolidatedCalls int
	reportCalls       int
	lastProjections   []*ReportProjection
}

func (m *mockRenderer) RenderConsolidated(doc *ConsolidatedDocument) ([]byte, error) {
	m.consolidatedCalls++
	return []byte("xlsx-consolidated"), nil
}

func (m *mockRenderer) RenderReports(projections []*ReportProjection) ([]byte, error) {
	m.reportCalls++
	m.lastProjections = projections
	return []byte("xlsx-reports"), nil
}

func newTestService(repo ReportRepository, dir EmployeeDirectory, renderer Renderer) *ReportServiceImpl {
	return &ReportServiceImpl{
		Repo:      repo,
		Directory: dir,
		Renderer:  renderer,
		Logger:    zap.NewNop(),
	}
}

func validCreateRequest(date string) *CreateReportRequest {
	req := &CreateReportRequest{
		BusinessDate:        date,
		CbsEndTime:          "17:30",
		CbsStartTimeNextDay: "08:00",
	}
	req.TeamActivities = []TeamActivity{{Description: "EOD batch", ActivityType: "Reversals"}}
	return req
}

func TestCreateReportStartsAsDraft(t *testing.T) {
	dir := newMockDirectory()
	emp := dir.addEmployee("Ahmad Wali")
	repo := newMockReportRepo()
	svc := newTestService(repo, dir, &mockRenderer{})

	report, err := svc.CreateReport(context.Background(), emp, validCreateRequest("2025-03-09"))
	require.NoError(t, err)

	assert.Equal(t, StatusDraft, report.Status)
	assert.Equal(t, "Ahmad Wali", report.EmployeeName)
	assert.Equal(t, time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC), report.BusinessDate)
	require.NotNil(t, repo.inserted)
}

func TestCreateReportRejectsSecondReportForSameDay(t *testing.T) {
	dir := newMockDirectory()
	emp := dir.addEmployee("Ahmad Wali")
	repo := newMockReportRepo()
	svc := newTestService(repo, dir, &mockRenderer{})

	_, err := svc.CreateReport(context.Background(), emp, validCreateRequest("2025-03-09"))
	require.NoError(t, err)

	_, err = svc.CreateReport(context.Background(), emp, validCreateRequest("2025-03-09"))
	assert.ErrorIs(t, err, ErrDuplicateReport)
}

func TestCreateReportUnknownEmployee(t *testing.T) {
	svc := newTestService(newMockReportRepo(), newMockDirectory(), &mockRenderer{})

	_, err := svc.CreateReport(context.Background(), primitive.NewObjectID(), validCreateRequest("2025-03-09"))
	assert.ErrorIs(t, err, ErrEmployeeNotFound)
}

func TestCreateReportBadDate(t *testing.T) {
	dir := newMockDirectory()
	emp := dir.addEmployee("Ahmad Wali")
	svc := newTestService(newMockReportRepo(), dir, &mockRenderer{})

	_, err := svc.CreateReport(context.Background(), emp, validCreateRequest("09-03-2025"))

	var ve *ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestSubmitReportOwnerOnly(t *testing.T) {
	dir := newMockDirectory()
	owner := dir.addEmployee("Ahmad Wali")
	other := dir.addEmployee("Karim", CanReview)

	report := &DailyReport{
		EmployeeID:          owner,
		BusinessDate:        BusinessDay(time.Now()),
		Status:              StatusDraft,
		CbsEndTime:          "17:30",
		CbsStartTimeNextDay: "08:00",
		TeamActivities:      []TeamActivity{{Description: "x"}},
	}
	repo := newMockReportRepo(report)
	svc := newTestService(repo, dir, &mockRenderer{})

	_, err := svc.SubmitReport(context.Background(), report.ID, other)
	assert.ErrorIs(t, err, ErrPermissionDenied, "even a reviewer may not submit another's report")

	submitted, err := svc.SubmitReport(context.Background(), report.ID, owner)
	require.NoError(t, err)
	assert.Equal(t, StatusSubmitted, submitted.Status)
}

func TestReviewReportRequiresCapability(t *testing.T) {
	dir := newMockDirectory()
	owner := dir.addEmployee("Ahmad Wali")
	reviewer := dir.addEmployee("Supervisor", CanReview)

	report := &DailyReport{
		EmployeeID:   owner,
		BusinessDate: BusinessDay(time.Now()),
		Status:       StatusSubmitted,
	}
	repo := newMockReportRepo(report)
	svc := newTestService(repo, dir, &mockRenderer{})

	_, err := svc.ReviewReport(context.Background(), report.ID, owner, &ReviewRequest{Status: StatusApproved})
	assert.ErrorIs(t, err, ErrPermissionDenied)

	reviewed, err := svc.ReviewReport(context.Background(), report.ID, reviewer, &ReviewRequest{
		Status:         StatusApproved,
		ReviewComments: "looks complete",
	})
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, reviewed.Status)
	assert.Equal(t, "Supervisor", reviewed.ReviewedByName)
}

func TestUpdateReportReviewerMayEdit(t *testing.T) {
	dir := newMockDirectory()
	owner := dir.addEmployee("Ahmad Wali")
	reviewer := dir.addEmployee("Supervisor", CanReview)
	stranger := dir.addEmployee("Visitor")

	report := &DailyReport{
		EmployeeID:   owner,
		BusinessDate: BusinessDay(time.Now()),
		Status:       StatusApproved,
	}
	repo := newMockReportRepo(report)
	svc := newTestService(repo, dir, &mockRenderer{})

	_, err := svc.UpdateReport(context.Background(), report.ID, stranger, &UpdateReportRequest{})
	assert.ErrorIs(t, err, ErrPermissionDenied)

	updated, err := svc.UpdateReport(context.Background(), report.ID, reviewer, &UpdateReportRequest{})
	require.NoError(t, err)
	assert.Equal(t, StatusSubmitted, updated.Status, "editing an approved report invalidates the approval")
}

func TestDownloadMyReportStrictlyOwnerOnly(t *testing.T) {
	dir := newMockDirectory()
	owner := dir.addEmployee("Ahmad Wali")
	admin := dir.addEmployee("Admin", CanReview, CanAdminister)

	report := &DailyReport{
		EmployeeID:   owner,
		EmployeeName: "Ahmad Wali",
		BusinessDate: time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC),
		Status:       StatusApproved,
	}
	repo := newMockReportRepo(report)
	renderer := &mockRenderer{}
	svc := newTestService(repo, dir, renderer)

	_, err := svc.DownloadMyReport(context.Background(), report.ID, admin)
	assert.ErrorIs(t, err, ErrPermissionDenied, "administrator capability does not open the personal download path")
	assert.Zero(t, renderer.reportCalls)

	dl, err := svc.DownloadMyReport(context.Background(), report.ID, owner)
	require.NoError(t, err)
	assert.Equal(t, "Daily_Report_Ahmad Wali_2025-03-09.xlsx", dl.Filename)
	assert.Equal(t, []byte("xlsx-reports"), dl.Bytes)
	assert.Equal(t, 1, renderer.reportCalls)
}

func TestDownloadConsolidatedRequiresReviewCapability(t *testing.T) {
	dir := newMockDirectory()
	emp := dir.addEmployee("Ahmad Wali")
	reviewer := dir.addEmployee("Supervisor", CanReview)

	day := time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC)
	report := &DailyReport{
		EmployeeID:     emp,
		EmployeeName:   "Ahmad Wali",
		BusinessDate:   day,
		Status:         StatusSubmitted,
		TeamActivities: []TeamActivity{{Description: "x", ActivityType: "Reversals"}},
	}
	repo := newMockReportRepo(report)
	renderer := &mockRenderer{}
	svc := newTestService(repo, dir, renderer)

	_, err := svc.DownloadConsolidated(context.Background(), emp, day, "17:30", "08:00")
	assert.ErrorIs(t, err, ErrPermissionDenied)

	dl, err := svc.DownloadConsolidated(context.Background(), reviewer, day, "17:30", "08:00")
	require.NoError(t, err)
	assert.Equal(t, "CBS_Daily_Report_2025-03-09.xlsx", dl.Filename)
	assert.Equal(t, 1, renderer.consolidatedCalls)
}

func TestDownloadConsolidatedNoReports(t *testing.T) {
	dir := newMockDirectory()
	reviewer := dir.addEmployee("Supervisor", CanReview)
	svc := newTestService(newMockReportRepo(), dir, &mockRenderer{})

	_, err := svc.DownloadConsolidated(context.Background(), reviewer, time.Now(), "", "")

	var ve *ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestGetReportOwnerOrReviewer(t *testing.T) {
	dir := newMockDirectory()
	owner := dir.addEmployee("Ahmad Wali")
	reviewer := dir.addEmployee("Supervisor", CanReview)
	stranger := dir.addEmployee("Visitor")

	report := &DailyReport{EmployeeID: owner, Status: StatusSubmitted}
	repo := newMockReportRepo(report)
	svc := newTestService(repo, dir, &mockRenderer{})

	_, err := svc.GetReport(context.Background(), report.ID, stranger)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	_, err = svc.GetReport(context.Background(), report.ID, owner)
	assert.NoError(t, err)

	_, err = svc.GetReport(context.Background(), report.ID, reviewer)
	assert.NoError(t, err)
}

func TestGetAllReportsRequiresCapability(t *testing.T) {
	dir := newMockDirectory()
	plain := dir.addEmployee("Ahmad Wali")
	svc := newTestService(newMockReportRepo(), dir, &mockRenderer{})

	_, _, err := svc.GetAllReports(context.Background(), plain, ListFilter{}, 1, 10)
	assert.ErrorIs(t, err, ErrPermissionDenied)
}

// End to end through the service: create, submit, return for correction,
// edit, resubmit, approve.
func TestReportLifecycleRoundTrip(t *testing.T) {
	dir := newMockDirectory()
	emp := dir.addEmployee("Ahmad Wali")
	reviewer := dir.addEmployee("Supervisor", CanReview)
	repo := newMockReportRepo()
	svc := newTestService(repo, dir, &mockRenderer{})
	ctx := context.Background()

	report, err := svc.CreateReport(ctx, emp, validCreateRequest("2025-03-09"))
	require.NoError(t, err)

	report, err = svc.SubmitReport(ctx, report.ID, emp)
	require.NoError(t, err)
	assert.Equal(t, StatusSubmitted, report.Status)

	report, err = svc.ReviewReport(ctx, report.ID, reviewer, &ReviewRequest{
		Status:         StatusReturnedForCorrection,
		ReviewComments: "add branch codes",
	})
	require.NoError(t, err)
	assert.Equal(t, StatusReturnedForCorrection, report.Status)

	req := &UpdateReportRequest{}
	req.TeamActivities = []TeamActivity{{Description: "EOD batch, branch 12", ActivityType: "Reversals"}}
	report, err = svc.UpdateReport(ctx, report.ID, emp, req)
	require.NoError(t, err)
	assert.Equal(t, StatusReturnedForCorrection, report.Status)

	report, err = svc.SubmitReport(ctx, report.ID, emp)
	require.NoError(t, err)

	report, err = svc.ReviewReport(ctx, report.ID, reviewer, &ReviewRequest{Status: StatusApproved})
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, report.Status)
}
