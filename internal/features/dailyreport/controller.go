package dailyreport

import (
	"errors"
	"strconv"
	"time"

	"github.com/AzizRahmanYaad/cbs-dashboard/pkg/utils"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ReportController struct {
	ReportService ReportService
}

func NewReportController(reportService ReportService) *ReportController {
	return &ReportController{
		ReportService: reportService,
	}
}

func actingUserID(c *fiber.Ctx) (primitive.ObjectID, error) {
	claims, ok := c.Locals(utils.UserClaimsKey).(*utils.UserClaims)
	if !ok {
		return primitive.NilObjectID, errors.New("missing claims")
	}
	return primitive.ObjectIDFromHex(claims.UserID)
}

// respondError maps domain errors onto HTTP statuses in one place.
func respondError(c *fiber.Ctx, err error) error {
	var ve *ValidationError
	switch {
	case errors.Is(err, ErrReportNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Report not found"})
	case errors.Is(err, ErrEmployeeNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Employee not found"})
	case errors.Is(err, ErrDuplicateReport):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "A report already exists for this date"})
	case errors.Is(err, ErrPermissionDenied):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden: Insufficient permissions"})
	case errors.As(err, &ve):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ve.Msg})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
}

func parseReportID(c *fiber.Ctx) (primitive.ObjectID, error) {
	return primitive.ObjectIDFromHex(c.Params("id"))
}

func parseDate(value string) (time.Time, error) {
	return time.Parse("2006-01-02", value)
}

func (ctrl *ReportController) CreateReport(c *fiber.Ctx) error {
	userID, err := actingUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	var req CreateReportRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	report, err := ctrl.ReportService.CreateReport(c.Context(), userID, &req)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(report)
}

func (ctrl *ReportController) UpdateReport(c *fiber.Ctx) error {
	userID, err := actingUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	reportID, err := parseReportID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid report id"})
	}

	var req UpdateReportRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	report, err := ctrl.ReportService.UpdateReport(c.Context(), reportID, userID, &req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(report)
}

func (ctrl *ReportController) SubmitReport(c *fiber.Ctx) error {
	userID, err := actingUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	reportID, err := parseReportID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid report id"})
	}

	report, err := ctrl.ReportService.SubmitReport(c.Context(), reportID, userID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(report)
}

func (ctrl *ReportController) ReviewReport(c *fiber.Ctx) error {
	userID, err := actingUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	reportID, err := parseReportID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid report id"})
	}

	var req ReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	report, err := ctrl.ReportService.ReviewReport(c.Context(), reportID, userID, &req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(report)
}

func (ctrl *ReportController) GetReport(c *fiber.Ctx) error {
	userID, err := actingUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	reportID, err := parseReportID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid report id"})
	}

	report, err := ctrl.ReportService.GetReport(c.Context(), reportID, userID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(report)
}

// GetMyReportByDate returns the caller's own report for a business date,
// 404 when none exists so the client can branch between create and edit.
func (ctrl *ReportController) GetMyReportByDate(c *fiber.Ctx) error {
	userID, err := actingUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	date, err := parseDate(c.Params("date"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid date, expected YYYY-MM-DD"})
	}

	report, err := ctrl.ReportService.GetReportByDate(c.Context(), date, userID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(report)
}

func (ctrl *ReportController) GetMyReports(c *fiber.Ctx) error {
	userID, err := actingUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	page, _ := strconv.ParseInt(c.Query("page", "1"), 10, 64)
	limit, _ := strconv.ParseInt(c.Query("limit", "10"), 10, 64)

	reports, total, err := ctrl.ReportService.GetMyReports(c.Context(), userID, page, limit)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"reports": reports,
		"total":   total,
		"page":    page,
		"limit":   limit,
	})
}

func (ctrl *ReportController) GetAllReports(c *fiber.Ctx) error {
	userID, err := actingUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	page, _ := strconv.ParseInt(c.Query("page", "1"), 10, 64)
	limit, _ := strconv.ParseInt(c.Query("limit", "10"), 10, 64)

	var filter ListFilter
	if v := c.Query("start_date"); v != "" {
		if d, err := parseDate(v); err == nil {
			filter.StartDate = &d
		}
	}
	if v := c.Query("end_date"); v != "" {
		if d, err := parseDate(v); err == nil {
			filter.EndDate = &d
		}
	}
	if v := c.Query("employee_id"); v != "" {
		if oid, err := primitive.ObjectIDFromHex(v); err == nil {
			filter.EmployeeID = &oid
		}
	}
	if v := c.Query("status"); v != "" {
		filter.Status = ReportStatus(v)
	}

	reports, total, err := ctrl.ReportService.GetAllReports(c.Context(), userID, filter, page, limit)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"reports": reports,
		"total":   total,
		"page":    page,
		"limit":   limit,
	})
}

func (ctrl *ReportController) GetReportsByDate(c *fiber.Ctx) error {
	userID, err := actingUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	date, err := parseDate(c.Params("date"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid date, expected YYYY-MM-DD"})
	}

	reports, err := ctrl.ReportService.GetReportsByDate(c.Context(), userID, date)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"reports": reports,
		"date":    date.Format("2006-01-02"),
	})
}

func (ctrl *ReportController) GetDashboard(c *fiber.Ctx) error {
	userID, err := actingUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	dashboard, err := ctrl.ReportService.GetDashboard(c.Context(), userID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(dashboard)
}

func (ctrl *ReportController) DeleteReport(c *fiber.Ctx) error {
	userID, err := actingUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	reportID, err := parseReportID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid report id"})
	}

	if err := ctrl.ReportService.DeleteReport(c.Context(), reportID, userID); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Report deleted successfully",
	})
}

func (ctrl *ReportController) GetProjection(c *fiber.Ctx) error {
	userID, err := actingUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	reportID, err := parseReportID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid report id"})
	}

	projection, err := ctrl.ReportService.GetProjection(c.Context(), reportID, userID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(projection)
}

func sendDownload(c *fiber.Ctx, dl *Download) error {
	c.Set(fiber.HeaderContentType, dl.ContentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+dl.Filename+`"`)
	return c.Send(dl.Bytes)
}

func (ctrl *ReportController) DownloadMyReport(c *fiber.Ctx) error {
	userID, err := actingUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	reportID, err := parseReportID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid report id"})
	}

	dl, err := ctrl.ReportService.DownloadMyReport(c.Context(), reportID, userID)
	if err != nil {
		return respondError(c, err)
	}

	return sendDownload(c, dl)
}

func (ctrl *ReportController) DownloadEmployeeReports(c *fiber.Ctx) error {
	userID, err := actingUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	employeeID, err := primitive.ObjectIDFromHex(c.Params("employeeId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid employee id"})
	}

	var start, end *time.Time
	if v := c.Query("start_date"); v != "" {
		if d, err := parseDate(v); err == nil {
			start = &d
		}
	}
	if v := c.Query("end_date"); v != "" {
		if d, err := parseDate(v); err == nil {
			end = &d
		}
	}

	dl, err := ctrl.ReportService.DownloadEmployeeReports(c.Context(), userID, employeeID, start, end)
	if err != nil {
		return respondError(c, err)
	}

	return sendDownload(c, dl)
}

func (ctrl *ReportController) DownloadConsolidated(c *fiber.Ctx) error {
	userID, err := actingUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	date, err := parseDate(c.Query("date"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid date, expected YYYY-MM-DD"})
	}

	cbsEndTime := c.Query("cbsEndTime")
	cbsStartTimeNextDay := c.Query("cbsStartTimeNextDay")

	dl, err := ctrl.ReportService.DownloadConsolidated(c.Context(), userID, date, cbsEndTime, cbsStartTimeNextDay)
	if err != nil {
		return respondError(c, err)
	}

	return sendDownload(c, dl)
}
