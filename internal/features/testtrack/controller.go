package testtrack

import (
	"errors"
	"strconv"

	"github.com/AzizRahmanYaad/cbs-dashboard/pkg/utils"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TrackController struct {
	TrackService TrackService
}

func NewTrackController(trackService TrackService) *TrackController {
	return &TrackController{
		TrackService: trackService,
	}
}

func actorID(c *fiber.Ctx) (primitive.ObjectID, error) {
	claims, ok := c.Locals(utils.UserClaimsKey).(*utils.UserClaims)
	if !ok {
		return primitive.NilObjectID, errors.New("missing claims")
	}
	return primitive.ObjectIDFromHex(claims.UserID)
}

type ModuleRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type ExecutionRequest struct {
	TestCaseID  string `json:"test_case_id"`
	Status      string `json:"status"`
	Notes       string `json:"notes"`
	Environment string `json:"environment"`
}

type DefectStatusRequest struct {
	Status string `json:"status"`
}

type CommentRequest struct {
	TargetType string `json:"target_type"`
	TargetID   string `json:"target_id"`
	Body       string `json:"body"`
}

func (ctrl *TrackController) CreateModule(c *fiber.Ctx) error {
	uid, err := actorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	var req ModuleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	m, err := ctrl.TrackService.CreateModule(c.Context(), uid, req.Name, req.Description)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(m)
}

func (ctrl *TrackController) ListModules(c *fiber.Ctx) error {
	modules, err := ctrl.TrackService.ListModules(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch test modules"})
	}
	return c.JSON(fiber.Map{"modules": modules})
}

func (ctrl *TrackController) UpdateModule(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid module id"})
	}

	var req ModuleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	m, err := ctrl.TrackService.UpdateModule(c.Context(), id, req.Name, req.Description)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(m)
}

func (ctrl *TrackController) DeleteModule(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid module id"})
	}

	if err := ctrl.TrackService.DeleteModule(c.Context(), id); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete module"})
	}
	return c.JSON(fiber.Map{"message": "Module deleted successfully"})
}

func (ctrl *TrackController) CreateCase(c *fiber.Ctx) error {
	uid, err := actorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	var tc TestCase
	if err := c.BodyParser(&tc); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	created, err := ctrl.TrackService.CreateCase(c.Context(), uid, &tc)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (ctrl *TrackController) GetCase(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid test case id"})
	}

	tc, err := ctrl.TrackService.GetCase(c.Context(), id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Test case not found"})
	}
	return c.JSON(tc)
}

func (ctrl *TrackController) ListCases(c *fiber.Ctx) error {
	page, _ := strconv.ParseInt(c.Query("page", "1"), 10, 64)
	limit, _ := strconv.ParseInt(c.Query("limit", "10"), 10, 64)

	var moduleID *primitive.ObjectID
	if v := c.Query("module_id"); v != "" {
		if oid, err := primitive.ObjectIDFromHex(v); err == nil {
			moduleID = &oid
		}
	}

	cases, total, err := ctrl.TrackService.ListCases(c.Context(), moduleID, c.Query("status"), page, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch test cases"})
	}

	return c.JSON(fiber.Map{
		"test_cases": cases,
		"total":      total,
		"page":       page,
		"limit":      limit,
	})
}

func (ctrl *TrackController) UpdateCase(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid test case id"})
	}

	var tc TestCase
	if err := c.BodyParser(&tc); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	updated, err := ctrl.TrackService.UpdateCase(c.Context(), id, &tc)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Test case not found"})
	}
	return c.JSON(updated)
}

func (ctrl *TrackController) DeleteCase(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid test case id"})
	}

	if err := ctrl.TrackService.DeleteCase(c.Context(), id); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete test case"})
	}
	return c.JSON(fiber.Map{"message": "Test case deleted successfully"})
}

func (ctrl *TrackController) RecordExecution(c *fiber.Ctx) error {
	uid, err := actorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	var req ExecutionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	testCaseID, err := primitive.ObjectIDFromHex(req.TestCaseID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid test case id"})
	}

	e, err := ctrl.TrackService.RecordExecution(c.Context(), uid, &TestExecution{
		TestCaseID:  testCaseID,
		Status:      req.Status,
		Notes:       req.Notes,
		Environment: req.Environment,
	})
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(e)
}

func (ctrl *TrackController) ListExecutions(c *fiber.Ctx) error {
	testCaseID, err := primitive.ObjectIDFromHex(c.Query("test_case_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid test case id"})
	}

	executions, err := ctrl.TrackService.ListExecutions(c.Context(), testCaseID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch executions"})
	}
	return c.JSON(fiber.Map{"executions": executions})
}

func (ctrl *TrackController) CreateDefect(c *fiber.Ctx) error {
	uid, err := actorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	var d Defect
	if err := c.BodyParser(&d); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	created, err := ctrl.TrackService.CreateDefect(c.Context(), uid, &d)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (ctrl *TrackController) GetDefect(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid defect id"})
	}

	d, err := ctrl.TrackService.GetDefect(c.Context(), id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Defect not found"})
	}
	return c.JSON(d)
}

func (ctrl *TrackController) ListDefects(c *fiber.Ctx) error {
	page, _ := strconv.ParseInt(c.Query("page", "1"), 10, 64)
	limit, _ := strconv.ParseInt(c.Query("limit", "10"), 10, 64)

	defects, total, err := ctrl.TrackService.ListDefects(c.Context(), c.Query("status"), page, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch defects"})
	}

	return c.JSON(fiber.Map{
		"defects": defects,
		"total":   total,
		"page":    page,
		"limit":   limit,
	})
}

func (ctrl *TrackController) UpdateDefectStatus(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid defect id"})
	}

	var req DefectStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	d, err := ctrl.TrackService.UpdateDefectStatus(c.Context(), id, req.Status)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(d)
}

func (ctrl *TrackController) AddComment(c *fiber.Ctx) error {
	uid, err := actorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	var req CommentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	targetID, err := primitive.ObjectIDFromHex(req.TargetID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid target id"})
	}

	comment, err := ctrl.TrackService.AddComment(c.Context(), uid, req.TargetType, targetID, req.Body)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

func (ctrl *TrackController) ListComments(c *fiber.Ctx) error {
	targetID, err := primitive.ObjectIDFromHex(c.Query("target_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid target id"})
	}

	comments, err := ctrl.TrackService.ListComments(c.Context(), c.Query("target_type"), targetID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch comments"})
	}
	return c.JSON(fiber.Map{"comments": comments})
}
