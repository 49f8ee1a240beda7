package testtrack

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Tracking statuses are free-form strings validated at the edge; the
// canonical vocabularies live here.

const (
	CaseStatusActive     = "ACTIVE"
	CaseStatusDeprecated = "DEPRECATED"
	CaseStatusDraft      = "DRAFT"

	ExecutionPass    = "PASS"
	ExecutionFail    = "FAIL"
	ExecutionBlocked = "BLOCKED"
	ExecutionSkipped = "SKIPPED"

	DefectOpen       = "OPEN"
	DefectInProgress = "IN_PROGRESS"
	DefectResolved   = "RESOLVED"
	DefectClosed     = "CLOSED"
)

var ExecutionStatuses = []string{ExecutionPass, ExecutionFail, ExecutionBlocked, ExecutionSkipped}

var DefectStatuses = []string{DefectOpen, DefectInProgress, DefectResolved, DefectClosed}

type TestModule struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name"`
	Description string             `json:"description" bson:"description"`
	CreatedBy   primitive.ObjectID `json:"created_by" bson:"created_by"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at" bson:"updated_at"`
}

type TestStep struct {
	Order          int    `json:"order" bson:"order"`
	Action         string `json:"action" bson:"action"`
	ExpectedResult string `json:"expected_result" bson:"expected_result"`
}

type TestCase struct {
	ID            primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	ModuleID      primitive.ObjectID `json:"module_id" bson:"module_id"`
	Title         string             `json:"title" bson:"title"`
	Description   string             `json:"description" bson:"description"`
	Preconditions string             `json:"preconditions" bson:"preconditions"`
	Steps         []TestStep         `json:"steps" bson:"steps"`
	Priority      string             `json:"priority" bson:"priority"` // HIGH, MEDIUM, LOW
	Status        string             `json:"status" bson:"status"`
	AssigneeID    primitive.ObjectID `json:"assignee_id,omitempty" bson:"assignee_id,omitempty"`
	CreatedBy     primitive.ObjectID `json:"created_by" bson:"created_by"`
	CreatedAt     time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at" bson:"updated_at"`
}

type TestExecution struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	TestCaseID  primitive.ObjectID `json:"test_case_id" bson:"test_case_id"`
	ExecutedBy  primitive.ObjectID `json:"executed_by" bson:"executed_by"`
	Status      string             `json:"status" bson:"status"`
	Notes       string             `json:"notes" bson:"notes"`
	Environment string             `json:"environment" bson:"environment"`
	ExecutedAt  time.Time          `json:"executed_at" bson:"executed_at"`
}

type Defect struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	TestCaseID  primitive.ObjectID `json:"test_case_id,omitempty" bson:"test_case_id,omitempty"`
	Title       string             `json:"title" bson:"title"`
	Description string             `json:"description" bson:"description"`
	Severity    string             `json:"severity" bson:"severity"` // CRITICAL, MAJOR, MINOR
	Status      string             `json:"status" bson:"status"`
	ReportedBy  primitive.ObjectID `json:"reported_by" bson:"reported_by"`
	AssigneeID  primitive.ObjectID `json:"assignee_id,omitempty" bson:"assignee_id,omitempty"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at" bson:"updated_at"`
}

// Comment attaches a note to a test case or a defect.
type Comment struct {
	ID         primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	TargetType string             `json:"target_type" bson:"target_type"` // test_case or defect
	TargetID   primitive.ObjectID `json:"target_id" bson:"target_id"`
	AuthorID   primitive.ObjectID `json:"author_id" bson:"author_id"`
	Body       string             `json:"body" bson:"body"`
	CreatedAt  time.Time          `json:"created_at" bson:"created_at"`
}
