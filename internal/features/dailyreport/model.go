package dailyreport

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ReportStatus string

const (
	StatusDraft                 ReportStatus = "DRAFT"
	StatusSubmitted             ReportStatus = "SUBMITTED"
	StatusApproved              ReportStatus = "APPROVED"
	StatusRejected              ReportStatus = "REJECTED"
	StatusReturnedForCorrection ReportStatus = "RETURNED_FOR_CORRECTION"
)

// IsReviewDecision reports whether s is a status a reviewer may assign.
func (s ReportStatus) IsReviewDecision() bool {
	return s == StatusApproved || s == StatusRejected || s == StatusReturnedForCorrection
}

// ChatCommunication is a chat/instant-messaging record on a daily report
type ChatCommunication struct {
	Platform        string `json:"platform" bson:"platform"` // WhatsApp, Signal, etc.
	Summary         string `json:"summary" bson:"summary"`
	ActionTaken     string `json:"action_taken" bson:"action_taken"`
	ActionPerformed string `json:"action_performed" bson:"action_performed"`
	ReferenceNumber string `json:"reference_number" bson:"reference_number"`
}

type EmailCommunication struct {
	IsInternal       bool   `json:"is_internal" bson:"is_internal"`
	Sender           string `json:"sender" bson:"sender"`
	Receiver         string `json:"receiver" bson:"receiver"`
	Subject          string `json:"subject" bson:"subject"`
	Summary          string `json:"summary" bson:"summary"`
	ActionTaken      string `json:"action_taken" bson:"action_taken"`
	FollowUpRequired bool   `json:"follow_up_required" bson:"follow_up_required"`
}

type ProblemEscalation struct {
	EscalatedTo    string     `json:"escalated_to" bson:"escalated_to"` // person or department
	Reason         string     `json:"reason" bson:"reason"`
	EscalatedAt    *time.Time `json:"escalated_at,omitempty" bson:"escalated_at,omitempty"`
	FollowUpStatus string     `json:"follow_up_status" bson:"follow_up_status"`
	Comments       string     `json:"comments" bson:"comments"`
}

type TrainingSession struct {
	TrainingType string `json:"training_type" bson:"training_type"` // internal/external
	Topic        string `json:"topic" bson:"topic"`
	Duration     string `json:"duration" bson:"duration"`
	SkillsGained string `json:"skills_gained" bson:"skills_gained"`
	TrainerName  string `json:"trainer_name" bson:"trainer_name"`
	Participants string `json:"participants" bson:"participants"`
}

type ProjectUpdate struct {
	ProjectName             string     `json:"project_name" bson:"project_name"`
	TaskOrMilestone         string     `json:"task_or_milestone" bson:"task_or_milestone"`
	ProgressDetail          string     `json:"progress_detail" bson:"progress_detail"`
	RoadblocksIssues        string     `json:"roadblocks_issues" bson:"roadblocks_issues"`
	EstimatedCompletionDate *time.Time `json:"estimated_completion_date,omitempty" bson:"estimated_completion_date,omitempty"`
	Comments                string     `json:"comments" bson:"comments"`
}

// TeamActivity is a CBS team activity; ActivityType drives consolidation grouping
type TeamActivity struct {
	Description   string `json:"description" bson:"description"`
	Branch        string `json:"branch" bson:"branch"`
	AccountNumber string `json:"account_number" bson:"account_number"`
	ActionTaken   string `json:"action_taken" bson:"action_taken"`
	FinalStatus   string `json:"final_status" bson:"final_status"`
	ActivityType  string `json:"activity_type" bson:"activity_type"` // Allowing without check number, Reversals, etc.
}

type PendingActivity struct {
	Title             string   `json:"title" bson:"title"`
	Description       string   `json:"description" bson:"description"`
	Status            string   `json:"status" bson:"status"`
	Amount            *float64 `json:"amount,omitempty" bson:"amount,omitempty"`
	FollowUpRequired  bool     `json:"follow_up_required" bson:"follow_up_required"`
	ResponsiblePerson string   `json:"responsible_person" bson:"responsible_person"`
}

type Meeting struct {
	MeetingType  string `json:"meeting_type" bson:"meeting_type"` // Internal/External
	Topic        string `json:"topic" bson:"topic"`
	Summary      string `json:"summary" bson:"summary"`
	ActionTaken  string `json:"action_taken" bson:"action_taken"`
	NextStep     string `json:"next_step" bson:"next_step"`
	Participants string `json:"participants" bson:"participants"`
}

type CardRequest struct {
	RequestType            string     `json:"request_type" bson:"request_type"` // Issue, Renew, PIN reissue, etc.
	RequestedBy            string     `json:"requested_by" bson:"requested_by"`
	RequestDate            *time.Time `json:"request_date,omitempty" bson:"request_date,omitempty"`
	ResolutionDetails      string     `json:"resolution_details" bson:"resolution_details"`
	SupportingDocumentPath string     `json:"supporting_document_path" bson:"supporting_document_path"`
	ArchivedDate           *time.Time `json:"archived_date,omitempty" bson:"archived_date,omitempty"`
	Operator               string     `json:"operator" bson:"operator"`
}

type TicketedIssue struct {
	ProblemType        string `json:"problem_type" bson:"problem_type"`
	ProblemDescription string `json:"problem_description" bson:"problem_description"`
	SolutionProvided   string `json:"solution_provided" bson:"solution_provided"`
	PostedBy           string `json:"posted_by" bson:"posted_by"`
	AuthorizedBy       string `json:"authorized_by" bson:"authorized_by"`
	SupportingDocument string `json:"supporting_document" bson:"supporting_document"`
	Operator           string `json:"operator" bson:"operator"`
}

// DailyReport is the per-employee-per-business-day report aggregate.
// The ten section slices are owned exclusively by the aggregate; replacing a
// section means assigning a new slice, never merging rows.
type DailyReport struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	BusinessDate time.Time          `json:"business_date" bson:"business_date"`
	EmployeeID   primitive.ObjectID `json:"employee_id" bson:"employee_id"`
	EmployeeName string             `json:"employee_name" bson:"employee_name"`

	Status ReportStatus `json:"status" bson:"status"`

	// CBS time tracking, "15:04" wall-clock strings
	CbsEndTime          string `json:"cbs_end_time,omitempty" bson:"cbs_end_time,omitempty"`
	CbsStartTimeNextDay string `json:"cbs_start_time_next_day,omitempty" bson:"cbs_start_time_next_day,omitempty"`

	ReviewedByID   primitive.ObjectID `json:"reviewed_by_id,omitempty" bson:"reviewed_by_id,omitempty"`
	ReviewedByName string             `json:"reviewed_by_name,omitempty" bson:"reviewed_by_name,omitempty"`
	ReviewedAt     *time.Time         `json:"reviewed_at,omitempty" bson:"reviewed_at,omitempty"`
	ReviewComments string             `json:"review_comments,omitempty" bson:"review_comments,omitempty"`

	ReportingLine string `json:"reporting_line,omitempty" bson:"reporting_line,omitempty"`

	ChatCommunications  []ChatCommunication  `json:"chat_communications" bson:"chat_communications"`
	EmailCommunications []EmailCommunication `json:"email_communications" bson:"email_communications"`
	ProblemEscalations  []ProblemEscalation  `json:"problem_escalations" bson:"problem_escalations"`
	TrainingSessions    []TrainingSession    `json:"training_sessions" bson:"training_sessions"`
	ProjectUpdates      []ProjectUpdate      `json:"project_updates" bson:"project_updates"`
	TeamActivities      []TeamActivity       `json:"team_activities" bson:"team_activities"`
	PendingActivities   []PendingActivity    `json:"pending_activities" bson:"pending_activities"`
	Meetings            []Meeting            `json:"meetings" bson:"meetings"`
	CardRequests        []CardRequest        `json:"card_requests" bson:"card_requests"`
	TicketedIssues      []TicketedIssue      `json:"ticketed_issues" bson:"ticketed_issues"`

	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// ReportSections carries the full desired set of rows per section. Callers
// resend every section in full; each supplied section replaces the stored one.
type ReportSections struct {
	ChatCommunications  []ChatCommunication  `json:"chat_communications"`
	EmailCommunications []EmailCommunication `json:"email_communications"`
	ProblemEscalations  []ProblemEscalation  `json:"problem_escalations"`
	TrainingSessions    []TrainingSession    `json:"training_sessions"`
	ProjectUpdates      []ProjectUpdate      `json:"project_updates"`
	TeamActivities      []TeamActivity       `json:"team_activities"`
	PendingActivities   []PendingActivity    `json:"pending_activities"`
	Meetings            []Meeting            `json:"meetings"`
	CardRequests        []CardRequest        `json:"card_requests"`
	TicketedIssues      []TicketedIssue      `json:"ticketed_issues"`
}

type CreateReportRequest struct {
	BusinessDate        string `json:"business_date"` // "2006-01-02", defaults to today
	CbsEndTime          string `json:"cbs_end_time"`
	CbsStartTimeNextDay string `json:"cbs_start_time_next_day"`
	ReportingLine       string `json:"reporting_line"`
	ReportSections
}

type UpdateReportRequest struct {
	CbsEndTime          *string `json:"cbs_end_time"`
	CbsStartTimeNextDay *string `json:"cbs_start_time_next_day"`
	ReportingLine       *string `json:"reporting_line"`
	ReportSections
}

type ReviewRequest struct {
	Status         ReportStatus `json:"status"`
	ReviewComments string       `json:"review_comments"`
}

// ApplySections replaces every section collection with the supplied rows.
// Absent sections clear (clear-then-repopulate, never a partial merge).
func (r *DailyReport) ApplySections(s ReportSections) {
	r.ChatCommunications = append([]ChatCommunication(nil), s.ChatCommunications...)
	r.EmailCommunications = append([]EmailCommunication(nil), s.EmailCommunications...)
	r.ProblemEscalations = append([]ProblemEscalation(nil), s.ProblemEscalations...)
	r.TrainingSessions = append([]TrainingSession(nil), s.TrainingSessions...)
	r.ProjectUpdates = append([]ProjectUpdate(nil), s.ProjectUpdates...)
	r.TeamActivities = append([]TeamActivity(nil), s.TeamActivities...)
	r.PendingActivities = append([]PendingActivity(nil), s.PendingActivities...)
	r.Meetings = append([]Meeting(nil), s.Meetings...)
	r.CardRequests = append([]CardRequest(nil), s.CardRequests...)
	r.TicketedIssues = append([]TicketedIssue(nil), s.TicketedIssues...)
}

// ApplyEdit applies an update request. Editing an APPROVED report pushes it
// back to SUBMITTED so a reviewer must look again; other statuses are kept.
func (r *DailyReport) ApplyEdit(req *UpdateReportRequest, now time.Time) {
	if req.CbsEndTime != nil {
		r.CbsEndTime = *req.CbsEndTime
	}
	if req.CbsStartTimeNextDay != nil {
		r.CbsStartTimeNextDay = *req.CbsStartTimeNextDay
	}
	if req.ReportingLine != nil {
		r.ReportingLine = *req.ReportingLine
	}

	r.ApplySections(req.ReportSections)

	if r.Status == StatusApproved {
		r.Status = StatusSubmitted
	}
	r.UpdatedAt = now
}

// Submit validates the report and moves it to SUBMITTED.
func (r *DailyReport) Submit(now time.Time) error {
	if r.CbsEndTime == "" || r.CbsStartTimeNextDay == "" {
		return &ValidationError{Msg: "CBS Start/End Time is required"}
	}
	if len(r.TeamActivities) == 0 {
		return &ValidationError{Msg: "At least one CBS Team Activity is required"}
	}

	r.Status = StatusSubmitted
	r.UpdatedAt = now
	return nil
}

// Review records a one-way review decision.
func (r *DailyReport) Review(reviewerID primitive.ObjectID, reviewerName string, decision ReportStatus, comments string, now time.Time) error {
	if !decision.IsReviewDecision() {
		return &ValidationError{Msg: "review decision must be APPROVED, REJECTED or RETURNED_FOR_CORRECTION"}
	}

	r.Status = decision
	r.ReviewedByID = reviewerID
	r.ReviewedByName = reviewerName
	r.ReviewedAt = &now
	r.ReviewComments = comments
	r.UpdatedAt = now
	return nil
}

// BusinessDay truncates t to a UTC calendar day, the canonical business date form.
func BusinessDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
