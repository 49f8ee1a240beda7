package dailyreport

import "time"

// The structures below are the contract handed to the document renderer.
// They are plain values: header fields plus ordered rows and paragraphs,
// with no rendering instructions embedded.

const (
	InstitutionName = "Da Afghanistan Bank"
	ReportTitle     = "CBS TEAM DAILY STATUS REPORT"

	// DefaultActivityGroup collects team activities with no activity type
	DefaultActivityGroup = "CBS Team Activity"
)

type DocumentHeader struct {
	InstitutionName string
	Title           string
	BusinessDate    time.Time
	PreparedBy      string
	ReviewedBy      string
	ReportingLine   string

	// end-of-day markers, supplied by the caller for the consolidated view
	CbsEndTime          string
	CbsStartTimeNextDay string
}

// ExceptionRow is one numbered row of the "Allowing Without Check Number" table
type ExceptionRow struct {
	No            int
	Branch        string
	AccountNumber string
	Description   string
	Employee      string
}

// ActivityItem is one paragraph of a grouped team-activity narrative.
// SeparatorBefore marks a blank line where the contributing employee changes;
// Attribution carries the employee name to print after the item when it
// closes that employee's run, and is empty otherwise.
type ActivityItem struct {
	Description     string
	Branch          string
	AccountNumber   string
	ActionTaken     string
	FinalStatus     string
	Employee        string
	SeparatorBefore bool
	Attribution     string
}

// ActivityGroup is one activity-type section of the consolidated narrative
type ActivityGroup struct {
	ActivityType string
	Items        []ActivityItem
}

// EscalationBlock is one repeated escalation paragraph block
type EscalationBlock struct {
	EscalatedTo    string
	Reason         string
	FollowUpStatus string
}

// ConsolidatedDocument merges every employee's report for one business date.
// Section order is fixed: exception table, grouped activities, emails, chats,
// pending, escalations, meetings, card requests, ticketed issues.
type ConsolidatedDocument struct {
	Header         DocumentHeader
	ExceptionRows  []ExceptionRow
	ActivityGroups []ActivityGroup
	Emails         []EmailCommunication
	Chats          []ChatCommunication
	Pending        []PendingActivity
	Escalations    []EscalationBlock
	Meetings       []Meeting
	CardRequests   []CardRequest
	TicketedIssues []TicketedIssue
}

// UnifiedActivity is one entry of the flattened single-report narrative
type UnifiedActivity struct {
	ActivityName  string
	Description   string
	Branch        string
	AccountNumber string
}

// ReportProjection is the single-employee document handed to the renderer
// for "my report" downloads: no cross-employee merge, every section folded
// into one Daily Activities narrative ordered by section-type precedence.
type ReportProjection struct {
	Header          DocumentHeader
	ExceptionRows   []ExceptionRow
	Escalations     []EscalationBlock
	DailyActivities []UnifiedActivity
}
