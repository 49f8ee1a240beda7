package dailyreport

import (
	"strings"
)

// exceptionMarkers flag team activities that belong in the dedicated
// "Allowing Without Check Number" table instead of the grouped narrative.
// Matching is a case-insensitive substring test on the activity type.
var exceptionMarkers = []string{
	"without check number",
	"allowing without check number",
}

func isExceptionActivity(activityType string) bool {
	lower := strings.ToLower(activityType)
	for _, marker := range exceptionMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

type taggedActivity struct {
	activity TeamActivity
	employee string
}

// Consolidate merges every report for one business date into a single
// document. All input reports must share the same business date; mixing
// dates is a caller error, not something the engine re-groups.
func Consolidate(reports []*DailyReport, cbsEndTime, cbsStartTimeNextDay string) (*ConsolidatedDocument, error) {
	if len(reports) == 0 {
		return nil, &ValidationError{Msg: "no reports provided"}
	}

	businessDate := reports[0].BusinessDate
	for _, r := range reports[1:] {
		if !r.BusinessDate.Equal(businessDate) {
			return nil, &ValidationError{Msg: "all reports must share one business date"}
		}
	}

	doc := &ConsolidatedDocument{
		Header: DocumentHeader{
			InstitutionName:     InstitutionName,
			Title:               ReportTitle,
			BusinessDate:        businessDate,
			PreparedBy:          "Team Members",
			ReportingLine:       reports[0].ReportingLine,
			CbsEndTime:          cbsEndTime,
			CbsStartTimeNextDay: cbsStartTimeNextDay,
		},
	}

	// Partition team activities; pool the fixed-schema sections in input order.
	var exceptions []taggedActivity
	var general []taggedActivity
	for _, r := range reports {
		for _, a := range r.TeamActivities {
			tagged := taggedActivity{activity: a, employee: r.EmployeeName}
			if isExceptionActivity(a.ActivityType) {
				exceptions = append(exceptions, tagged)
			} else {
				general = append(general, tagged)
			}
		}

		doc.Emails = append(doc.Emails, r.EmailCommunications...)
		doc.Chats = append(doc.Chats, r.ChatCommunications...)
		doc.Pending = append(doc.Pending, r.PendingActivities...)
		doc.Meetings = append(doc.Meetings, r.Meetings...)
		doc.CardRequests = append(doc.CardRequests, r.CardRequests...)
		doc.TicketedIssues = append(doc.TicketedIssues, r.TicketedIssues...)

		for _, e := range r.ProblemEscalations {
			doc.Escalations = append(doc.Escalations, EscalationBlock{
				EscalatedTo:    e.EscalatedTo,
				Reason:         e.Reason,
				FollowUpStatus: e.FollowUpStatus,
			})
		}
	}

	for i, item := range exceptions {
		doc.ExceptionRows = append(doc.ExceptionRows, ExceptionRow{
			No:            i + 1,
			Branch:        item.activity.Branch,
			AccountNumber: item.activity.AccountNumber,
			Description:   item.activity.Description,
			Employee:      item.employee,
		})
	}

	doc.ActivityGroups = groupActivities(general)

	return doc, nil
}

// groupActivities groups the general bucket by activity type, keeping
// first-encounter group order and encounter order within groups. Employee
// run boundaries become separators and attribution lines.
func groupActivities(general []taggedActivity) []ActivityGroup {
	var order []string
	byType := make(map[string][]taggedActivity)
	for _, item := range general {
		key := item.activity.ActivityType
		if key == "" {
			key = DefaultActivityGroup
		}
		if _, seen := byType[key]; !seen {
			order = append(order, key)
		}
		byType[key] = append(byType[key], item)
	}

	var groups []ActivityGroup
	for _, key := range order {
		items := byType[key]
		group := ActivityGroup{ActivityType: key}

		for i, item := range items {
			entry := ActivityItem{
				Description:   item.activity.Description,
				Branch:        item.activity.Branch,
				AccountNumber: item.activity.AccountNumber,
				ActionTaken:   item.activity.ActionTaken,
				FinalStatus:   item.activity.FinalStatus,
				Employee:      item.employee,
			}

			if i > 0 && items[i-1].employee != item.employee {
				entry.SeparatorBefore = true
			}

			// Attribute the employee once, after the last item of their run
			last := i == len(items)-1
			if last || items[i+1].employee != item.employee {
				entry.Attribution = item.employee
			}

			group.Items = append(group.Items, entry)
		}

		groups = append(groups, group)
	}

	return groups
}

// ProjectReport builds the single-employee projection: the report's own
// exception rows and escalations, plus every section flattened into one
// Daily Activities narrative ordered by section-type precedence.
func ProjectReport(r *DailyReport) *ReportProjection {
	p := &ReportProjection{
		Header: DocumentHeader{
			InstitutionName:     InstitutionName,
			Title:               ReportTitle,
			BusinessDate:        r.BusinessDate,
			PreparedBy:          r.EmployeeName,
			ReviewedBy:          r.ReviewedByName,
			ReportingLine:       r.ReportingLine,
			CbsEndTime:          r.CbsEndTime,
			CbsStartTimeNextDay: r.CbsStartTimeNextDay,
		},
	}

	no := 1
	for _, a := range r.TeamActivities {
		if isExceptionActivity(a.ActivityType) {
			p.ExceptionRows = append(p.ExceptionRows, ExceptionRow{
				No:            no,
				Branch:        a.Branch,
				AccountNumber: a.AccountNumber,
				Description:   a.Description,
				Employee:      r.EmployeeName,
			})
			no++
		}
	}

	for _, e := range r.ProblemEscalations {
		p.Escalations = append(p.Escalations, EscalationBlock{
			EscalatedTo:    e.EscalatedTo,
			Reason:         e.Reason,
			FollowUpStatus: e.FollowUpStatus,
		})
	}

	for _, a := range r.TeamActivities {
		name := a.ActivityType
		if name == "" {
			name = DefaultActivityGroup
		}
		p.DailyActivities = append(p.DailyActivities, UnifiedActivity{
			ActivityName:  name,
			Description:   a.Description,
			Branch:        a.Branch,
			AccountNumber: a.AccountNumber,
		})
	}
	for _, e := range r.EmailCommunications {
		desc := e.Summary
		if desc == "" {
			desc = e.Subject
		}
		p.DailyActivities = append(p.DailyActivities, UnifiedActivity{ActivityName: "Email Communication", Description: desc})
	}
	for _, c := range r.ChatCommunications {
		p.DailyActivities = append(p.DailyActivities, UnifiedActivity{ActivityName: "Chat Communication", Description: c.Summary})
	}
	for _, e := range r.ProblemEscalations {
		p.DailyActivities = append(p.DailyActivities, UnifiedActivity{ActivityName: "Problem Escalation", Description: e.Reason})
	}
	for _, pa := range r.PendingActivities {
		desc := pa.Description
		if desc == "" {
			desc = pa.Title
		}
		p.DailyActivities = append(p.DailyActivities, UnifiedActivity{ActivityName: "Pending Activity", Description: desc})
	}
	for _, m := range r.Meetings {
		desc := m.Summary
		if desc == "" {
			desc = m.Topic
		}
		p.DailyActivities = append(p.DailyActivities, UnifiedActivity{ActivityName: "Meeting", Description: desc})
	}
	for _, t := range r.TrainingSessions {
		p.DailyActivities = append(p.DailyActivities, UnifiedActivity{ActivityName: "Training & Capacity Building", Description: t.Topic})
	}
	for _, pr := range r.ProjectUpdates {
		p.DailyActivities = append(p.DailyActivities, UnifiedActivity{ActivityName: "Project Progress Update", Description: pr.ProgressDetail})
	}
	for _, c := range r.CardRequests {
		p.DailyActivities = append(p.DailyActivities, UnifiedActivity{ActivityName: "AFPay Card Request", Description: c.ResolutionDetails})
	}
	for _, q := range r.TicketedIssues {
		p.DailyActivities = append(p.DailyActivities, UnifiedActivity{ActivityName: "QRMIS Issue", Description: q.ProblemDescription})
	}

	return p
}
