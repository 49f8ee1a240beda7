package dailyreport

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reportFor(name string, date time.Time, activities ...TeamActivity) *DailyReport {
	return &DailyReport{
		BusinessDate:   date,
		EmployeeName:   name,
		Status:         StatusSubmitted,
		TeamActivities: activities,
	}
}

func TestConsolidateRejectsEmptyInput(t *testing.T) {
	_, err := Consolidate(nil, "", "")

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
}

func TestConsolidateRejectsMixedDates(t *testing.T) {
	day1 := BusinessDay(time.Date(2025, 3, 9, 10, 0, 0, 0, time.UTC))
	day2 := day1.AddDate(0, 0, 1)

	_, err := Consolidate([]*DailyReport{
		reportFor("Ahmad", day1),
		reportFor("Karim", day2),
	}, "", "")

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "all reports must share one business date", ve.Msg)
}

func TestConsolidateExceptionPartitionIsCaseInsensitive(t *testing.T) {
	day := BusinessDay(time.Now())
	reports := []*DailyReport{
		reportFor("Ahmad", day,
			TeamActivity{Description: "reversal of txn 991", ActivityType: "Reversals"},
			TeamActivity{Description: "teller override branch 12", ActivityType: "ALLOWING WITHOUT CHECK NUMBER - TELLER", Branch: "Kabul Main", AccountNumber: "100045"},
		),
		reportFor("Karim", day,
			TeamActivity{Description: "override branch 7", ActivityType: "Allowing Without Check Number", Branch: "Herat", AccountNumber: "200931"},
		),
	}

	doc, err := Consolidate(reports, "17:30", "08:00")
	require.NoError(t, err)

	require.Len(t, doc.ExceptionRows, 2)
	assert.Equal(t, 1, doc.ExceptionRows[0].No)
	assert.Equal(t, "Ahmad", doc.ExceptionRows[0].Employee)
	assert.Equal(t, "Kabul Main", doc.ExceptionRows[0].Branch)
	assert.Equal(t, 2, doc.ExceptionRows[1].No)
	assert.Equal(t, "Karim", doc.ExceptionRows[1].Employee)

	// The reversal stays in the grouped narrative.
	require.Len(t, doc.ActivityGroups, 1)
	assert.Equal(t, "Reversals", doc.ActivityGroups[0].ActivityType)
}

func TestConsolidateHeaderCarriesEndOfDayMarkers(t *testing.T) {
	day := BusinessDay(time.Now())
	r := reportFor("Ahmad", day, TeamActivity{Description: "x"})
	r.ReportingLine = "Payments Directorate"

	doc, err := Consolidate([]*DailyReport{r}, "17:30", "08:00")
	require.NoError(t, err)

	assert.Equal(t, InstitutionName, doc.Header.InstitutionName)
	assert.Equal(t, ReportTitle, doc.Header.Title)
	assert.Equal(t, day, doc.Header.BusinessDate)
	assert.Equal(t, "17:30", doc.Header.CbsEndTime)
	assert.Equal(t, "08:00", doc.Header.CbsStartTimeNextDay)
	assert.Equal(t, "Payments Directorate", doc.Header.ReportingLine)
}

func TestGroupActivitiesFirstEncounterOrder(t *testing.T) {
	day := BusinessDay(time.Now())
	reports := []*DailyReport{
		reportFor("Ahmad", day,
			TeamActivity{Description: "a1", ActivityType: "Reversals"},
			TeamActivity{Description: "a2", ActivityType: "Account Maintenance"},
		),
		reportFor("Karim", day,
			TeamActivity{Description: "k1", ActivityType: "Account Maintenance"},
			TeamActivity{Description: "k2", ActivityType: "Reversals"},
			TeamActivity{Description: "k3"},
		),
	}

	doc, err := Consolidate(reports, "", "")
	require.NoError(t, err)

	require.Len(t, doc.ActivityGroups, 3)
	assert.Equal(t, "Reversals", doc.ActivityGroups[0].ActivityType)
	assert.Equal(t, "Account Maintenance", doc.ActivityGroups[1].ActivityType)
	assert.Equal(t, DefaultActivityGroup, doc.ActivityGroups[2].ActivityType)

	// Encounter order is kept within each group.
	reversals := doc.ActivityGroups[0].Items
	require.Len(t, reversals, 2)
	assert.Equal(t, "a1", reversals[0].Description)
	assert.Equal(t, "k2", reversals[1].Description)
}

func TestGroupActivitiesSeparatorAndAttribution(t *testing.T) {
	day := BusinessDay(time.Now())
	reports := []*DailyReport{
		reportFor("Ahmad", day,
			TeamActivity{Description: "A", ActivityType: "Reversals"},
			TeamActivity{Description: "B", ActivityType: "Reversals"},
		),
		reportFor("Karim", day,
			TeamActivity{Description: "C", ActivityType: "Reversals"},
			TeamActivity{Description: "D", ActivityType: "Reversals"},
		),
	}

	doc, err := Consolidate(reports, "", "")
	require.NoError(t, err)

	require.Len(t, doc.ActivityGroups, 1)
	items := doc.ActivityGroups[0].Items
	require.Len(t, items, 4)

	// A: opens Ahmad's run
	assert.False(t, items[0].SeparatorBefore)
	assert.Empty(t, items[0].Attribution)
	// B: closes Ahmad's run
	assert.False(t, items[1].SeparatorBefore)
	assert.Equal(t, "Ahmad", items[1].Attribution)
	// C: employee change, separator before, run continues
	assert.True(t, items[2].SeparatorBefore)
	assert.Empty(t, items[2].Attribution)
	// D: closes Karim's run
	assert.False(t, items[3].SeparatorBefore)
	assert.Equal(t, "Karim", items[3].Attribution)
}

func TestGroupActivitiesSingleItemRunIsAttributed(t *testing.T) {
	day := BusinessDay(time.Now())
	doc, err := Consolidate([]*DailyReport{
		reportFor("Ahmad", day, TeamActivity{Description: "only", ActivityType: "Reversals"}),
	}, "", "")
	require.NoError(t, err)

	items := doc.ActivityGroups[0].Items
	require.Len(t, items, 1)
	assert.Equal(t, "Ahmad", items[0].Attribution)
}

func TestConsolidatePoolsFixedSchemaSections(t *testing.T) {
	day := BusinessDay(time.Now())
	r1 := reportFor("Ahmad", day)
	r1.EmailCommunications = []EmailCommunication{{Subject: "swift recon"}}
	r1.ProblemEscalations = []ProblemEscalation{{EscalatedTo: "IT Ops", Reason: "core node down", FollowUpStatus: "pending"}}
	r2 := reportFor("Karim", day)
	r2.EmailCommunications = []EmailCommunication{{Subject: "ACH cutoff"}}
	r2.Meetings = []Meeting{{Topic: "branch rollout"}}

	doc, err := Consolidate([]*DailyReport{r1, r2}, "", "")
	require.NoError(t, err)

	require.Len(t, doc.Emails, 2)
	assert.Equal(t, "swift recon", doc.Emails[0].Subject)
	assert.Equal(t, "ACH cutoff", doc.Emails[1].Subject)
	require.Len(t, doc.Escalations, 1)
	assert.Equal(t, "IT Ops", doc.Escalations[0].EscalatedTo)
	require.Len(t, doc.Meetings, 1)
}

func TestProjectReportUnifiedOrder(t *testing.T) {
	day := BusinessDay(time.Now())
	r := reportFor("Ahmad", day,
		TeamActivity{Description: "override", ActivityType: "Allowing without check number", Branch: "Kabul"},
		TeamActivity{Description: "reversal", ActivityType: "Reversals"},
	)
	r.EmailCommunications = []EmailCommunication{{Subject: "subject only"}}
	r.ChatCommunications = []ChatCommunication{{Summary: "whatsapp follow-up"}}
	r.ProblemEscalations = []ProblemEscalation{{Reason: "node down"}}
	r.Meetings = []Meeting{{Topic: "standup"}}
	r.TicketedIssues = []TicketedIssue{{ProblemDescription: "QRMIS sync"}}

	p := ProjectReport(r)

	// The exception activity still appears in the unified narrative and
	// in the dedicated exception table.
	require.Len(t, p.ExceptionRows, 1)
	assert.Equal(t, "Kabul", p.ExceptionRows[0].Branch)

	names := make([]string, 0, len(p.DailyActivities))
	for _, a := range p.DailyActivities {
		names = append(names, a.ActivityName)
	}
	assert.Equal(t, []string{
		"Allowing without check number",
		"Reversals",
		"Email Communication",
		"Chat Communication",
		"Problem Escalation",
		"Meeting",
		"QRMIS Issue",
	}, names)

	// Email with no summary falls back to the subject.
	assert.Equal(t, "subject only", p.DailyActivities[2].Description)
	assert.Equal(t, "Ahmad", p.Header.PreparedBy)
}
