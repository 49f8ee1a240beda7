package render

import (
	"bytes"
	"testing"
	"time"

	"github.com/AzizRahmanYaad/cbs-dashboard/internal/features/dailyreport"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestRenderConsolidatedProducesReadableWorkbook(t *testing.T) {
	doc := &dailyreport.ConsolidatedDocument{
		Header: dailyreport.DocumentHeader{
			InstitutionName:     dailyreport.InstitutionName,
			Title:               dailyreport.ReportTitle,
			BusinessDate:        time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC),
			PreparedBy:          "Team Members",
			CbsEndTime:          "17:30",
			CbsStartTimeNextDay: "08:00",
		},
		ExceptionRows: []dailyreport.ExceptionRow{
			{No: 1, Branch: "Kabul Main", AccountNumber: "100045", Description: "teller override", Employee: "Ahmad"},
		},
		ActivityGroups: []dailyreport.ActivityGroup{
			{
				ActivityType: "Reversals",
				Items: []dailyreport.ActivityItem{
					{Description: "reversal of txn 991", Employee: "Ahmad", Attribution: "Ahmad"},
					{Description: "reversal of txn 993", Employee: "Karim", SeparatorBefore: true, Attribution: "Karim"},
				},
			},
		},
		Meetings: []dailyreport.Meeting{{MeetingType: "Internal", Topic: "branch rollout"}},
	}

	data, err := NewExcelRenderer().RenderConsolidated(doc)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)

	flat := ""
	for _, row := range rows {
		for _, cell := range row {
			flat += cell + "\n"
		}
	}
	assert.Contains(t, flat, dailyreport.InstitutionName)
	assert.Contains(t, flat, dailyreport.ReportTitle)
	assert.Contains(t, flat, "Allowing Without Check Number")
	assert.Contains(t, flat, "Kabul Main")
	assert.Contains(t, flat, "Reversals")
	assert.Contains(t, flat, "branch rollout")
}

func TestRenderReportsMultipleProjections(t *testing.T) {
	p1 := &dailyreport.ReportProjection{
		Header: dailyreport.DocumentHeader{
			InstitutionName: dailyreport.InstitutionName,
			Title:           dailyreport.ReportTitle,
			BusinessDate:    time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC),
			PreparedBy:      "Ahmad Wali",
		},
		DailyActivities: []dailyreport.UnifiedActivity{
			{ActivityName: "Reversals", Description: "reversal of txn 991"},
		},
	}
	p2 := &dailyreport.ReportProjection{
		Header: dailyreport.DocumentHeader{
			InstitutionName: dailyreport.InstitutionName,
			Title:           dailyreport.ReportTitle,
			BusinessDate:    time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
			PreparedBy:      "Ahmad Wali",
		},
	}

	data, err := NewExcelRenderer().RenderReports([]*dailyreport.ReportProjection{p1, p2})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)

	dates := 0
	for _, row := range rows {
		for _, cell := range row {
			if cell == "2025-03-09" || cell == "2025-03-10" {
				dates++
			}
		}
	}
	assert.Equal(t, 2, dates, "each projection gets its own header block")
}

func TestActivityLineFormatting(t *testing.T) {
	line := activityLine(dailyreport.ActivityItem{
		Description:   "teller override",
		Branch:        "Kabul Main",
		AccountNumber: "100045",
		ActionTaken:   "approved by supervisor",
		FinalStatus:   "Completed",
	})

	assert.Equal(t, "teller override (Branch: Kabul Main, A/C: 100045) - approved by supervisor [Completed]", line)

	assert.Equal(t, "plain item", activityLine(dailyreport.ActivityItem{Description: "plain item"}))
}
