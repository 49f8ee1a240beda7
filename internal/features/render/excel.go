package render

import (
	"fmt"

	"github.com/AzizRahmanYaad/cbs-dashboard/internal/features/dailyreport"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Daily Report"

// ExcelRenderer writes consolidated documents and single-report projections
// as xlsx workbooks.
type ExcelRenderer struct{}

func NewExcelRenderer() *ExcelRenderer {
	return &ExcelRenderer{}
}

type sheetWriter struct {
	f   *excelize.File
	row int

	titleStyle   int
	headerStyle  int
	sectionStyle int
}

func newSheetWriter() (*sheetWriter, error) {
	f := excelize.NewFile()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		f.Close()
		return nil, err
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
	sectionStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 12},
	})

	return &sheetWriter{
		f:            f,
		row:          1,
		titleStyle:   titleStyle,
		headerStyle:  headerStyle,
		sectionStyle: sectionStyle,
	}, nil
}

func (w *sheetWriter) cell(col int) string {
	name, _ := excelize.CoordinatesToCellName(col, w.row)
	return name
}

func (w *sheetWriter) writeRow(values ...interface{}) {
	for i, v := range values {
		w.f.SetCellValue(sheetName, w.cell(i+1), v)
	}
	w.row++
}

func (w *sheetWriter) writeStyledRow(style int, values ...interface{}) {
	first := w.cell(1)
	last := w.cell(len(values))
	for i, v := range values {
		w.f.SetCellValue(sheetName, w.cell(i+1), v)
	}
	w.f.SetCellStyle(sheetName, first, last, style)
	w.row++
}

func (w *sheetWriter) blankRow() {
	w.row++
}

func (w *sheetWriter) writeHeader(h dailyreport.DocumentHeader) {
	w.writeStyledRow(w.titleStyle, h.InstitutionName)
	w.writeStyledRow(w.titleStyle, h.Title)
	w.blankRow()

	w.writeRow("Date:", h.BusinessDate.Format("2006-01-02"))
	if h.PreparedBy != "" {
		w.writeRow("Prepared By:", h.PreparedBy)
	}
	if h.ReviewedBy != "" {
		w.writeRow("Reviewed By:", h.ReviewedBy)
	}
	if h.ReportingLine != "" {
		w.writeRow("Reporting Line:", h.ReportingLine)
	}
	if h.CbsEndTime != "" {
		w.writeRow("CBS End Time:", h.CbsEndTime)
	}
	if h.CbsStartTimeNextDay != "" {
		w.writeRow("CBS Start Time (Next Day):", h.CbsStartTimeNextDay)
	}
	w.blankRow()
}

func (w *sheetWriter) writeSectionTitle(title string) {
	w.writeStyledRow(w.sectionStyle, title)
}

func (w *sheetWriter) writeExceptionTable(rows []dailyreport.ExceptionRow) {
	if len(rows) == 0 {
		return
	}
	w.writeSectionTitle("Allowing Without Check Number")
	w.writeStyledRow(w.headerStyle, "No", "Branch", "Account Number", "Description", "Employee")
	for _, r := range rows {
		w.writeRow(r.No, r.Branch, r.AccountNumber, r.Description, r.Employee)
	}
	w.blankRow()
}

func (w *sheetWriter) writeEscalations(blocks []dailyreport.EscalationBlock) {
	if len(blocks) == 0 {
		return
	}
	w.writeSectionTitle("Problem Escalations")
	for _, b := range blocks {
		w.writeRow("Escalated To:", b.EscalatedTo)
		w.writeRow("Reason:", b.Reason)
		w.writeRow("Follow-up Status:", b.FollowUpStatus)
		w.blankRow()
	}
}

func (w *sheetWriter) finish() ([]byte, error) {
	cols := []string{"A", "B", "C", "D", "E", "F", "G"}
	for _, col := range cols {
		w.f.SetColWidth(sheetName, col, col, 22)
	}

	buffer, err := w.f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

// RenderConsolidated writes the merged team document for one business date.
func (r *ExcelRenderer) RenderConsolidated(doc *dailyreport.ConsolidatedDocument) ([]byte, error) {
	w, err := newSheetWriter()
	if err != nil {
		return nil, err
	}
	defer w.f.Close()

	w.writeHeader(doc.Header)
	w.writeExceptionTable(doc.ExceptionRows)

	for _, group := range doc.ActivityGroups {
		w.writeSectionTitle(group.ActivityType)
		for _, item := range group.Items {
			if item.SeparatorBefore {
				w.blankRow()
			}
			w.writeRow(activityLine(item))
			if item.Attribution != "" {
				w.writeRow("", item.Attribution)
			}
		}
		w.blankRow()
	}

	if len(doc.Emails) > 0 {
		w.writeSectionTitle("Email Communications")
		w.writeStyledRow(w.headerStyle, "Sender", "Receiver", "Subject", "Summary", "Action Taken")
		for _, e := range doc.Emails {
			w.writeRow(e.Sender, e.Receiver, e.Subject, e.Summary, e.ActionTaken)
		}
		w.blankRow()
	}

	if len(doc.Chats) > 0 {
		w.writeSectionTitle("Chat Communications")
		w.writeStyledRow(w.headerStyle, "Platform", "Summary", "Action Taken", "Reference")
		for _, ch := range doc.Chats {
			w.writeRow(ch.Platform, ch.Summary, ch.ActionTaken, ch.ReferenceNumber)
		}
		w.blankRow()
	}

	if len(doc.Pending) > 0 {
		w.writeSectionTitle("Pending Activities")
		w.writeStyledRow(w.headerStyle, "Title", "Description", "Status", "Responsible Person")
		for _, p := range doc.Pending {
			w.writeRow(p.Title, p.Description, p.Status, p.ResponsiblePerson)
		}
		w.blankRow()
	}

	w.writeEscalations(doc.Escalations)

	if len(doc.Meetings) > 0 {
		w.writeSectionTitle("Meetings")
		w.writeStyledRow(w.headerStyle, "Type", "Topic", "Summary", "Next Step", "Participants")
		for _, m := range doc.Meetings {
			w.writeRow(m.MeetingType, m.Topic, m.Summary, m.NextStep, m.Participants)
		}
		w.blankRow()
	}

	if len(doc.CardRequests) > 0 {
		w.writeSectionTitle("Card Requests")
		w.writeStyledRow(w.headerStyle, "Type", "Requested By", "Resolution", "Operator")
		for _, cr := range doc.CardRequests {
			w.writeRow(cr.RequestType, cr.RequestedBy, cr.ResolutionDetails, cr.Operator)
		}
		w.blankRow()
	}

	if len(doc.TicketedIssues) > 0 {
		w.writeSectionTitle("Ticketed Issues")
		w.writeStyledRow(w.headerStyle, "Problem Type", "Description", "Solution", "Posted By", "Operator")
		for _, t := range doc.TicketedIssues {
			w.writeRow(t.ProblemType, t.ProblemDescription, t.SolutionProvided, t.PostedBy, t.Operator)
		}
		w.blankRow()
	}

	return w.finish()
}

// RenderReports writes one or more single-employee projections, each with
// its own header block, into a single workbook.
func (r *ExcelRenderer) RenderReports(projections []*dailyreport.ReportProjection) ([]byte, error) {
	w, err := newSheetWriter()
	if err != nil {
		return nil, err
	}
	defer w.f.Close()

	for i, p := range projections {
		if i > 0 {
			w.blankRow()
			w.blankRow()
		}

		w.writeHeader(p.Header)
		w.writeExceptionTable(p.ExceptionRows)
		w.writeEscalations(p.Escalations)

		if len(p.DailyActivities) > 0 {
			w.writeSectionTitle("Daily Activities")
			w.writeStyledRow(w.headerStyle, "Activity", "Description", "Branch", "Account Number")
			for _, a := range p.DailyActivities {
				w.writeRow(a.ActivityName, a.Description, a.Branch, a.AccountNumber)
			}
		}
	}

	return w.finish()
}

func activityLine(item dailyreport.ActivityItem) string {
	line := item.Description
	if item.Branch != "" {
		line = fmt.Sprintf("%s (Branch: %s", line, item.Branch)
		if item.AccountNumber != "" {
			line += ", A/C: " + item.AccountNumber
		}
		line += ")"
	} else if item.AccountNumber != "" {
		line = fmt.Sprintf("%s (A/C: %s)", line, item.AccountNumber)
	}
	if item.ActionTaken != "" {
		line += " - " + item.ActionTaken
	}
	if item.FinalStatus != "" {
		line += " [" + item.FinalStatus + "]"
	}
	return line
}
