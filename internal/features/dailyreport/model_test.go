package dailyreport

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestSubmitRequiresCbsTimes(t *testing.T) {
	r := &DailyReport{
		Status:         StatusDraft,
		TeamActivities: []TeamActivity{{Description: "EOD batch"}},
	}

	err := r.Submit(time.Now())
	require.Error(t, err)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "CBS Start/End Time is required", ve.Msg)
	assert.Equal(t, StatusDraft, r.Status)
}

func TestSubmitRequiresTeamActivity(t *testing.T) {
	r := &DailyReport{
		Status:              StatusDraft,
		CbsEndTime:          "17:30",
		CbsStartTimeNextDay: "08:00",
	}

	err := r.Submit(time.Now())
	require.Error(t, err)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "At least one CBS Team Activity is required", ve.Msg)
}

func TestSubmitMovesToSubmitted(t *testing.T) {
	now := time.Now()
	r := &DailyReport{
		Status:              StatusDraft,
		CbsEndTime:          "17:30",
		CbsStartTimeNextDay: "08:00",
		TeamActivities:      []TeamActivity{{Description: "EOD batch"}},
	}

	require.NoError(t, r.Submit(now))
	assert.Equal(t, StatusSubmitted, r.Status)
	assert.Equal(t, now, r.UpdatedAt)
}

func TestResubmitAfterReturnForCorrection(t *testing.T) {
	r := &DailyReport{
		Status:              StatusReturnedForCorrection,
		CbsEndTime:          "17:30",
		CbsStartTimeNextDay: "08:00",
		TeamActivities:      []TeamActivity{{Description: "fix applied"}},
	}

	require.NoError(t, r.Submit(time.Now()))
	assert.Equal(t, StatusSubmitted, r.Status)
}

func TestApplyEditInvalidatesApproval(t *testing.T) {
	endTime := "18:00"
	r := &DailyReport{
		Status:              StatusApproved,
		CbsEndTime:          "17:30",
		CbsStartTimeNextDay: "08:00",
	}

	r.ApplyEdit(&UpdateReportRequest{CbsEndTime: &endTime}, time.Now())

	assert.Equal(t, StatusSubmitted, r.Status, "editing an approved report must force re-review")
	assert.Equal(t, "18:00", r.CbsEndTime)
}

func TestApplyEditKeepsNonApprovedStatus(t *testing.T) {
	for _, status := range []ReportStatus{StatusDraft, StatusSubmitted, StatusRejected, StatusReturnedForCorrection} {
		r := &DailyReport{Status: status}
		r.ApplyEdit(&UpdateReportRequest{}, time.Now())
		assert.Equal(t, status, r.Status)
	}
}

func TestApplyEditReplacesSections(t *testing.T) {
	r := &DailyReport{
		Status: StatusDraft,
		TeamActivities: []TeamActivity{
			{Description: "old activity one"},
			{Description: "old activity two"},
		},
		Meetings: []Meeting{{Topic: "standup"}},
	}

	req := &UpdateReportRequest{}
	req.TeamActivities = []TeamActivity{{Description: "replacement"}}
	r.ApplyEdit(req, time.Now())

	require.Len(t, r.TeamActivities, 1)
	assert.Equal(t, "replacement", r.TeamActivities[0].Description)
	assert.Empty(t, r.Meetings, "sections absent from the request are cleared, not merged")
}

func TestReviewRejectsNonDecisionStatus(t *testing.T) {
	r := &DailyReport{Status: StatusSubmitted}

	err := r.Review(primitive.NewObjectID(), "Supervisor", StatusDraft, "", time.Now())
	require.Error(t, err)

	var ve *ValidationError
	assert.ErrorAs(t, err, &ve)
	assert.Equal(t, StatusSubmitted, r.Status)
}

func TestReviewRecordsDecision(t *testing.T) {
	reviewerID := primitive.NewObjectID()
	now := time.Now()
	r := &DailyReport{Status: StatusSubmitted}

	require.NoError(t, r.Review(reviewerID, "Supervisor", StatusReturnedForCorrection, "missing branch codes", now))

	assert.Equal(t, StatusReturnedForCorrection, r.Status)
	assert.Equal(t, reviewerID, r.ReviewedByID)
	assert.Equal(t, "Supervisor", r.ReviewedByName)
	assert.Equal(t, "missing branch codes", r.ReviewComments)
	require.NotNil(t, r.ReviewedAt)
	assert.Equal(t, now, *r.ReviewedAt)
}

func TestBusinessDayTruncatesToUTCMidnight(t *testing.T) {
	loc := time.FixedZone("AFT", 4*3600+1800)
	in := time.Date(2025, 3, 9, 16, 45, 12, 999, loc)

	got := BusinessDay(in)

	assert.Equal(t, time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC), got)
	assert.Equal(t, time.UTC, got.Location())
}

func TestIsReviewDecision(t *testing.T) {
	assert.True(t, StatusApproved.IsReviewDecision())
	assert.True(t, StatusRejected.IsReviewDecision())
	assert.True(t, StatusReturnedForCorrection.IsReviewDecision())
	assert.False(t, StatusDraft.IsReviewDecision())
	assert.False(t, StatusSubmitted.IsReviewDecision())
}
