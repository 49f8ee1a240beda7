package dailyreport

import "errors"

var (
	ErrReportNotFound   = errors.New("report not found")
	ErrEmployeeNotFound = errors.New("employee not found")
	ErrDuplicateReport  = errors.New("report already exists for this business date")
	ErrPermissionDenied = errors.New("permission denied")
)

// ValidationError reports an unmet precondition on a report operation
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}
