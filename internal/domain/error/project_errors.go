package error

import "errors"

// Project, tranche, subscription and schedule domain errors.
var (
	// ErrProjectNotFound is returned when a project is not found.
	ErrProjectNotFound = errors.New("project not found")

	// ErrInvalidProjectName is returned when the project name is empty or too long.
	ErrInvalidProjectName = errors.New("invalid project name")

	// ErrTrancheNotFound is returned when a tranche is not found.
	ErrTrancheNotFound = errors.New("tranche not found")

	// ErrInvalidTrancheName is returned when the tranche name is empty or too long.
	ErrInvalidTrancheName = errors.New("invalid tranche name")

	// ErrInvalidRate is returned when the annual rate is outside (0, 100].
	ErrInvalidRate = errors.New("invalid annual rate")

	// ErrInvalidPeriodicity is returned when the coupon periodicity is unknown.
	ErrInvalidPeriodicity = errors.New("invalid periodicity")

	// ErrInvalidDuration is returned when the duration is not a positive multiple of the period.
	ErrInvalidDuration = errors.New("invalid duration")

	// ErrInvalidIssueDate is returned when the issue date is missing or malformed.
	ErrInvalidIssueDate = errors.New("invalid issue date")

	// ErrInvalidAmount is returned when an amount is zero or negative.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInvalidInvestorType is returned when the investor type is unknown.
	ErrInvalidInvestorType = errors.New("invalid investor type")

	// ErrInvalidInvestorName is returned when the investor has no usable name.
	ErrInvalidInvestorName = errors.New("invalid investor name")

	// ErrInvalidInvestorEmail is returned when the investor email is malformed.
	ErrInvalidInvestorEmail = errors.New("invalid investor email")

	// ErrScheduleAlreadyExists is returned when a schedule was already generated for the tranche.
	ErrScheduleAlreadyExists = errors.New("schedule already generated")

	// ErrScheduleNotGenerated is returned when a tranche has no schedule yet.
	ErrScheduleNotGenerated = errors.New("schedule not generated")

	// ErrNoSubscriptions is returned when a schedule is requested for a tranche without subscriptions.
	ErrNoSubscriptions = errors.New("tranche has no subscriptions")

	// ErrScheduleExportFailed is returned when the schedule workbook cannot be written.
	ErrScheduleExportFailed = errors.New("failed to export schedule")
)

// ProjectErrorCode defines error codes for project errors.
// Format: PRJ-XXYYYY where XX is category and YYYY is specific error.
type ProjectErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeInvalidProjectName   ProjectErrorCode = "PRJ-010001"
	ErrCodeInvalidTrancheName   ProjectErrorCode = "PRJ-010002"
	ErrCodeInvalidRate          ProjectErrorCode = "PRJ-010003"
	ErrCodeInvalidPeriodicity   ProjectErrorCode = "PRJ-010004"
	ErrCodeInvalidDuration      ProjectErrorCode = "PRJ-010005"
	ErrCodeInvalidIssueDate     ProjectErrorCode = "PRJ-010006"
	ErrCodeInvalidAmount        ProjectErrorCode = "PRJ-010007"
	ErrCodeInvalidInvestorType  ProjectErrorCode = "PRJ-010008"
	ErrCodeInvalidInvestorName  ProjectErrorCode = "PRJ-010009"
	ErrCodeInvalidInvestorEmail ProjectErrorCode = "PRJ-010010"
	ErrCodeMissingProjectFields ProjectErrorCode = "PRJ-010011"

	// Not found errors (02XXXX)
	ErrCodeProjectNotFound ProjectErrorCode = "PRJ-020001"
	ErrCodeTrancheNotFound ProjectErrorCode = "PRJ-020002"

	// State errors (03XXXX)
	ErrCodeScheduleAlreadyExists ProjectErrorCode = "PRJ-030001"
	ErrCodeScheduleNotGenerated  ProjectErrorCode = "PRJ-030002"
	ErrCodeNoSubscriptions       ProjectErrorCode = "PRJ-030003"

	// Export errors (04XXXX)
	ErrCodeScheduleExportFailed ProjectErrorCode = "PRJ-040001"
)

// ProjectError represents a project error with code and message.
type ProjectError struct {
	Code    ProjectErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ProjectError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *ProjectError) Unwrap() error {
	return e.Err
}

// NewProjectError creates a new ProjectError with the given code and message.
func NewProjectError(code ProjectErrorCode, message string, err error) *ProjectError {
	return &ProjectError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
