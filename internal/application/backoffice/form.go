package backoffice

import (
	"strconv"

	"github.com/erp/backoffice/internal/domain/shared"
)

// FormMode tells whether a session creates a record or edits one
type FormMode string

const (
	FormModeCreate FormMode = "create"
	FormModeEdit   FormMode = "edit"
)

// FormStatus is the lifecycle state of a form session
type FormStatus string

const (
	FormStatusLoading    FormStatus = "loading"
	FormStatusReady      FormStatus = "ready"
	FormStatusSubmitting FormStatus = "submitting"
	FormStatusClosed     FormStatus = "closed"
)

// SubmitStatus is the outcome of a submit attempt
type SubmitStatus string

const (
	SubmitSaved   SubmitStatus = "saved"
	SubmitInvalid SubmitStatus = "invalid"
	SubmitFailed  SubmitStatus = "failed"
)

// SubmitResult reports a submit attempt.
// Errors is set when Status is SubmitInvalid, Err when it is SubmitFailed.
// An invalid pricing submit may also carry the pricing error in Err.
type SubmitResult struct {
	Status   SubmitStatus `json:"status"`
	RecordID int64        `json:"record_id,omitempty"`
	Errors   FieldErrors  `json:"errors,omitempty"`
	Err      error        `json:"-"`
}

// FormHooks are invoked when a session ends. OnSaved runs after the success
// notification and before the draft is reset.
type FormHooks struct {
	OnSaved  func(recordID int64)
	OnCancel func()
}

// Choice is one option of a selection list
type Choice struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Form session errors
var (
	ErrFormClosed     = shared.NewDomainError("FORM_CLOSED", "Form session is closed")
	ErrFormNotReady   = shared.NewDomainError("FORM_NOT_READY", "Form is still loading")
	ErrFormBusy       = shared.NewDomainError("FORM_BUSY", "Form is already being submitted")
	ErrUnknownChoice  = shared.NewDomainError("UNKNOWN_CHOICE", "Selected option is not available")
	ErrNoProduct      = shared.NewDomainError("NO_PRODUCT_SELECTED", "Select a product first")
	ErrEmptyResponse  = shared.NewDomainError("UPSTREAM_ERROR", "Service returned no data")
	ErrSessionExpired = shared.NewDomainError("NOT_FOUND", "Form session not found or expired")
)

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

func parseID(raw string) int64 {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 0 {
		return 0
	}
	return id
}

func containsChoice(choices []Choice, id string) bool {
	for _, c := range choices {
		if c.ID == id {
			return true
		}
	}
	return false
}

func modeFor(recordID *int64) FormMode {
	if recordID != nil {
		return FormModeEdit
	}
	return FormModeCreate
}
