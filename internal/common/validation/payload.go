// internal/common/validation/payload.go
package validation

// FieldError describes one missing or invalid payload field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// Result collects the validation outcome for one inbound payload. A failed
// result is a local-recovery path for handlers, never a fault.
type Result struct {
	Errors []FieldError `json:"errors,omitempty"`
}

func (r *Result) Valid() bool {
	return len(r.Errors) == 0
}

// AddMissing records a required field that is absent from the payload.
func (r *Result) AddMissing(field string) {
	r.Errors = append(r.Errors, FieldError{
		Field:   field,
		Message: "required field missing",
		Code:    "REQUIRED_FIELD_MISSING",
	})
}

// AddInvalid records a field that is present but unusable.
func (r *Result) AddInvalid(field, message string) {
	r.Errors = append(r.Errors, FieldError{
		Field:   field,
		Message: message,
		Code:    "INVALID_VALUE",
	})
}

// Fields returns the offending field names, for structured logging.
func (r *Result) Fields() []string {
	out := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		out = append(out, e.Field)
	}
	return out
}
