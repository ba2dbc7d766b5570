package types

// Conversion result statuses.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Result is the outcome of one conversion, printed as JSON by the CLI.
type Result struct {
	Status  string         `json:"status"`
	Message string         `json:"message"`
	Config  map[string]any `json:"config,omitempty"`
}

// ErrorResult wraps an error into an error Result.
func ErrorResult(err error) Result {
	return Result{Status: StatusError, Message: err.Error()}
}
