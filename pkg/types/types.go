package types

import "time"

// Conversion records one convert run.
type Conversion struct {
	ID         string    `json:"id"`
	Endpoint   string    `json:"endpoint"`
	OutputPath string    `json:"output_path"`
	Model      string    `json:"model"`
	Status     string    `json:"status"`
	Message    string    `json:"message"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// StageOutput stores the raw model output of one pipeline stage.
type StageOutput struct {
	ConversionID string    `json:"conversion_id"`
	Stage        string    `json:"stage"`
	Status       string    `json:"status"`
	RawOutput    string    `json:"raw_output"`
	Model        string    `json:"model"`
	ErrorMsg     string    `json:"error_msg"`
	CreatedAt    time.Time `json:"created_at"`
}
