package domain

// ReportResult is the success descriptor of one report generation.
type ReportResult struct {
	Message      string `json:"message"`
	DownloadLink string `json:"download_link"`
	// Path is the file written on disk; it never leaves the process.
	Path string `json:"-"`
}

// ErrorDescriptor is the failure descriptor returned to callers.
type ErrorDescriptor struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// NewErrorDescriptor builds a descriptor from err.
func NewErrorDescriptor(err error) ErrorDescriptor {
	return ErrorDescriptor{Message: err.Error(), Code: ErrorCode(err)}
}

// ReportCreatedMessage is the message of a successful generation.
const ReportCreatedMessage = "Отчет создан"
