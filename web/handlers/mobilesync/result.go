package mobilesync

import "net/http"

// Error kinds carried back to the mobile client. The client uses the kind
// to decide between fix-and-retry, drop, and retry-later.
const (
	ErrValidation       = "VALIDATION_ERROR"
	ErrNotFound         = "NOT_FOUND"
	ErrServer           = "SERVER_ERROR"
	ErrCloudinary       = "CLOUDINARY_ERROR"
	ErrMissingReference = "MISSING_REFERENCE"
	ErrEmptyUpdate      = "EMPTY_UPDATE"
)

// Result is the one return type every handler operation produces. The
// route layer renders it without per-table branching.
type Result struct {
	Success bool   `json:"success"`
	Status  int    `json:"-"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

// SkippedItem reports one batch element that was excluded from the bulk
// write without failing the rest of the batch.
type SkippedItem struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
	Code   string `json:"code"`
}

func SuccessResult(data any) Result {
	return Result{Success: true, Status: http.StatusOK, Data: data}
}

func ValidationError(message string) Result {
	return Result{Status: http.StatusBadRequest, Error: ErrValidation, Message: message}
}

func NotFoundError(message string) Result {
	return Result{Status: http.StatusNotFound, Error: ErrNotFound, Message: message}
}

func ServerError(message string) Result {
	return Result{Status: http.StatusInternalServerError, Error: ErrServer, Message: message}
}

// CloudinaryError is raised only by the photo delete path when the blob
// store refuses to release the asset.
func CloudinaryError(message string) Result {
	return Result{Status: http.StatusInternalServerError, Error: ErrCloudinary, Message: message}
}
