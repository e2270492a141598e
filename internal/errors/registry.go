package errors

import (
	"net/http"
	"sort"
)

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
	Status   int
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Config Errors (T001-T009)
	// ============================================

	"T001": {
		Category: CategoryConfig,
		Message:  "Invalid configuration",
		Detail:   "A configuration value is out of range or malformed.",
		Status:   http.StatusInternalServerError,
	},
	"T002": {
		Category: CategoryConfig,
		Message:  "Configuration could not be read",
		Detail:   "The configuration file exists but could not be read or parsed as JSON.",
		Status:   http.StatusInternalServerError,
	},

	// ============================================
	// Request and State Errors (T010-T019)
	// ============================================

	"T010": {
		Category: CategoryValidation,
		Message:  "Bad request",
		Detail:   "A request parameter is missing or malformed.",
		Status:   http.StatusBadRequest,
	},
	"T011": {
		Category: CategoryState,
		Message:  "Counter not found",
		Detail:   "No counter with the requested id exists on the board.",
		Status:   http.StatusNotFound,
	},
	"T012": {
		Category: CategoryState,
		Message:  "Board closed",
		Detail:   "The board has been closed and no longer accepts changes.",
		Status:   http.StatusServiceUnavailable,
	},

	// ============================================
	// Server Errors (T020-T029)
	// ============================================

	"T020": {
		Category: CategoryServer,
		Message:  "Server failed to start",
		Detail:   "The HTTP listener could not be started.",
		Status:   http.StatusInternalServerError,
	},
	"T021": {
		Category: CategoryServer,
		Message:  "Internal error",
		Detail:   "An unexpected failure occurred while handling the request.",
		Status:   http.StatusInternalServerError,
	},
}

// GetAllCodes returns all registered error codes in sorted order.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}
