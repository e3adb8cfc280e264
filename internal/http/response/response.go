package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"placementcell/internal/common"
)

// ErrorCounter is notified of every 5xx written through Error.
type ErrorCounter interface {
	IncError()
}

var (
	counterMu    sync.RWMutex
	errorCounter ErrorCounter
)

func SetErrorCollector(counter ErrorCounter) {
	counterMu.Lock()
	defer counterMu.Unlock()
	errorCounter = counter
}

type errorBody struct {
	Error   common.Code       `json:"error"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func Error(w http.ResponseWriter, err error) {
	var appErr *common.Error
	if !errors.As(err, &appErr) {
		appErr = common.NewError(common.CodeInternal, "internal error", err)
	}
	status := StatusFor(appErr.Code)
	if status >= http.StatusInternalServerError {
		counterMu.RLock()
		counter := errorCounter
		counterMu.RUnlock()
		if counter != nil {
			counter.IncError()
		}
	}
	message := appErr.Message
	if status >= http.StatusInternalServerError && message == "" {
		message = "internal error"
	}
	JSON(w, status, errorBody{Error: appErr.Code, Message: message, Fields: appErr.Fields})
}

func StatusFor(code common.Code) int {
	switch code {
	case common.CodeValidation:
		return http.StatusBadRequest
	case common.CodeUnauthorized:
		return http.StatusUnauthorized
	case common.CodeForbidden:
		return http.StatusForbidden
	case common.CodeNotFound:
		return http.StatusNotFound
	case common.CodeConflict:
		return http.StatusConflict
	case common.CodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
