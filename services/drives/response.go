package drives

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/drivenas/nasd/codes"
	"github.com/drivenas/nasd/entities"
	"github.com/drivenas/nasd/keys"
)

// ControlResponse is the body of every mutating endpoint: where the client
// should navigate next and what to tell the user. The UI never receives
// raw errors.
type ControlResponse struct {
	Redirect string               `json:"redirect"`
	Messages []*entities.Feedback `json:"messages"`
}

func feedback(level entities.FeedbackLevel, format string, args ...interface{}) *entities.Feedback {
	return &entities.Feedback{Level: level, Text: fmt.Sprintf(format, args...)}
}

func (s *svc) writeControl(w http.ResponseWriter, r *http.Request, status int, redirect string, messages ...*entities.Feedback) {
	log := keys.MustGetLog(r)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	res := &ControlResponse{Redirect: redirect, Messages: messages}
	if err := json.NewEncoder(w).Encode(res); err != nil {
		log.WithError(err).Error("cannot encode")
	}
}

// errCode extracts the operation code, Internal for foreign errors.
func errCode(err error) codes.Code {
	if codeErr, ok := err.(*codes.Err); ok {
		return codeErr.Code
	}
	return codes.Internal
}

// statusFor maps operation codes to HTTP statuses.
func statusFor(err error) int {
	switch errCode(err) {
	case codes.Denied, codes.ConfinementViolation, codes.ForbiddenTarget:
		return http.StatusForbidden
	case codes.NotFound:
		return http.StatusNotFound
	case codes.BadInputData, codes.InvalidName, codes.AlreadyExists,
		codes.RecursiveTarget, codes.CorruptArchive:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
