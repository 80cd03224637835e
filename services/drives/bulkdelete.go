package drives

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/drivenas/nasd/codes"
	"github.com/drivenas/nasd/entities"
	"github.com/drivenas/nasd/keys"
)

// BulkDeleteRequest specifies the data received by the BulkDelete endpoint.
type BulkDeleteRequest struct {
	CurrentPath string   `json:"current_path"`
	Items       []string `json:"items"`
}

// BulkDelete deletes every selected item independently. A failing item never
// stops the rest; failures come back as a message naming the first of them.
func (s *svc) BulkDelete(w http.ResponseWriter, r *http.Request) {
	log := keys.MustGetLog(r)
	user := keys.MustGetUser(r)

	req := &BulkDeleteRequest{}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		log.WithError(err).Error("cannot decode request")
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	result, err := s.drivesController.BulkDelete(user, req.CurrentPath, req.Items)
	if err != nil {
		s.handleBulkDeleteError(err, w, r, req)
		return
	}
	log.WithField("deleted", result.Deleted).
		WithField("failed", len(result.Failed)).Info("bulk delete finished")

	messages := []*entities.Feedback{}
	if result.Deleted > 0 {
		messages = append(messages,
			feedback(entities.FeedbackSuccess, "Successfully deleted '%d' item(s).", result.Deleted))
	}
	if len(result.Failed) > 0 {
		failed := result.Failed
		if len(failed) > 5 {
			failed = failed[:5]
		}
		messages = append(messages,
			feedback(entities.FeedbackError, "Failed to delete the following items: '%s'", strings.Join(failed, ", ")))
	}
	s.writeControl(w, r, http.StatusOK, req.CurrentPath, messages...)
}

func (s *svc) handleBulkDeleteError(err error, w http.ResponseWriter, r *http.Request, req *BulkDeleteRequest) {
	log := keys.MustGetLog(r)
	switch errCode(err) {
	case codes.BadInputData:
		s.writeControl(w, r, statusFor(err), req.CurrentPath,
			feedback(entities.FeedbackWarning, "No items were selected for deletion."))
	case codes.Denied:
		s.writeControl(w, r, statusFor(err), req.CurrentPath,
			feedback(entities.FeedbackError, "Permission denied: You cannot modify content in this location."))
	case codes.ConfinementViolation:
		log.WithError(err).Warn("path traversal attempt")
		s.writeControl(w, r, statusFor(err), req.CurrentPath,
			feedback(entities.FeedbackError, "Operation denied: Path traversal detected."))
	default:
		log.WithError(err).Error("cannot bulk delete items")
		w.WriteHeader(http.StatusInternalServerError)
	}
}
