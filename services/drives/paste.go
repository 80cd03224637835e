package drives

import (
	"encoding/json"
	"net/http"

	"github.com/drivenas/nasd/codes"
	"github.com/drivenas/nasd/entities"
	"github.com/drivenas/nasd/keys"
	"github.com/drivenas/nasd/transfer"
)

// PasteRequest specifies the data received by the Paste endpoint.
type PasteRequest struct {
	CurrentPath string `json:"current_path"`
}

// Paste consumes the staged selection and copies or moves it into the
// current directory. Per-item skips and failures are reported as messages,
// never as a failed request.
func (s *svc) Paste(w http.ResponseWriter, r *http.Request) {
	log := keys.MustGetLog(r)
	user := keys.MustGetUser(r)

	req := &PasteRequest{}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		log.WithError(err).Error("cannot decode request")
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	result, err := s.drivesController.Paste(user, req.CurrentPath)
	if err != nil {
		s.handlePasteError(err, w, r, req)
		return
	}
	log.WithField("operation", result.Operation).
		WithField("success", result.Success).
		WithField("failed", result.Failed).Info("paste finished")

	s.writeControl(w, r, http.StatusOK, req.CurrentPath, pasteMessages(result)...)
}

func pasteMessages(result *transfer.PasteResult) []*entities.Feedback {
	messages := []*entities.Feedback{}
	for _, skipped := range result.Skipped {
		switch skipped.Reason {
		case codes.RecursiveTarget:
			messages = append(messages,
				feedback(entities.FeedbackWarning, "Skipped: Cannot move/copy '%s' into itself or its sub-directory.", skipped.Name))
		case codes.AlreadyExists:
			messages = append(messages,
				feedback(entities.FeedbackWarning, "Skipped: Item named '%s' already exists in the target location.", skipped.Name))
		}
	}

	opName := "copied"
	if result.Operation == entities.OperationCut {
		opName = "moved"
	}
	switch {
	case result.Failed == 0:
		messages = append(messages,
			feedback(entities.FeedbackSuccess, "Successfully '%s' '%d' item(s) to the new location.", opName, result.Success))
	case result.Success > 0:
		messages = append(messages,
			feedback(entities.FeedbackWarning, "'%d' item(s) successfully '%s', but '%d' item(s) failed.", result.Success, opName, result.Failed))
	default:
		messages = append(messages,
			feedback(entities.FeedbackError, "The operation failed for all selected items."))
	}
	return messages
}

func (s *svc) handlePasteError(err error, w http.ResponseWriter, r *http.Request, req *PasteRequest) {
	log := keys.MustGetLog(r)
	switch errCode(err) {
	case codes.NotFound:
		s.writeControl(w, r, statusFor(err), req.CurrentPath,
			feedback(entities.FeedbackError, "No items were selected for paste operation or session expired."))
	case codes.Denied:
		s.writeControl(w, r, statusFor(err), req.CurrentPath,
			feedback(entities.FeedbackError, "Permission denied: You cannot modify content in the target location."))
	case codes.ConfinementViolation:
		log.WithError(err).Warn("path traversal attempt")
		s.writeControl(w, r, statusFor(err), req.CurrentPath,
			feedback(entities.FeedbackError, "Operation denied: Path traversal detected."))
	default:
		log.WithError(err).Error("cannot paste items")
		w.WriteHeader(http.StatusInternalServerError)
	}
}
