package drives

import (
	"encoding/json"
	"net/http"

	"github.com/drivenas/nasd/codes"
	"github.com/drivenas/nasd/entities"
	"github.com/drivenas/nasd/helpers"
	"github.com/drivenas/nasd/keys"
)

// DeleteRequest specifies the data received by the Delete endpoint.
type DeleteRequest struct {
	CurrentPath string `json:"current_path"`
	TargetPath  string `json:"target_path"`
}

// Delete removes a file or a whole folder.
func (s *svc) Delete(w http.ResponseWriter, r *http.Request) {
	log := keys.MustGetLog(r)
	user := keys.MustGetUser(r)

	req := &DeleteRequest{}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		log.WithError(err).Error("cannot decode request")
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	res, err := s.drivesController.Delete(user, req.TargetPath)
	if err != nil {
		s.handleDeleteError(err, w, r, req)
		return
	}
	log.WithField("item", res.Name).Info("item deleted")

	if res.IsDir {
		s.writeControl(w, r, http.StatusOK, req.CurrentPath,
			feedback(entities.FeedbackSuccess, "Folder '%s' and its contents deleted successfully.", res.Name))
		return
	}
	s.writeControl(w, r, http.StatusOK, req.CurrentPath,
		feedback(entities.FeedbackSuccess, "File '%s' deleted successfully.", res.Name))
}

func (s *svc) handleDeleteError(err error, w http.ResponseWriter, r *http.Request, req *DeleteRequest) {
	log := keys.MustGetLog(r)
	switch errCode(err) {
	case codes.Denied:
		s.writeControl(w, r, statusFor(err), req.CurrentPath,
			feedback(entities.FeedbackError, "Permission denied: You cannot modify content in this location."))
	case codes.ForbiddenTarget, codes.ConfinementViolation:
		log.WithError(err).Warn("forbidden delete target")
		s.writeControl(w, r, statusFor(err), req.CurrentPath,
			feedback(entities.FeedbackError, "Deletion of the root directory or outside boundary is not allowed."))
	case codes.NotFound:
		decoded, decodeErr := helpers.DecodePath(req.TargetPath)
		if decodeErr != nil {
			decoded = req.TargetPath
		}
		s.writeControl(w, r, statusFor(err), req.CurrentPath,
			feedback(entities.FeedbackWarning, "Item at '%s' does not exist or is not a file/directory.", decoded))
	default:
		log.WithError(err).Error("cannot delete item")
		s.writeControl(w, r, http.StatusInternalServerError, req.CurrentPath,
			feedback(entities.FeedbackError, "Failed to delete item: '%s'", err))
	}
}
