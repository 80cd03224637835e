package drives

import (
	"encoding/json"
	"net/http"

	"github.com/drivenas/nasd/codes"
	"github.com/drivenas/nasd/entities"
	"github.com/drivenas/nasd/keys"
)

// RenameRequest specifies the data received by the Rename endpoint.
type RenameRequest struct {
	CurrentPath string `json:"current_path"`
	TargetPath  string `json:"target_path"`
	NewName     string `json:"new_name"`
}

// Rename renames an item to a sibling name.
func (s *svc) Rename(w http.ResponseWriter, r *http.Request) {
	log := keys.MustGetLog(r)
	user := keys.MustGetUser(r)

	req := &RenameRequest{}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		log.WithError(err).Error("cannot decode request")
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	if req.NewName == "" {
		s.writeControl(w, r, http.StatusBadRequest, req.CurrentPath,
			feedback(entities.FeedbackError, "New name cannot be empty."))
		return
	}

	res, err := s.drivesController.Rename(user, req.TargetPath, req.NewName)
	if err != nil {
		s.handleRenameError(err, w, r, req)
		return
	}
	log.WithField("item", res.NewName).Info("item renamed")
	s.writeControl(w, r, http.StatusOK, req.CurrentPath,
		feedback(entities.FeedbackSuccess, "Item successfully renamed from '%s' to '%s'.", res.OldName, res.NewName))
}

func (s *svc) handleRenameError(err error, w http.ResponseWriter, r *http.Request, req *RenameRequest) {
	log := keys.MustGetLog(r)
	switch errCode(err) {
	case codes.Denied:
		s.writeControl(w, r, statusFor(err), req.CurrentPath,
			feedback(entities.FeedbackError, "Permission denied: You cannot modify content in this location."))
	case codes.InvalidName:
		s.writeControl(w, r, statusFor(err), req.CurrentPath,
			feedback(entities.FeedbackError, "New name contains illegal characters (e.g., '..' or starts with '.')."))
	case codes.ConfinementViolation:
		log.WithError(err).Warn("path traversal attempt")
		s.writeControl(w, r, statusFor(err), req.CurrentPath,
			feedback(entities.FeedbackError, "Target path is outside the allowed drive boundary."))
	case codes.AlreadyExists:
		s.writeControl(w, r, statusFor(err), req.CurrentPath,
			feedback(entities.FeedbackError, "An item named '%s' already exists in this location.", req.NewName))
	default:
		log.WithError(err).Error("cannot rename item")
		s.writeControl(w, r, statusFor(err), req.CurrentPath,
			feedback(entities.FeedbackError, "Failed to rename item: '%s'", err))
	}
}
