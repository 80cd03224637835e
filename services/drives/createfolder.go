package drives

import (
	"encoding/json"
	"net/http"
	"path"

	"github.com/drivenas/nasd/codes"
	"github.com/drivenas/nasd/entities"
	"github.com/drivenas/nasd/helpers"
	"github.com/drivenas/nasd/keys"
)

// CreateFolderRequest specifies the data received by the CreateFolder endpoint.
type CreateFolderRequest struct {
	CurrentPath string `json:"current_path"`
	FolderName  string `json:"folder_name"`
}

// CreateFolder creates one folder under the current directory.
func (s *svc) CreateFolder(w http.ResponseWriter, r *http.Request) {
	log := keys.MustGetLog(r)
	user := keys.MustGetUser(r)

	req := &CreateFolderRequest{}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		log.WithError(err).Error("cannot decode request")
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	if err := s.drivesController.CreateFolder(user, req.CurrentPath, req.FolderName); err != nil {
		s.handleCreateFolderError(err, w, r, req)
		return
	}

	location := req.FolderName
	if decoded, err := helpers.DecodePath(req.CurrentPath); err == nil {
		location = path.Join(decoded, req.FolderName)
	}
	log.WithField("folder", location).Info("folder created")
	s.writeControl(w, r, http.StatusOK, req.CurrentPath,
		feedback(entities.FeedbackSuccess, "Folder '%s' created successfully at: '%s'", req.FolderName, location))
}

func (s *svc) handleCreateFolderError(err error, w http.ResponseWriter, r *http.Request, req *CreateFolderRequest) {
	log := keys.MustGetLog(r)
	switch errCode(err) {
	case codes.InvalidName:
		s.writeControl(w, r, statusFor(err), req.CurrentPath,
			feedback(entities.FeedbackError, "Invalid folder name."))
	case codes.ConfinementViolation:
		log.WithError(err).Warn("path traversal attempt")
		s.writeControl(w, r, statusFor(err), req.CurrentPath,
			feedback(entities.FeedbackError, "Operation denied: Path traversal detected."))
	case codes.Denied:
		s.writeControl(w, r, statusFor(err), req.CurrentPath,
			feedback(entities.FeedbackError, "Permission denied: You cannot create a folder in this location."))
	case codes.AlreadyExists:
		s.writeControl(w, r, statusFor(err), req.CurrentPath,
			feedback(entities.FeedbackError, "A folder named '%s' already exists.", req.FolderName))
	default:
		log.WithError(err).Error("cannot create folder")
		s.writeControl(w, r, http.StatusInternalServerError, req.CurrentPath,
			feedback(entities.FeedbackError, "Failed to create folder: '%s'", err))
	}
}
