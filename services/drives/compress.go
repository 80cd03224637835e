package drives

import (
	"encoding/json"
	"net/http"

	"github.com/drivenas/nasd/archiver"
	"github.com/drivenas/nasd/codes"
	"github.com/drivenas/nasd/entities"
	"github.com/drivenas/nasd/keys"
)

// CompressRequest specifies the data received by the Compress endpoint.
type CompressRequest struct {
	CurrentPath string   `json:"current_path"`
	Items       []string `json:"items"`
}

// Compress packs the selected items into a new zip archive in the current
// directory.
func (s *svc) Compress(w http.ResponseWriter, r *http.Request) {
	log := keys.MustGetLog(r)
	user := keys.MustGetUser(r)

	req := &CompressRequest{}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		log.WithError(err).Error("cannot decode request")
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	if len(req.Items) == 0 {
		s.writeControl(w, r, http.StatusBadRequest, req.CurrentPath,
			feedback(entities.FeedbackWarning, "No valid files or folders were selected for compression."))
		return
	}

	result, err := s.drivesController.Compress(user, req.CurrentPath, req.Items)
	if err != nil {
		s.handleCompressError(err, w, r, req)
		return
	}
	log.WithField("archive", result.ArchiveName).Info("items compressed")
	s.writeControl(w, r, http.StatusOK, req.CurrentPath,
		feedback(entities.FeedbackSuccess, "Successfully compressed %d item(s) into '%s'.", result.Selected, result.ArchiveName))
}

func (s *svc) handleCompressError(err error, w http.ResponseWriter, r *http.Request, req *CompressRequest) {
	log := keys.MustGetLog(r)

	if err == archiver.ErrNothingCompressed {
		s.writeControl(w, r, http.StatusBadRequest, req.CurrentPath,
			feedback(entities.FeedbackWarning, "No valid files or folders were found to compress."))
		return
	}
	switch errCode(err) {
	case codes.Denied:
		s.writeControl(w, r, statusFor(err), req.CurrentPath,
			feedback(entities.FeedbackError, "Permission denied: You cannot modify content in this location."))
	case codes.ConfinementViolation:
		log.WithError(err).Warn("path traversal attempt")
		s.writeControl(w, r, statusFor(err), req.CurrentPath,
			feedback(entities.FeedbackError, "Operation denied: Path traversal detected."))
	default:
		log.WithError(err).Error("cannot compress items")
		s.writeControl(w, r, http.StatusInternalServerError, req.CurrentPath,
			feedback(entities.FeedbackError, "Compression failed: '%s'", err))
	}
}
