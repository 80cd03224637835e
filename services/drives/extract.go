package drives

import (
	"encoding/json"
	"net/http"
	"path"

	"github.com/drivenas/nasd/archiver"
	"github.com/drivenas/nasd/codes"
	"github.com/drivenas/nasd/entities"
	"github.com/drivenas/nasd/helpers"
	"github.com/drivenas/nasd/keys"
)

// ExtractRequest specifies the data received by the Extract endpoint.
type ExtractRequest struct {
	CurrentPath string `json:"current_path"`
	ZipPath     string `json:"zip_path"`
}

// Extract unpacks a zip archive into the current directory.
func (s *svc) Extract(w http.ResponseWriter, r *http.Request) {
	log := keys.MustGetLog(r)
	user := keys.MustGetUser(r)

	req := &ExtractRequest{}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		log.WithError(err).Error("cannot decode request")
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	result, err := s.drivesController.Extract(user, req.CurrentPath, req.ZipPath)
	if err != nil {
		s.handleExtractError(err, w, r, req)
		return
	}
	log.WithField("entries", result.Entries).Info("archive extracted")

	if result.Entries == 0 {
		s.writeControl(w, r, http.StatusOK, req.CurrentPath,
			feedback(entities.FeedbackWarning, "The ZIP file was successfully read but contained no files."))
		return
	}

	zipName := req.ZipPath
	if decoded, decodeErr := helpers.DecodePath(req.ZipPath); decodeErr == nil {
		zipName = path.Base(decoded)
	}
	s.writeControl(w, r, http.StatusOK, req.CurrentPath,
		feedback(entities.FeedbackSuccess, "Successfully extracted '%d' files/folders from '%s' into the folder: %s.",
			result.Entries, zipName, result.TopLevel))
}

func (s *svc) handleExtractError(err error, w http.ResponseWriter, r *http.Request, req *ExtractRequest) {
	log := keys.MustGetLog(r)

	if err == archiver.ErrWriteDenied {
		log.WithError(err).Error("filesystem refused extracted files")
		s.writeControl(w, r, http.StatusForbidden, req.CurrentPath,
			feedback(entities.FeedbackError, "Extraction failed due to insufficient file system permissions. The server cannot write to this location."))
		return
	}
	switch errCode(err) {
	case codes.Denied:
		s.writeControl(w, r, statusFor(err), req.CurrentPath,
			feedback(entities.FeedbackError, "Permission denied: You cannot modify content in this location."))
	case codes.BadInputData, codes.NotFound:
		s.writeControl(w, r, statusFor(err), req.CurrentPath,
			feedback(entities.FeedbackError, "The specified file is not a valid ZIP archive or does not exist."))
	case codes.CorruptArchive:
		s.writeControl(w, r, http.StatusBadRequest, req.CurrentPath,
			feedback(entities.FeedbackError, "Extraction failed: The ZIP file is corrupted or not a valid archive."))
	case codes.ConfinementViolation:
		log.WithError(err).Warn("archive entry escapes the destination")
		s.writeControl(w, r, http.StatusForbidden, req.CurrentPath,
			feedback(entities.FeedbackError, "Operation denied: Path traversal detected."))
	default:
		log.WithError(err).Error("cannot extract archive")
		s.writeControl(w, r, http.StatusInternalServerError, req.CurrentPath,
			feedback(entities.FeedbackError, "An unknown error occurred during extraction: %s", err))
	}
}
