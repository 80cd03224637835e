package drives

import (
	"net/http"

	"github.com/drivenas/nasd/codes"
	"github.com/drivenas/nasd/entities"
	"github.com/drivenas/nasd/keys"
	"github.com/gorilla/mux"
)

// Upload stores the request body as a file in the target directory. The file
// is written to a temporary name and renamed into place, so a partial upload
// is never visible under its final name.
func (s *svc) Upload(w http.ResponseWriter, r *http.Request) {
	log := keys.MustGetLog(r)
	user := keys.MustGetUser(r)

	if r.Body == nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	dirPath := mux.Vars(r)["path"]
	fileName := s.getUploadFileName(r)
	if fileName == "" {
		s.writeControl(w, r, http.StatusBadRequest, dirPath,
			feedback(entities.FeedbackError, "Upload failed: Target directory is invalid or file is missing."))
		return
	}

	readCloser := http.MaxBytesReader(w, r.Body, s.conf.GetDirectives().Storage.UploadMaxFileSize)
	name, err := s.drivesController.Upload(user, dirPath, fileName, readCloser)
	if err != nil {
		s.handleUploadError(err, w, r, dirPath)
		return
	}
	log.WithField("file", name).Info("file uploaded")
	s.writeControl(w, r, http.StatusCreated, dirPath,
		feedback(entities.FeedbackSuccess, "File '%s' uploaded successfully.", name))
}

func (s *svc) getUploadFileName(r *http.Request) string {
	if t := r.Header.Get("filename"); t != "" {
		return t
	}
	return r.URL.Query().Get("filename")
}

func (s *svc) handleUploadError(err error, w http.ResponseWriter, r *http.Request, dirPath string) {
	log := keys.MustGetLog(r)

	if err.Error() == "http: request body too large" {
		log.WithError(err).Error("request body max size exceed")
		w.WriteHeader(http.StatusRequestEntityTooLarge)
		return
	}
	switch errCode(err) {
	case codes.Denied:
		s.writeControl(w, r, statusFor(err), dirPath,
			feedback(entities.FeedbackError, "Permission denied: You cannot modify content in this location."))
	case codes.InvalidName, codes.ConfinementViolation:
		log.WithError(err).Warn("upload escapes the drive boundary")
		s.writeControl(w, r, statusFor(err), dirPath,
			feedback(entities.FeedbackError, "Invalid upload path: Attempted to upload outside the drive boundary."))
	case codes.NotFound:
		s.writeControl(w, r, statusFor(err), dirPath,
			feedback(entities.FeedbackError, "Upload failed: Target directory is invalid or file is missing."))
	default:
		log.WithError(err).Error("cannot save file")
		s.writeControl(w, r, http.StatusInternalServerError, dirPath,
			feedback(entities.FeedbackError, "Failed to save file: '%s'", err))
	}
}
