package drives

import (
	"fmt"
	"net/http"
	"path"

	"github.com/drivenas/nasd/codes"
	"github.com/drivenas/nasd/helpers"
	"github.com/drivenas/nasd/keys"
	"github.com/gorilla/mux"
)

// DownloadFolder streams a whole folder as a zip archive. Entries are
// written straight to the response, so large folders never touch memory
// or disk as an intermediate archive.
func (s *svc) DownloadFolder(w http.ResponseWriter, r *http.Request) {
	log := keys.MustGetLog(r)
	user := keys.MustGetUser(r)

	encodedPath := mux.Vars(r)["path"]
	name := "folder"
	if decoded, err := helpers.DecodePath(encodedPath); err == nil && decoded != "" {
		name = path.Base(decoded)
	}

	w.Header().Add("X-Content-Type-Options", "nosniff")
	w.Header().Add("Content-Type", "application/zip")
	w.Header().Add("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name+".zip"))

	if _, err := s.drivesController.DownloadFolder(user, encodedPath, w); err != nil {
		s.handleDownloadFolderError(err, w, r)
		return
	}
	log.WithField("folder", name).Info("folder archive streamed")
}

func (s *svc) handleDownloadFolderError(err error, w http.ResponseWriter, r *http.Request) {
	log := keys.MustGetLog(r)
	w.Header().Del("Content-Type")
	w.Header().Del("Content-Disposition")
	switch errCode(err) {
	case codes.Denied:
		log.WithError(err).Warn("folder download denied")
		http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
	case codes.NotFound, codes.BadInputData, codes.ConfinementViolation:
		log.WithError(err).Warn("invalid folder download path")
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
	default:
		log.WithError(err).Error("cannot stream folder archive")
		w.WriteHeader(http.StatusInternalServerError)
	}
}
