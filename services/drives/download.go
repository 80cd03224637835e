package drives

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/drivenas/nasd/codes"
	"github.com/drivenas/nasd/keys"
	"github.com/gorilla/mux"
)

// Download streams a file to the client.
func (s *svc) Download(w http.ResponseWriter, r *http.Request) {
	log := keys.MustGetLog(r)
	user := keys.MustGetUser(r)

	path := mux.Vars(r)["path"]
	stream, err := s.drivesController.Download(user, path)
	if err != nil {
		s.handleDownloadError(err, w, r)
		return
	}
	defer stream.ReadCloser.Close()

	// add security headers
	w.Header().Add("X-Content-Type-Options", "nosniff")
	w.Header().Add("Content-Type", stream.MimeType)
	w.Header().Add("Content-Length", strconv.FormatInt(stream.Size, 10))
	w.Header().Add("Content-Disposition", fmt.Sprintf("attachment; filename=%q", stream.Name))
	if _, err := io.Copy(w, stream.ReadCloser); err != nil {
		log.WithError(err).Error("cannot write response body")
	}
}

func (s *svc) handleDownloadError(err error, w http.ResponseWriter, r *http.Request) {
	log := keys.MustGetLog(r)
	switch errCode(err) {
	case codes.NotFound:
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
	case codes.Denied, codes.ConfinementViolation:
		log.WithError(err).Warn("download denied")
		http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
	case codes.BadInputData:
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
	default:
		log.WithError(err).Error("cannot download file")
		w.WriteHeader(http.StatusInternalServerError)
	}
}
