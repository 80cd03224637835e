package drives

import (
	"encoding/json"
	"net/http"

	"github.com/drivenas/nasd/codes"
	"github.com/drivenas/nasd/keys"
	"github.com/gorilla/mux"
)

// List returns the content of a directory prepared for display: directories
// first, both groups alphabetically, dotfiles and foreign dedicated folders
// filtered out.
func (s *svc) List(w http.ResponseWriter, r *http.Request) {
	log := keys.MustGetLog(r)
	user := keys.MustGetUser(r)

	path := mux.Vars(r)["path"]
	res, err := s.drivesController.List(user, path)
	if err != nil {
		s.handleListError(err, w, r)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(res); err != nil {
		log.WithError(err).Error("cannot encode")
	}
}

func (s *svc) handleListError(err error, w http.ResponseWriter, r *http.Request) {
	log := keys.MustGetLog(r)
	switch errCode(err) {
	case codes.Denied:
		log.WithError(err).Warn("listing denied")
		s.writeControl(w, r, http.StatusForbidden, "",
			feedback("error", "Access denied: You do not have permission to view this content."))
	case codes.NotFound, codes.BadInputData, codes.ConfinementViolation:
		log.WithError(err).Warn("invalid listing path")
		s.writeControl(w, r, statusFor(err), "",
			feedback("error", "Invalid path provided. Redirected to root."))
	default:
		log.WithError(err).Error("cannot list directory")
		w.WriteHeader(http.StatusInternalServerError)
	}
}
