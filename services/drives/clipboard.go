package drives

import (
	"encoding/json"
	"net/http"

	"github.com/drivenas/nasd/codes"
	"github.com/drivenas/nasd/entities"
	"github.com/drivenas/nasd/keys"
)

// StageRequest specifies the data received by the Copy and Cut endpoints.
type StageRequest struct {
	CurrentPath string   `json:"current_path"`
	Items       []string `json:"items"`
}

// Copy stages the selected items for a later paste that will copy them.
func (s *svc) Copy(w http.ResponseWriter, r *http.Request) {
	s.stage(w, r, entities.OperationCopy)
}

// Cut stages the selected items for a later paste that will move them.
func (s *svc) Cut(w http.ResponseWriter, r *http.Request) {
	s.stage(w, r, entities.OperationCut)
}

func (s *svc) stage(w http.ResponseWriter, r *http.Request, operation entities.Operation) {
	log := keys.MustGetLog(r)
	user := keys.MustGetUser(r)

	req := &StageRequest{}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		log.WithError(err).Error("cannot decode request")
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	count, err := s.drivesController.Stage(user, operation, req.CurrentPath, req.Items)
	if err != nil {
		s.handleStageError(err, w, r, req, operation)
		return
	}
	log.WithField("operation", operation).WithField("count", count).Info("items staged")

	if operation == entities.OperationCut {
		s.writeControl(w, r, http.StatusOK, req.CurrentPath,
			feedback(entities.FeedbackInfo, "Ready to move '%d' item(s). Navigate to the target folder and click Paste.", count))
		return
	}
	s.writeControl(w, r, http.StatusOK, req.CurrentPath,
		feedback(entities.FeedbackInfo, "Ready to copy '%d' item(s). Navigate to the target folder and click Paste.", count))
}

func (s *svc) handleStageError(err error, w http.ResponseWriter, r *http.Request, req *StageRequest, operation entities.Operation) {
	log := keys.MustGetLog(r)
	if errCode(err) == codes.BadInputData {
		verb := "copying"
		if operation == entities.OperationCut {
			verb = "cutting"
		}
		s.writeControl(w, r, http.StatusBadRequest, req.CurrentPath,
			feedback(entities.FeedbackWarning, "No items were selected for %s.", verb))
		return
	}
	log.WithError(err).Error("cannot stage items")
	w.WriteHeader(http.StatusInternalServerError)
}
