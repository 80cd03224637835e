package authentication

import (
	"encoding/json"
	"net/http"

	"github.com/drivenas/nasd/codes"
	"github.com/drivenas/nasd/keys"
)

type (
	// TokenRequest specifies the data received by the Token endpoint.
	TokenRequest struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	// TokenResponse specifies the data returned from the Token endpoint.
	TokenResponse struct {
		AccessToken string `json:"access_token"`
	}
)

// Token exchanges a username and password for a signed access token. The
// drives service accepts the token as a Bearer header or an access_token
// query parameter.
func (s *svc) Token(w http.ResponseWriter, r *http.Request) {
	log := keys.MustGetLog(r)

	authReq := &TokenRequest{}
	if r.Body == nil || json.NewDecoder(r.Body).Decode(authReq) != nil {
		e := codes.NewErr(codes.BadInputData, "token request body is not valid JSON")
		log.WithError(e).Error("cannot decode token request")
		w.WriteHeader(http.StatusBadRequest)
		if err := json.NewEncoder(w).Encode(e); err != nil {
			log.WithError(err).Error("cannot encode")
		}
		return
	}

	token, err := s.authenticationController.Authenticate(authReq.Username, authReq.Password)
	if err != nil {
		s.handleTokenError(err, w, r)
		return
	}
	log.WithField("user", authReq.Username).Info("token generated")

	res := &TokenResponse{AccessToken: token}
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(res); err != nil {
		log.WithError(err).Error("cannot encode")
	}
}

// handleTokenError answers every authentication failure the same way, so the
// response does not reveal whether the username exists.
func (s *svc) handleTokenError(err error, w http.ResponseWriter, r *http.Request) {
	log := keys.MustGetLog(r)
	e := codes.NewErr(codes.BadAuthenticationData, "invalid username or password")
	log.WithError(err).Warn("authentication rejected")
	w.WriteHeader(http.StatusBadRequest)
	if err := json.NewEncoder(w).Encode(e); err != nil {
		log.WithError(err).Error("cannot encode")
	}
}
