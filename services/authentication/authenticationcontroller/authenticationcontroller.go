package authenticationcontroller

// AuthenticationController is the interface authentication controllers
// must implement to issue tokens from user credentials.
type AuthenticationController interface {
	Authenticate(username, password string) (string, error)
}
