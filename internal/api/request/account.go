package request

// CredentialsRequest is the body of POST /api/account (signup) and POST /api/session (login).
type CredentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
