package types

// APIError is the body the store returns for every failed request.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// LoginResult is returned by the store's credential check.
type LoginResult[U any] struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expiresAt"`
	User      U      `json:"user"`
}
