package errors

import (
	"fmt"
	"net/http"
)

// RemoteDetails is attached to errors produced while talking to the store.
// Status is zero when the request never got a response.
type RemoteDetails struct {
	Status   int    `json:"status"`
	Resource string `json:"resource,omitempty"`
}

// Remote builds a failure for a store call. Status 0 means a transport error.
func Remote(code Code, status int, resource string, cause error, message string) *Error {
	if code == "" {
		code = CodeRemote
	}
	return Wrap(code, cause, message).WithDetails(RemoteDetails{Status: status, Resource: resource})
}

// RemoteStatus returns the HTTP status recorded on a remote failure.
func RemoteStatus(err error) (int, bool) {
	for typed := As(err); typed != nil; typed = As(typed.cause) {
		if details, ok := typed.Details().(RemoteDetails); ok {
			return details.Status, true
		}
	}
	return 0, false
}

func remoteCause(err error) *Error {
	for typed := As(err); typed != nil; typed = As(typed.cause) {
		if _, ok := typed.Details().(RemoteDetails); ok {
			return typed
		}
	}
	return As(err)
}

// IsServerFailure reports whether err came from a 5xx or from the transport.
func IsServerFailure(err error) bool {
	status, ok := RemoteStatus(err)
	if !ok {
		return false
	}
	return status == 0 || status >= http.StatusInternalServerError
}

// RemoteMessage renders a store failure the way admin screens display it.
func RemoteMessage(err error) string {
	if err == nil {
		return ""
	}
	if IsServerFailure(err) {
		return "Server error. Please try again later."
	}
	if status, ok := RemoteStatus(err); ok {
		return fmt.Sprintf("Error: %d - %s", status, remoteCause(err).Message())
	}
	if typed := As(err); typed != nil {
		return typed.Message()
	}
	return err.Error()
}
