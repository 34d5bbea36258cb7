package service

import "errors"

type RejectionCode string

const (
	RejectAuthorization RejectionCode = "authorization"
	RejectValidation    RejectionCode = "validation"
	RejectStorage       RejectionCode = "storage"
	RejectNotFound      RejectionCode = "not_found"
)

// Rejection is the structured failure both boundary services return. Nothing
// below a service is allowed to escape as an untyped error; handlers map the
// code to an HTTP status and show the message as-is.
type Rejection struct {
	Code    RejectionCode
	Message string
}

func (r *Rejection) Error() string {
	return r.Message
}

func reject(code RejectionCode, message string) *Rejection {
	return &Rejection{Code: code, Message: message}
}

func AsRejection(err error) (*Rejection, bool) {
	var rejection *Rejection
	if errors.As(err, &rejection) {
		return rejection, true
	}
	return nil, false
}
