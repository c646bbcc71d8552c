package app

import (
	"errors"
	"fmt"
	"net/http"

	stripe "github.com/stripe/stripe-go/v79"
)

// Typed errors for the Stripe app layer. These enable HTTP mapping without
// relying on SDK-specific error types at the transport layer.
var (
	// ErrBadEvent indicates the incoming event payload is invalid or missing required fields.
	ErrBadEvent = errors.New("bad event")
	// ErrDatabase indicates a database-related failure.
	ErrDatabase = errors.New("database error")
	// ErrGateway indicates a failure from the Stripe gateway / API calls.
	ErrGateway = errors.New("gateway error")
	// ErrValidation indicates a request is missing a required field.
	ErrValidation = errors.New("validation error")
	// ErrConfig indicates the deployment is missing a secret or key.
	ErrConfig = errors.New("configuration error")
	// ErrInvalidSignature indicates a webhook payload failed signature verification.
	ErrInvalidSignature = errors.New("invalid signature")
)

// RequestError carries a message safe to show to the caller.
type RequestError struct {
	Kind    error
	Message string
}

func (e *RequestError) Error() string { return e.Message }
func (e *RequestError) Unwrap() error { return e.Kind }

func validationError(msg string) error { return &RequestError{Kind: ErrValidation, Message: msg} }
func configError(msg string) error     { return &RequestError{Kind: ErrConfig, Message: msg} }

// ProcessorError is an error reported by Stripe, with its message, code and status.
type ProcessorError struct {
	Op      string
	Message string
	Code    string
	Status  int
}

func (e *ProcessorError) Error() string { return e.Message }
func (e *ProcessorError) Unwrap() error { return ErrGateway }

// HTTPStatus returns the processor's status, or 500 when it gave none.
func (e *ProcessorError) HTTPStatus() int {
	if e.Status == 0 {
		return http.StatusInternalServerError
	}
	return e.Status
}

// gatewayError wraps err from a gateway call made during op.
func gatewayError(op string, err error) error {
	var se *stripe.Error
	if errors.As(err, &se) {
		msg := se.Msg
		if msg == "" {
			msg = err.Error()
		}
		return &ProcessorError{Op: op, Message: msg, Code: string(se.Code), Status: se.HTTPStatusCode}
	}
	return fmt.Errorf("%w: %s: %v", ErrGateway, op, err)
}
