// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package account

import (
	"context"
	"errors"
	"log/slog"

	"codeberg.org/oliverandrich/account-service/internal/i18n"
)

// Status is the outcome of an account operation.
type Status string

const (
	StatusPending Status = "PENDING"
	StatusSuccess Status = "SUCCESS"
	StatusFailed  Status = "FAILED"
)

// Message codes. Each is also an i18n message id.
const (
	CodeInternal         = "internal_error"
	CodeInvalidRequest   = "invalid_request"
	CodeMailFailed       = "mail_failed"
	CodePasswordTooShort = "password_too_short"
	CodePasswordTooLong  = "password_too_long"

	CodeSignupFieldsEmpty      = "signup_fields_empty"
	CodeSignupInvalidFirstName = "signup_invalid_first_name"
	CodeSignupInvalidLastName  = "signup_invalid_last_name"
	CodeSignupInvalidBirthDate = "signup_invalid_birth_date"
	CodeSignupInvalidEmail     = "signup_invalid_email"
	CodeSignupEmailTaken       = "signup_email_taken"
	CodeSignupPending          = "signup_pending"

	CodeVerificationNotFound = "verification_not_found"
	CodeVerificationExpired  = "verification_expired"
	CodeVerificationMismatch = "verification_mismatch"
	CodeVerificationSuccess  = "verification_success"

	CodeSignInEmpty           = "signin_empty"
	CodeSignInIncorrect       = "signin_incorrect"
	CodeSignInNotVerified     = "signin_not_verified"
	CodeSignInInvalidPassword = "signin_invalid_password"
	CodeSignInSuccess         = "signin_success"

	CodeResetInvalidRedirect = "reset_invalid_redirect_url"
	CodeResetUserNotFound    = "reset_user_not_found"
	CodeResetNotVerified     = "reset_not_verified"
	CodeResetPending         = "reset_pending"
	CodeResetNotFound        = "reset_not_found"
	CodeResetExpired         = "reset_expired"
	CodeResetMismatch        = "reset_mismatch"
	CodeResetSuccess         = "reset_success"
)

// Result is returned by every account flow.
type Result struct {
	Status  Status `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// OK reports whether the flow did not fail.
func (r Result) OK() bool {
	return r.Status != StatusFailed
}

func result(ctx context.Context, status Status, code string, data any) Result {
	return Result{
		Status:  status,
		Code:    code,
		Message: i18n.T(ctx, code),
		Data:    data,
	}
}

// Failed returns a FAILED result for code without running a flow.
func Failed(ctx context.Context, code string) Result {
	return result(ctx, StatusFailed, code, nil)
}

// failed converts the first failing step of a flow into a FAILED result.
// Store and mail causes are logged and reported with a generic message.
func failed(ctx context.Context, event string, err error) Result {
	var aerr *Error
	if !errors.As(err, &aerr) {
		aerr = newError(KindStore, CodeInternal, err)
	}

	switch aerr.Kind {
	case KindStore, KindMail:
		slog.ErrorContext(ctx, event, "code", aerr.Code, "kind", aerr.Kind.String(), "error", aerr.Err)
	default:
		slog.WarnContext(ctx, event, "code", aerr.Code, "kind", aerr.Kind.String())
	}

	return result(ctx, StatusFailed, aerr.Code, nil)
}
