package commands

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
)

// Text codes attached to admin command failures. Consumers match on these
// instead of parsing messages.
const (
	adminCommandRejectedCode = "ADMIN_COMMAND_REJECTED"
	adminCommandCanceledCode = "ADMIN_COMMAND_CANCELED"
	adminCommandTimedOutCode = "ADMIN_COMMAND_TIMED_OUT"
	adminCommandContextCode  = "ADMIN_COMMAND_CONTEXT_ERROR"
	adminCommandFailedCode   = "ADMIN_COMMAND_FAILED"
)

func wrapValidationError(commandType string, err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryValidation, commandType+" rejected by validation").
		WithTextCode(adminCommandRejectedCode)
}

func wrapContextError(commandType string, err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	switch err {
	case context.Canceled:
		return goerrors.Wrap(err, goerrors.CategoryCommand, commandType+" canceled").
			WithTextCode(adminCommandCanceledCode)
	case context.DeadlineExceeded:
		return goerrors.Wrap(err, goerrors.CategoryCommand, commandType+" timed out").
			WithTextCode(adminCommandTimedOutCode)
	default:
		return goerrors.Wrap(err, goerrors.CategoryCommand, commandType+" context error").
			WithTextCode(adminCommandContextCode)
	}
}

func wrapExecuteError(commandType string, err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryCommand, commandType+" failed").
		WithTextCode(adminCommandFailedCode)
}
