package push

import (
	"firebase.google.com/go/v4/messaging"
	"github.com/steeple/steeple/pkg/model"
)

// ClassifyError maps an FCM per-token error onto a SendErrorCode.
func ClassifyError(err error) model.SendErrorCode {
	switch {
	case err == nil:
		return ""
	case messaging.IsUnregistered(err):
		return model.SendErrorNotRegistered
	case messaging.IsInvalidArgument(err):
		return model.SendErrorInvalidToken
	case messaging.IsSenderIDMismatch(err):
		return model.SendErrorSenderMismatch
	default:
		return model.SendErrorUnknown
	}
}
