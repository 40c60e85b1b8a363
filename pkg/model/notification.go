package model

type NotificationPayload struct {
	Title string
	Body  string
	Link  string
	Icon  string
	Tag   string

	Data   map[string]string
	Tokens []string
}

type SendErrorCode string

const (
	SendErrorInvalidToken   SendErrorCode = "invalid-token"
	SendErrorNotRegistered  SendErrorCode = "not-registered"
	SendErrorSenderMismatch SendErrorCode = "sender-mismatch"
	SendErrorUnknown        SendErrorCode = "unknown"
)

type SendResult struct {
	Token     string
	Success   bool
	ErrorCode SendErrorCode
	Err       error
}

// IsStale reports whether the push service rejected the token permanently.
func (r SendResult) IsStale() bool {
	return !r.Success && (r.ErrorCode == SendErrorInvalidToken || r.ErrorCode == SendErrorNotRegistered)
}
