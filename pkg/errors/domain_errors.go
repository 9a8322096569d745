package errors

var (
	// Domain errors — used in usecase/repository
	ErrUserNotFound       = NotFound("user not found")
	ErrInvalidUsername    = InvalidArg("username cannot be empty")
	ErrChannelNotFound    = NotFound("channel not found")
	ErrInvalidChannelCode = NotFound("invalid channel code")
	ErrMessageNotFound    = NotFound("message not found")
	ErrInvalidChannelName = InvalidArg("channel name cannot be empty")
	ErrEmptyContent       = InvalidArg("message content cannot be empty")
	ErrInvalidKind        = InvalidArg("message kind must be text, image or link")
	ErrCodeTaken          = AlreadyExists("channel code is already taken")
	ErrCodeSpaceExhausted = ResourceExhausted("could not allocate a unique channel code")
)

func ErrStoreUnavailable(cause error) error {
	return Wrap(CodeUnavailable, "store unavailable", cause)
}

func ErrChannelCreateFailed(cause error) error {
	return Wrap(CodeInternal, "channel creation failed", cause)
}
