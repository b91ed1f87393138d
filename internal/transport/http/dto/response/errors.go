package response

var (
	ErrInvalidRequestFormat = ErrorResponse{
		Status:  "error",
		Error:   "invalid_request",
		Details: "Invalid request format",
	}

	ErrAuthenticationFailed = ErrorResponse{
		Status: "error",
		Error:  "authentication_failed",
	}

	ErrSessionExpired = ErrorResponse{
		Status:   "error",
		Error:    "session_expired",
		Details:  "Stored credentials were rejected by the content service",
		Redirect: "/admin/login",
	}

	ErrConfirmationRequired = ErrorResponse{
		Status:  "error",
		Error:   "confirmation_required",
		Details: "Destructive actions require confirm=true",
	}

	ErrRemoteUnavailable = ErrorResponse{
		Status:  "error",
		Error:   "remote_unavailable",
		Details: "The content service did not accept the request",
	}
)
