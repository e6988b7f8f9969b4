package apierr

var (
	BadRequest = APIError{
		Code:    "INVALID_REQUEST",
		Message: "invalid request body",
	}
	Unauthorized = APIError{
		Code:    "UNAUTHORIZED_REQUEST",
		Message: "unauthorized request",
	}
	Forbidden = APIError{
		Code:    "FORBIDDEN",
		Message: "admin role required",
	}
	NotFound = APIError{
		Code:    "NOT_FOUND",
		Message: "resource not found",
	}
	InternalServerError = APIError{
		Code:    "INTERNAL_SERVER_ERROR",
		Message: "internal server error",
	}
	StorageUnavailable = APIError{
		Code:    "STORAGE_UNAVAILABLE",
		Message: "request could not be processed, try again",
	}

	InvalidInterval = APIError{
		Code:    "INVALID_INTERVAL",
		Message: "start and end must be HH:MM on slot boundaries and start must precede end",
	}
	PastTime = APIError{
		Code:    "PAST_TIME",
		Message: "reservation must start in the future",
	}
	InvalidDate = APIError{
		Code:    "INVALID_DATE",
		Message: "date must be YYYY-MM-DD",
	}
	QuotaExhausted = APIError{
		Code:    "QUOTA_EXHAUSTED",
		Message: "team has no reservation hours left this week",
	}
	QuotaExceeded = APIError{
		Code:    "QUOTA_EXCEEDED",
		Message: "reservation is longer than the team's remaining hours this week",
	}
	SlotConflict = APIError{
		Code:    "SLOT_CONFLICT",
		Message: "time slot is already reserved",
	}
	NoTeam = APIError{
		Code:    "NO_TEAM",
		Message: "user does not belong to a team",
	}

	InvalidUserID = APIError{
		Code:    "INVALID_USER_ID",
		Message: "user_id must be 8 digits",
	}
	InvalidName = APIError{
		Code:    "INVALID_NAME",
		Message: "name must be written in Hangul",
	}
	InvalidCredentials = APIError{
		Code:    "INVALID_CREDENTIALS",
		Message: "wrong user_id or password",
	}
	UserExists = APIError{
		Code:    "USER_EXISTS",
		Message: "user_id already registered",
	}
	UserNotFound = APIError{
		Code:    "USER_NOT_FOUND",
		Message: "user not found",
	}
	TeamExists = APIError{
		Code:    "TEAM_EXISTS",
		Message: "team_name already exists",
	}
	TeamNotFound = APIError{
		Code:    "TEAM_NOT_FOUND",
		Message: "unknown team",
	}
)
