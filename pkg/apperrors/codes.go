package apperrors

// ErrorCode is a stable machine-readable error identifier returned to clients.
type ErrorCode string

const (
	// System and dependency failures
	CodeInternalError     ErrorCode = "INTERNAL_ERROR"
	CodeDatabaseError     ErrorCode = "DATABASE_ERROR"
	CodeDependencyFailure ErrorCode = "DEPENDENCY_FAILURE"

	// Generic business logic
	CodeNotFound         ErrorCode = "NOT_FOUND"
	CodeAlreadyExists    ErrorCode = "ALREADY_EXISTS"
	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"

	// Authentication
	CodeUnauthorized        ErrorCode = "UNAUTHORIZED"
	CodeInvalidCredentials  ErrorCode = "INVALID_CREDENTIALS"
	CodeInvalidToken        ErrorCode = "INVALID_TOKEN"
	CodeTokenExpired        ErrorCode = "TOKEN_EXPIRED"
	CodeTokenRevoked        ErrorCode = "TOKEN_REVOKED"
	CodeInvalidRefreshToken ErrorCode = "INVALID_REFRESH_TOKEN"
	CodeRefreshTokenExpired ErrorCode = "REFRESH_TOKEN_EXPIRED"
	CodeNoSession           ErrorCode = "NO_REFRESH_TOKEN_IN_DB"
	CodeUserNotFound        ErrorCode = "USER_NOT_FOUND"

	// One-time codes
	CodeOTPInvalid ErrorCode = "OTP_INVALID"
	CodeOTPExpired ErrorCode = "OTP_EXPIRED"

	// Authorization
	CodeForbidden   ErrorCode = "FORBIDDEN"
	CodeInvalidRole ErrorCode = "INVALID_ROLE"
)
