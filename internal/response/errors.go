package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound ErrCode = "NOT_FOUND"

	// ─── Region filter ─────────────────────────────────────────────────
	ErrStateNotAvailable ErrCode = "STATE_NOT_AVAILABLE"
	ErrCityNotAvailable  ErrCode = "CITY_NOT_AVAILABLE"
	ErrViewClosed        ErrCode = "VIEW_CLOSED"

	// ─── Upstream ──────────────────────────────────────────────────────
	ErrGeoUnavailable ErrCode = "GEO_UNAVAILABLE"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "Invalid ID format."
	case ErrInvalidPayload:
		return "Invalid request payload."

	case ErrNotFound:
		return "Resource not found."

	case ErrStateNotAvailable:
		return "Select a state from the loaded state list."
	case ErrCityNotAvailable:
		return "Select a city from the selected state's city list."
	case ErrViewClosed:
		return "This dashboard view has been closed."

	case ErrGeoUnavailable:
		return "Failed to load regions. Please try again."

	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."

	case ErrInternal:
		return "An internal server error occurred."
	default:
		return "An unexpected error occurred."
	}
}
