package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Dataset ───────────────────────────────────────────────────────
	ErrDatasetNotFound   ErrCode = "DATASET_NOT_FOUND"
	ErrDatasetUnreadable ErrCode = "DATASET_UNREADABLE"
	ErrSchemaMismatch    ErrCode = "SCHEMA_MISMATCH"

	// ─── Export ────────────────────────────────────────────────────────
	ErrExportFailed ErrCode = "EXPORT_FAILED"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation ErrCode = "VALIDATION_ERROR"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound ErrCode = "NOT_FOUND"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Dataset ───────────────────────────────────────────────────────
	case ErrDatasetNotFound:
		return "The participation workbook could not be found."
	case ErrDatasetUnreadable:
		return "The participation workbook could not be read."
	case ErrSchemaMismatch:
		return "The participation workbook does not have the expected columns."

	// ─── Export ────────────────────────────────────────────────────────
	case ErrExportFailed:
		return "The report could not be generated."

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Validation failed. Please check your input."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "Resource not found."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "An internal server error occurred."
	default:
		return "An unexpected error occurred."
	}
}
