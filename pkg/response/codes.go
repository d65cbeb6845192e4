package response

// Business error codes carried in the envelope's code field. Grouped by the
// HTTP class they usually ride on.
const (
	CodeInvalidParams = 40001
	CodeBadDate       = 40002
	CodeInvertedRange = 40003
	CodeBadStatus     = 40004

	CodeUnauthorized = 40101
	CodeTokenExpired = 40102

	CodeForbidden = 40301

	CodeNotFound         = 40401
	CodeEmployeeNotFound = 40402
	CodeArtifactMissing  = 40403

	CodeConflict    = 40901
	CodeBadgeExists = 40902
	CodeUserExists  = 40903

	CodeBodyTooLarge = 41301

	CodeNoData            = 42201
	CodeMalformedArtifact = 42202

	CodeTooManyRequests = 42901

	CodeInternal     = 50000
	CodePartialWrite = 50001
)
