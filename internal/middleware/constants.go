package middleware

// HTTP header constants.
const (
	// HeaderContentType is the Content-Type header name.
	HeaderContentType = "Content-Type"

	// RequestIDHeader is the header carrying the request ID.
	RequestIDHeader = "X-Request-ID"
)

// ContentTypeJSON is the JSON content type.
const ContentTypeJSON = "application/json"

// Error bodies use the same {status, msg, data} envelope as dispatch responses.
const (
	// ErrInternalServerError is the body written after a recovered panic.
	ErrInternalServerError = `{"status":500,"msg":"internal server error","data":null}`

	// ErrRequestEntityTooLarge is the body written when a request is too large.
	ErrRequestEntityTooLarge = `{"status":413,"msg":"request entity too large","data":null}`
)

// maxRequestIDLength bounds client supplied request IDs.
const maxRequestIDLength = 128
