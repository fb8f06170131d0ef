package exchange

import "fmt"

//
// HTTPError represents an error due to a non-2xx response from an API endpoint whose body could not
// be interpreted as a payload of the endpoint. It is always surfaced wrapped in a Transport kind
// Error. The body is kept verbatim so that callers can inspect whatever the server said.
//
type HTTPError struct {
	statusCode int
	body       []byte
}

func NewHTTPError(statusCode int, body []byte) *HTTPError {
	return &HTTPError{
		statusCode: statusCode,
		body:       body,
	}
}

func (o *HTTPError) StatusCode() int {
	return o.statusCode
}

func (o *HTTPError) Body() []byte {
	return o.body
}

func (o *HTTPError) Error() string {
	return fmt.Sprintf("server responded with a %d status code", o.statusCode)
}
