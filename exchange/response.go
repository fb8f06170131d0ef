package exchange

import (
	"encoding/json"
	"net/http"
)

//
// Response wraps a completed exchange of a request with an exchange's API: the raw HTTP response
// (whose body has already been drained and closed) plus the bytes of said body.
//
type Response struct {
	op       string
	response *http.Response
	body     []byte
}

//
// Raw provides the raw HTTP response from the endpoint call that was made. Its body has already
// been consumed; use Body instead.
//
func (o *Response) Raw() *http.Response {
	return o.response
}

func (o *Response) Body() []byte {
	return o.body
}

func (o *Response) StatusCode() int {
	return o.response.StatusCode
}

//
// OK returns whether or not the endpoint responded with a 2xx status code.
//
func (o *Response) OK() bool {
	return o.response.StatusCode >= 200 && o.response.StatusCode < 300
}

//
// Decode unmarshals the body into the provided value. Any failure is tagged as a Decode kind error.
//
func (o *Response) Decode(v interface{}) error {
	if err := json.Unmarshal(o.body, v); err != nil {
		return NewDecodeError(o.op, err)
	}

	return nil
}

//
// DecodeOK is Decode for endpoints that have no error payload of their own: a non-2xx status is
// reported as a Transport kind error wrapping an HTTPError instead of being decoded.
//
func (o *Response) DecodeOK(v interface{}) error {
	if !o.OK() {
		return o.StatusError()
	}

	return o.Decode(v)
}

//
// StatusError returns the Transport kind error describing this response's status code.
//
func (o *Response) StatusError() error {
	return NewTransportError(o.op, NewHTTPError(o.response.StatusCode, o.body))
}
