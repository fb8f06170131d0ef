package v2

//
// Result is the envelope every v2 endpoint answers with. A rejected call (Success being false) is a
// normal result rather than an error: Errors then holds the reasons exactly as the server sent them
// and Result is usually nil. Callers must check Success before using Result.
//
type Result[T any] struct {
	Success bool          `json:"success"`
	Result  *T            `json:"result"`
	Errors  []ErrorDetail `json:"errors"`
}

//
// Err returns nil for a successful result and an *APIError carrying the result's error details
// otherwise.
//
func (o *Result[T]) Err() error {
	if o.Success {
		return nil
	}

	return &APIError{Details: o.Errors}
}

//
// Value returns the payload of a successful result, or the error Err describes.
//
func (o *Result[T]) Value() (*T, error) {
	if err := o.Err(); err != nil {
		return nil, err
	}

	return o.Result, nil
}

type ErrorDetail struct {
	Key         string     `json:"key"`
	Description string     `json:"description"`
	ErrorData   []KeyValue `json:"errorData"`
}

type KeyValue struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}
