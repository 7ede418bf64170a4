package order

// SigningError means no valid order can be produced: the key is invalid or
// the signature primitive failed. Unlike a delivery failure it is fatal.
type SigningError struct {
	Reason string
	Err    error
}

func (e *SigningError) Error() string {
	if e.Err != nil {
		return "signing: " + e.Reason + ": " + e.Err.Error()
	}
	return "signing: " + e.Reason
}

func (e *SigningError) Unwrap() error {
	return e.Err
}
