package model

// Writer defines a generic interface for emitting aggregation results.
type Writer interface {
	// Write takes a snapshot payload and renders it.
	// The implementation is expected to know how to handle the payload type it receives.
	Write(payload interface{}) error
}
