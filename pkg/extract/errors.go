package extract

import "errors"

var (
	// ErrDecode is returned when the input could not be decoded or the result could
	// not be encoded. No partial output is produced in that case.
	ErrDecode = errors.New("error processing file")
	// ErrEmptyResult signals a valid document without any location events.
	ErrEmptyResult = errors.New("no " + LocationTag + " events found")
)
