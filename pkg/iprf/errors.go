package iprf

import "errors"

// ErrInvalidKeyLength is returned when key material is not exactly
// prf.KeySize bytes.
var ErrInvalidKeyLength = errors.New("iprf: key must be 16 bytes")

// ErrInvalidDomain is returned when the domain n or range m is zero.
var ErrInvalidDomain = errors.New("iprf: domain and range must be > 0")
