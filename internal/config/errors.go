package config

import "errors"

// ErrInvalidConfig wraps every validation failure returned by Load and
// Validate.
var ErrInvalidConfig = errors.New("invalid configuration")
