package blend

import "errors"

// ErrInvalidVolume indicates a blend volume that is not a positive number.
var ErrInvalidVolume = errors.New("blend: volumes must be positive")
