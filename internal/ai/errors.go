package ai

import "errors"

// ErrUnavailable marks a provider that exists but cannot serve requests,
// typically because no API key was configured.
var ErrUnavailable = errors.New("ai provider unavailable")
