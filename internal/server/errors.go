package server

import "errors"

var (
	errAddressMissing = errors.New("http listen address is not configured")
)
