package entity

import "errors"

// Error kinds surfaced to API clients. Wrap with fmt.Errorf("%w: ...", kind)
// so the handler can map them to HTTP statuses with errors.Is.
var (
	ErrValidation = errors.New("validation")
	ErrProvider   = errors.New("provider")
	ErrStore      = errors.New("store")
)
