package payrun

import "errors"

var (
	ErrPayRunNotFound              = errors.New("pay run not found")
	ErrDuplicatePayRun             = errors.New("a pay run already exists for this period")
	ErrInvalidStatusTransition     = errors.New("invalid pay run status transition")
	ErrInconsistentSalaryStructure = errors.New("fixed components and employer contributions exceed monthly CTC")
	ErrEmptyRoster                 = errors.New("no active employees to include in the pay run")
)
