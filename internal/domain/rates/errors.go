package rates

import "errors"

var (
	ErrNoRateSetForDate  = errors.New("no statutory rate set covers the requested date")
	ErrRateSetNotFound   = errors.New("rate set not found")
	ErrRateSetDateExists = errors.New("a rate set with this effective date already exists")
)
