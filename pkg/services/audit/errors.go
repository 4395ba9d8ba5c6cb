package audit

import "fmt"

// DataSourceError reports that a check's call to its data source failed. The runner
// drops the check's contribution and moves on.
type DataSourceError struct {
	Check string
	Op    string
	Err   error
}

func (e *DataSourceError) Error() string {
	return fmt.Sprintf("check %s: %s failed: %v", e.Check, e.Op, e.Err)
}

func (e *DataSourceError) Unwrap() error {
	return e.Err
}

// RunFailure aborts the whole audit. It wraps anything that is not a DataSourceError.
type RunFailure struct {
	Check string
	Err   error
}

func (e *RunFailure) Error() string {
	if e.Check == "" {
		return fmt.Sprintf("audit run failed: %v", e.Err)
	}
	return fmt.Sprintf("audit run failed in check %s: %v", e.Check, e.Err)
}

func (e *RunFailure) Unwrap() error {
	return e.Err
}
