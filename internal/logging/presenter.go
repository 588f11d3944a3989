// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package logging

// Failure is a user-facing error for an action that could not complete.
// Its message is masked; Unwrap still exposes the raw cause.
type Failure struct {
	Action string
	Err    error
}

func (f *Failure) Error() string {
	return "could not " + f.Action + ": " + Mask(f.Err.Error())
}

func (f *Failure) Unwrap() error { return f.Err }

// Fail wraps err as a Failure of action. A nil err stays nil.
func Fail(action string, err error) error {
	if err == nil {
		return nil
	}
	return &Failure{Action: action, Err: err}
}
