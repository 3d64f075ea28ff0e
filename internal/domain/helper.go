package domain

// constErr is a lightweight, comparable error type so package-level
// sentinels can be declared inline and compared with errors.Is.
type constErr string

func (e constErr) Error() string { return string(e) }

func errorf(s string) error { return constErr(s) }
