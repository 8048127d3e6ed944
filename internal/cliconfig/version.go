package cliconfig

import (
	"strconv"

	"github.com/cockroachdb/errors"
)

// VersionPointer is a cluster's published Lambda version: either the
// Latest sentinel for an unpublished function or a positive integer.
type VersionPointer string

// Latest marks a function whose production alias still tracks the
// unpublished $LATEST version.
const Latest VersionPointer = "$LATEST"

func VersionFromNumber(n int64) VersionPointer {
	return VersionPointer(strconv.FormatInt(n, 10))
}

func (v VersionPointer) IsLatest() bool {
	return v == Latest
}

func (v VersionPointer) Validate() error {
	if v == "" || v.IsLatest() {
		return nil
	}
	n, err := strconv.Atoi(string(v))
	if err != nil || n < 1 {
		return errors.Newf("version pointer must be %q or a positive integer, got %q", Latest, string(v))
	}
	return nil
}

// RolledBack returns the pointer decremented by one. Rolling back the
// Latest sentinel or version 1 is a no-op, reported via changed=false.
// Never produces a value below 1.
func (v VersionPointer) RolledBack() (next VersionPointer, changed bool, err error) {
	if v == "" || v.IsLatest() {
		return v, false, nil
	}

	n, convErr := strconv.Atoi(string(v))
	if convErr != nil || n < 1 {
		return v, false, errors.Newf("version pointer must be %q or a positive integer, got %q", Latest, string(v))
	}
	if n <= 1 {
		return v, false, nil
	}
	return VersionFromNumber(int64(n - 1)), true, nil
}
