package core

import (
	"fmt"
	"strings"
)

// FilingStatus is the closed set of federal filing statuses.
type FilingStatus string

const (
	Single                  FilingStatus = "single"
	MarriedFilingJointly    FilingStatus = "mfj"
	MarriedFilingSeparately FilingStatus = "mfs"
	HeadOfHousehold         FilingStatus = "hoh"
	QualifyingSurvivor      FilingStatus = "qw"
)

// FilingStatuses lists every status in canonical order.
func FilingStatuses() []FilingStatus {
	return []FilingStatus{Single, MarriedFilingJointly, MarriedFilingSeparately, HeadOfHousehold, QualifyingSurvivor}
}

// ParseFilingStatus normalizes raw and rejects anything outside the closed set.
func ParseFilingStatus(raw string) (FilingStatus, error) {
	fs := FilingStatus(strings.ToLower(strings.TrimSpace(raw)))
	if !fs.Valid() {
		return "", fmt.Errorf("invalid filing status %q (expected single|mfj|mfs|hoh|qw)", raw)
	}
	return fs, nil
}

// Valid reports whether fs is one of the five statuses.
func (fs FilingStatus) Valid() bool {
	switch fs {
	case Single, MarriedFilingJointly, MarriedFilingSeparately, HeadOfHousehold, QualifyingSurvivor:
		return true
	default:
		return false
	}
}

// Joint reports whether the return covers two taxpayers.
func (fs FilingStatus) Joint() bool { return fs == MarriedFilingJointly }

// ByStatus is a per-filing-status table.
//
// Get matches exhaustively; an unknown status resolves to the Single column so
// that a malformed return degrades instead of panicking.
type ByStatus[T any] struct {
	Single T
	MFJ    T
	MFS    T
	HOH    T
	QW     T
}

// Get returns the column for fs.
func (b ByStatus[T]) Get(fs FilingStatus) T {
	switch fs {
	case MarriedFilingJointly:
		return b.MFJ
	case MarriedFilingSeparately:
		return b.MFS
	case HeadOfHousehold:
		return b.HOH
	case QualifyingSurvivor:
		return b.QW
	case Single:
		return b.Single
	default:
		return b.Single
	}
}

// Uniform builds a table with the same value for every status.
func Uniform[T any](v T) ByStatus[T] {
	return ByStatus[T]{Single: v, MFJ: v, MFS: v, HOH: v, QW: v}
}

// JointSplit builds the common "joint and survivor share one column, everyone
// else shares another" table.
func JointSplit[T any](joint, other T) ByStatus[T] {
	return ByStatus[T]{Single: other, MFJ: joint, MFS: other, HOH: other, QW: joint}
}
