package installer

import (
	"context"
	"errors"
	"fmt"

	"github.com/ZebulonRouseFrantzich/basetoolsbins/internal/archive"
	"github.com/ZebulonRouseFrantzich/basetoolsbins/internal/descriptor"
	"github.com/ZebulonRouseFrantzich/basetoolsbins/internal/lockfile"
)

// Kind classifies why a run failed.
type Kind int

const (
	KindUnknown Kind = iota
	KindResourceExhaustion
	KindNotFound
	KindVolumeCorrupted
	KindWriteProtected
	KindLocked
	KindCancelled
)

// String returns the string representation of the kind
func (k Kind) String() string {
	switch k {
	case KindResourceExhaustion:
		return "resource exhaustion"
	case KindNotFound:
		return "not found"
	case KindVolumeCorrupted:
		return "volume corrupted"
	case KindWriteProtected:
		return "write protected"
	case KindLocked:
		return "locked"
	case KindCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Code returns the numeric code printed in error reports.
func (k Kind) Code() int {
	switch k {
	case KindNotFound:
		return 4002
	case KindVolumeCorrupted:
		return 4003
	case KindWriteProtected:
		return 4004
	case KindResourceExhaustion:
		return 4005
	case KindLocked:
		return 4006
	default:
		return 4001
	}
}

// Error is returned by Run. Op names the step that failed.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the failure kind carried by err. Errors not produced by
// this package are classified by their sentinel.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}

	var ie *Error
	if errors.As(err, &ie) {
		return ie.Kind
	}

	return classify(err)
}

// classify maps errors from the component packages onto failure kinds.
func classify(err error) Kind {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return KindCancelled
	case errors.Is(err, lockfile.ErrLockExists):
		return KindLocked
	case errors.Is(err, archive.ErrArchiveTooLarge):
		return KindResourceExhaustion
	case errors.Is(err, descriptor.ErrNotFound), errors.Is(err, descriptor.ErrArchiveNameMissing),
		errors.Is(err, archive.ErrArchiveNotFound):
		return KindNotFound
	case errors.Is(err, archive.ErrCorrupted):
		return KindVolumeCorrupted
	case errors.Is(err, descriptor.ErrWriteProtected):
		return KindWriteProtected
	default:
		return KindUnknown
	}
}

// wrap attaches op and a classified kind to err.
func wrap(op string, err error) *Error {
	return &Error{Kind: classify(err), Op: op, Err: err}
}
