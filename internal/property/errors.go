package property

import "github.com/goliatone/go-errors"

// ErrNotOwner is returned when an authenticated caller operates on a
// listing they do not own. Handlers collapse it into the same redirect as a
// missing listing so probing ids leaks nothing.
var ErrNotOwner = errors.New("caller does not own this property", errors.CategoryAuthz).
	WithCode(errors.CodeForbidden).
	WithTextCode("NOT_OWNER")

// ErrAlreadyPublished is returned when attaching an image to a listing that
// already went through its publication transition, regardless of caller.
var ErrAlreadyPublished = errors.New("property is already published", errors.CategoryConflict).
	WithCode(errors.CodeConflict).
	WithTextCode("ALREADY_PUBLISHED")
