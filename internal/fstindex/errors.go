package fstindex

import "errors"

var (
	errBadMagic       = errors.New("fstindex: bad table file magic")
	errBucketMismatch = errors.New("fstindex: bucket/value count mismatch")
	errOrphanBucket   = errors.New("fstindex: orphan bucket id with no values entry")
)
