package ports

import "errors"

var (
	// ErrDuplicateScan is returned by ScanRecordRepository.Add when another
	// writer already inserted a record with the same key.
	ErrDuplicateScan = errors.New("scan record with the same key already exists")

	// ErrStaleVersion is returned by a compare-and-set update when the stored
	// version moved since the aggregate was read.
	ErrStaleVersion = errors.New("stored version changed since read")
)
