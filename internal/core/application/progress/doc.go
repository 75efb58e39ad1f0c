// Package progress resolves a style's stage list and turns accepted scans into
// an order's progress percentage. It is shared by the scan, recompute and
// query use cases.
package progress
