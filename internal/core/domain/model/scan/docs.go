// Package scan provides the ScanRecord entity and the vocabulary of a
// shop-floor scan: scan type, quality sub-stage, quality result and defect remark.
//
// At most one record exists per Key. A rescan by the same operator refreshes
// the record; a rescan by another operator is an OperatorConflict unless the
// caller reassigns explicitly.
//
// Quality scans follow a fixed sub-workflow driven by QualityMachine:
//
//	absent ──receive──> received ──inspect──> inspected ──confirm──> confirmed
package scan
