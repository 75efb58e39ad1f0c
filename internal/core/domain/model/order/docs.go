// Package order provides the ProductionOrder aggregate of the scan workflow.
//
// The package includes:
//   - ProductionOrder: identity, quantities, lifecycle status, progress percentage,
//     current stage label and the version token used for optimistic concurrency
//   - Status: a closed set of lifecycle states with the plain helper functions
//     IsFinal, CanCancel and CanScan
//
// Key business rules:
//   - A terminal order (completed, cancelled, closed, archived) rejects every scan
//   - The first accepted scan moves a pending order into production
//   - Progress is an integer percentage clamped to [0, 100]
//   - Completed quantity never exceeds the order quantity; reaching it completes the order
package order
