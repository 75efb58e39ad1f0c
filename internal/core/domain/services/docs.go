// Package services provides the stateless domain services of the scan workflow.
//
// The package includes:
//   - StageNameMatcher: canonicalizes and fuzzily compares free-text stage names
//   - ProgressWeightCalculator: turns an ordered stage list into a weight table summing to 100
//   - PercentToNodeIndex: maps a percentage back onto a stage index
//   - QuantityValidator: rejects scans that would exceed order or bundle quantity
//
// Template resolution and scan attribution both go through the same
// StageNameMatcher so that a stage name means the same thing at both call sites.
package services
