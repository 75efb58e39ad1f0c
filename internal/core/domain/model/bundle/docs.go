// Package bundle provides the CuttingBundle entity: a physical unit of cut
// fabric that belongs to exactly one production order and carries a unique
// scannable code.
//
// A bundle with an open pending-repair balance is blocked for warehousing
// until MarkRepaired is called.
package bundle
