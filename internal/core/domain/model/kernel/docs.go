// Package kernel provides the shared domain primitives of the scan workflow:
// entity identifiers, tenant scope and operator identity.
//
// Values are immutable and validated on construction. Their zero values are
// invalid so that a forgotten initialization surfaces as an error.
package kernel
