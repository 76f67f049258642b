// Package buffer owns memory management primitives for datagram handling.
//
// Ownership boundary:
// - raw resizable byte storage with a capacity/size split
// - reference-counted views that keep backing storage alive
// - a recycling pool serializing allocate/return
package buffer
