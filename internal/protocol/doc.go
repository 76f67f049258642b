// Package protocol owns wire contract and parsing primitives.
//
// Ownership boundary:
// - the common datagram prefix (magic + version) shared by all protocol versions
// - the error taxonomy surfaced through the public facade
//
// Version-specific framing lives in the versioned subpackages.
package protocol
