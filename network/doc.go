// Package network provides the line-oriented transport a General uses to
// talk to its lieutenants.
//
// # Core Components
//
// Transport: dials a single lieutenant over plain TCP, writes one
// newline-terminated line and, for probes, reads one line back.
//
// # Protocol
//
// Probe: the General writes "test\n" and the lieutenant must reply "ack\n".
//
// Order: the General writes the encoded signed order followed by "\n" and
// closes the connection. No reply is expected.
//
// # Timeout Support
//
// Every exchange with a lieutenant, from dial to the last read, is bounded
// by the Transport timeout (3 seconds unless configured with WithTimeout).
// A lieutenant that does not answer in time is given up on, never retried.
package network
