// Package protocol implements the four-phase single-image session
// (header handshake, ready gate, metadata, payload, completion), the
// payload framing rules that split a voxel buffer across one or more
// transport frames, and the multi-image sentinel-header wrapper — all on
// top of a transport.Handle.
//
// Ownership boundary:
// - header/ready/metadata/done wire tokens
// - payload framing (short path, split path, planar vs array mode)
// - the four role pairings (push-send, push-receive, pull-serve,
//   pull-request) as one state machine
// - multi-image sentinel headers (events mode, fixed-sequence mode)
package protocol
