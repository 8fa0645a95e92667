package protocol

import (
	"bytes"
	"strings"
)

// metadataSeparator is the fixed 7-byte token joining metadata entries on
// the wire.
const metadataSeparator = "__QWE__"

const metadataStartToken = "metadata"
const metadataEndToken = "endmetadata"

// EncodeMetadata formats the metadata frame: "metadata__QWE__<m0>__QWE__
// ...__QWE__endmetadata". entries must have "imagename" as its first
// element and the image name as its second, per the wire contract; this
// function does not enforce that — callers build entries via
// NewMetadataList.
func EncodeMetadata(entries []string) []byte {
	parts := make([]string, 0, len(entries)+2)
	parts = append(parts, metadataStartToken)
	parts = append(parts, entries...)
	parts = append(parts, metadataEndToken)
	return []byte(strings.Join(parts, metadataSeparator))
}

// DecodeMetadata splits a metadata frame on the fixed separator. The
// first token must equal "metadata"; the final token (after the last
// separator) is discarded; everything between is returned as the
// caller-visible metadata list. At least one separator must be present.
func DecodeMetadata(raw []byte) ([]string, error) {
	if !bytes.Contains(raw, []byte(metadataSeparator)) {
		return nil, violation("metadata frame missing separator", nil)
	}
	tokens := strings.Split(string(raw), metadataSeparator)
	if tokens[0] != metadataStartToken {
		return nil, violation("metadata frame missing leading token", nil)
	}
	if len(tokens) < 2 {
		return nil, violation("metadata frame has no trailing token", nil)
	}
	return tokens[1 : len(tokens)-1], nil
}

// NewMetadataList builds the wire-ordered metadata entries: "imagename"
// followed by the human-readable name, then any application-defined
// extras.
func NewMetadataList(name string, extras ...string) []string {
	entries := make([]string, 0, 2+len(extras))
	entries = append(entries, "imagename", name)
	entries = append(entries, extras...)
	return entries
}
