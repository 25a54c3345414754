package proto

// Tag: 4 ASCII bytes on wire.
type Tag string

const (
	TagInfo Tag = "INFO" // file metadata, JSON payload
	TagData Tag = "DATA" // raw chunk
	TagEnd  Tag = "FEND" // explicit end of transfer, empty payload
	TagAck  Tag = "ACK_" // status text
	TagErr  Tag = "ERR_" // diagnostic text
)

// Header: 4-byte tag + 4-byte big-endian length.
const (
	TagSize    = 4
	HeaderSize = 8
)

// MaxPayloadSize 16MiB.
const MaxPayloadSize = 1024 * 1024 * 16

// ChunkSize is the sender's convention, not a protocol limit.
const ChunkSize = 4096

// Known reports whether t is one of the five defined tags.
func (t Tag) Known() bool {
	switch t {
	case TagInfo, TagData, TagEnd, TagAck, TagErr:
		return true
	}
	return false
}
