package proto

// Frame: on-wire msg (tag + length-prefixed payload).
type Frame struct {
	Tag     Tag
	Payload []byte
}

// FileInfo payload of an INFO frame: metadata sent before any chunk.
type FileInfo struct {
	Filename string `json:"filename"`
	Filesize int64  `json:"filesize"`
}

// Ack builds an ACK_ frame carrying a status line.
func Ack(msg string) *Frame {
	return &Frame{Tag: TagAck, Payload: []byte(msg)}
}

// Err builds an ERR_ frame carrying a diagnostic.
func Err(msg string) *Frame {
	return &Frame{Tag: TagErr, Payload: []byte(msg)}
}

// Data builds a DATA frame for one chunk.
func Data(chunk []byte) *Frame {
	return &Frame{Tag: TagData, Payload: chunk}
}

// End builds the empty FEND terminator.
func End() *Frame {
	return &Frame{Tag: TagEnd}
}
