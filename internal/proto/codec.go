package proto

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"
)

var ErrInvalidFrame = errors.New("invalid frame")
var ErrUnexpectedFrame = errors.New("unexpected frame")

// RemoteError: the peer sent ERR_; its text is carried verbatim.
type RemoteError struct {
	Msg string
}

func (e *RemoteError) Error() string { return "remote error: " + e.Msg }

// EncodeFrame writes 8-byte header + payload to w. Tag must be exactly 4 bytes.
func EncodeFrame(w io.Writer, f *Frame) error {
	if len(f.Tag) != TagSize {
		return fmt.Errorf("%w: tag %q is not %d bytes", ErrInvalidFrame, f.Tag, TagSize)
	}
	if len(f.Payload) > MaxPayloadSize {
		return fmt.Errorf("%w: payload too large", ErrInvalidFrame)
	}
	header := make([]byte, HeaderSize, HeaderSize+len(f.Payload))
	copy(header[:TagSize], f.Tag)
	binary.BigEndian.PutUint32(header[TagSize:], uint32(len(f.Payload)))
	if _, err := w.Write(append(header, f.Payload...)); err != nil {
		return err
	}
	return nil
}

// DecodeFrame reads one frame; payloadBuf opt (nil = alloc). A stream that
// ends mid-frame fails with io.ErrUnexpectedEOF; the caller treats that as a
// dead connection, never a retry.
func DecodeFrame(r io.Reader, payloadBuf []byte) (*Frame, error) {
	var header [HeaderSize]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, err
	}
	tag := Tag(header[:TagSize])
	length := binary.BigEndian.Uint32(header[TagSize:])
	if length > MaxPayloadSize {
		return nil, fmt.Errorf("%w: declared length %d exceeds limit", ErrInvalidFrame, length)
	}
	var payload []byte
	if length > 0 {
		if payloadBuf != nil && cap(payloadBuf) >= int(length) {
			payload = payloadBuf[:length]
		} else {
			payload = make([]byte, length)
		}
		if _, err := io.ReadFull(r, payload); err != nil {
			if err == io.EOF {
				err = io.ErrUnexpectedEOF
			}
			return nil, err
		}
	}
	return &Frame{Tag: tag, Payload: payload}, nil
}

// EncodeFileInfo marshals metadata into an INFO frame.
func EncodeFileInfo(info *FileInfo) (*Frame, error) {
	b, err := json.Marshal(info)
	if err != nil {
		return nil, err
	}
	return &Frame{Tag: TagInfo, Payload: b}, nil
}

// DecodeFileInfo parses an INFO payload. Malformed text or JSON, or a
// negative size, is a protocol violation.
func DecodeFileInfo(payload []byte) (*FileInfo, error) {
	if !utf8.Valid(payload) {
		return nil, fmt.Errorf("%w: file info is not valid UTF-8", ErrInvalidFrame)
	}
	var info FileInfo
	if err := json.Unmarshal(payload, &info); err != nil {
		return nil, fmt.Errorf("%w: failed to parse file info: %v", ErrInvalidFrame, err)
	}
	if info.Filesize < 0 {
		return nil, fmt.Errorf("%w: negative filesize %d", ErrInvalidFrame, info.Filesize)
	}
	return &info, nil
}
