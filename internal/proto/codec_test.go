package proto

import (
	"bytes"
	"io"
	"testing"
)

func TestEncodeDecodeAllTags(t *testing.T) {
	payloads := [][]byte{nil, []byte("x"), bytes.Repeat([]byte("ab"), 2048)}
	for _, tag := range []Tag{TagInfo, TagData, TagEnd, TagAck, TagErr} {
		for _, p := range payloads {
			var buf bytes.Buffer
			if err := EncodeFrame(&buf, &Frame{Tag: tag, Payload: p}); err != nil {
				t.Fatalf("%s: %v", tag, err)
			}
			dec, err := DecodeFrame(&buf, nil)
			if err != nil {
				t.Fatalf("%s: %v", tag, err)
			}
			if dec.Tag != tag || !bytes.Equal(dec.Payload, p) {
				t.Fatalf("roundtrip %s: got %q len=%d", tag, dec.Tag, len(dec.Payload))
			}
			if !dec.Tag.Known() {
				t.Fatalf("%s should be a known tag", tag)
			}
		}
	}
}

func TestEncodeFrameBadTag(t *testing.T) {
	var buf bytes.Buffer
	for _, tag := range []Tag{"", "ACK", "TOOLONG"} {
		if err := EncodeFrame(&buf, &Frame{Tag: tag}); err == nil {
			t.Fatalf("expected error for tag %q", tag)
		}
	}
}

func TestDecodeFrameShortHeader(t *testing.T) {
	_, err := DecodeFrame(bytes.NewReader([]byte("INF")), nil)
	if err != io.ErrUnexpectedEOF {
		t.Fatalf("expected unexpected EOF, got %v", err)
	}
}

func TestDecodeFrameShortPayload(t *testing.T) {
	var buf bytes.Buffer
	if err := EncodeFrame(&buf, &Frame{Tag: TagData, Payload: []byte("hello")}); err != nil {
		t.Fatal(err)
	}
	trimmed := buf.Bytes()[:buf.Len()-2]
	_, err := DecodeFrame(bytes.NewReader(trimmed), nil)
	if err != io.ErrUnexpectedEOF {
		t.Fatalf("expected unexpected EOF, got %v", err)
	}
}

func TestDecodeFrameEOF(t *testing.T) {
	_, err := DecodeFrame(bytes.NewReader(nil), nil)
	if err != io.EOF {
		t.Fatalf("expected EOF, got %v", err)
	}
}

func TestDecodeFrameOversizedLength(t *testing.T) {
	raw := []byte("DATA\xff\xff\xff\xff")
	_, err := DecodeFrame(bytes.NewReader(raw), nil)
	if err == nil {
		t.Fatal("expected error for hostile length")
	}
}

func TestDecodeFrameUnknownTag(t *testing.T) {
	var buf bytes.Buffer
	if err := EncodeFrame(&buf, &Frame{Tag: "WHAT", Payload: []byte("p")}); err != nil {
		t.Fatal(err)
	}
	dec, err := DecodeFrame(&buf, nil)
	if err != nil {
		t.Fatal(err)
	}
	if dec.Tag.Known() {
		t.Fatalf("tag %q should not be known", dec.Tag)
	}
}

func TestDecodeFramePayloadBuf(t *testing.T) {
	var buf bytes.Buffer
	if err := EncodeFrame(&buf, &Frame{Tag: TagData, Payload: []byte("chunk")}); err != nil {
		t.Fatal(err)
	}
	scratch := make([]byte, 64)
	dec, err := DecodeFrame(&buf, scratch)
	if err != nil {
		t.Fatal(err)
	}
	if string(dec.Payload) != "chunk" {
		t.Fatalf("got %q", dec.Payload)
	}
	if &dec.Payload[0] != &scratch[0] {
		t.Fatal("payload should reuse the provided buffer")
	}
}

func TestFileInfoRoundtrip(t *testing.T) {
	f, err := EncodeFileInfo(&FileInfo{Filename: "report.pdf", Filesize: 12345})
	if err != nil {
		t.Fatal(err)
	}
	if f.Tag != TagInfo {
		t.Fatalf("tag %q", f.Tag)
	}
	info, err := DecodeFileInfo(f.Payload)
	if err != nil {
		t.Fatal(err)
	}
	if info.Filename != "report.pdf" || info.Filesize != 12345 {
		t.Fatalf("got %+v", info)
	}
}

func TestDecodeFileInfoMalformed(t *testing.T) {
	if _, err := DecodeFileInfo([]byte("not json")); err == nil {
		t.Fatal("expected error for malformed JSON")
	}
	if _, err := DecodeFileInfo([]byte{0xff, 0xfe}); err == nil {
		t.Fatal("expected error for invalid UTF-8")
	}
	if _, err := DecodeFileInfo([]byte(`{"filename":"a","filesize":-1}`)); err == nil {
		t.Fatal("expected error for negative filesize")
	}
}

func TestRemoteError(t *testing.T) {
	err := &RemoteError{Msg: "server not ready"}
	if err.Error() != "remote error: server not ready" {
		t.Fatalf("got %q", err.Error())
	}
}
