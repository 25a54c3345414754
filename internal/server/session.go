package server

import (
	"bufio"
	"fmt"
	"net"
	"os"
	"time"

	"dev.c0redev.filedrop/internal/digest"
	"dev.c0redev.filedrop/internal/fsname"
	"dev.c0redev.filedrop/internal/proto"
	"dev.c0redev.filedrop/internal/store"
)

// session: one inbound transfer. AWAIT_INFO -> READY -> RECEIVING, then the
// file is kept or the partial is deleted. The connection is closed on every
// path out.
type session struct {
	id     string
	conn   net.Conn
	dir    string
	status StatusFunc
	db     *store.DB
}

func (s *session) report(format string, args ...any) {
	if s.status != nil {
		s.status(fmt.Sprintf("[%s] ", s.id[:8]) + fmt.Sprintf(format, args...))
	}
}

func (s *session) send(f *proto.Frame) error {
	return proto.EncodeFrame(s.conn, f)
}

func (s *session) sendErr(format string, args ...any) {
	_ = s.send(proto.Err(fmt.Sprintf(format, args...)))
}

func (s *session) run() {
	defer s.conn.Close()
	started := time.Now()
	remote := s.conn.RemoteAddr().String()
	s.report("connection from %s", remote)

	r := bufio.NewReader(s.conn)

	f, err := proto.DecodeFrame(r, nil)
	if err != nil {
		s.report("read file info: %v", err)
		return
	}
	if f.Tag != proto.TagInfo {
		s.sendErr("Expected file info message")
		s.report("first frame was %q, closing", f.Tag)
		return
	}
	info, err := proto.DecodeFileInfo(f.Payload)
	if err != nil {
		s.sendErr("Server error: %v", err)
		s.report("bad file info: %v", err)
		return
	}

	name := fsname.Sanitize(info.Filename)
	dest := fsname.Resolve(s.dir, name)
	s.report("receiving %s (%d bytes) -> %s", name, info.Filesize, dest)

	out, err := os.Create(dest)
	if err != nil {
		s.sendErr("Server error: %v", err)
		s.report("create %s: %v", dest, err)
		return
	}

	if err := s.send(proto.Ack("Ready to receive file")); err != nil {
		out.Close()
		os.Remove(dest)
		s.report("send ready ack: %v", err)
		return
	}

	hash := digest.New()
	var received int64
	endSeen := false
	var failure string

receiving:
	for received < info.Filesize {
		f, err := proto.DecodeFrame(r, nil)
		if err != nil {
			failure = fmt.Sprintf("read frame: %v", err)
			break
		}
		switch f.Tag {
		case proto.TagData:
			if _, err := out.Write(f.Payload); err != nil {
				failure = fmt.Sprintf("write %s: %v", dest, err)
				s.sendErr("Server error: %v", err)
				break receiving
			}
			hash.Write(f.Payload)
			received += int64(len(f.Payload))
			pct := float64(received) / float64(info.Filesize) * 100
			ack := fmt.Sprintf("Received %d/%d bytes (%.1f%%)", received, info.Filesize, pct)
			if err := s.send(proto.Ack(ack)); err != nil {
				failure = fmt.Sprintf("send ack: %v", err)
				break receiving
			}
		case proto.TagEnd:
			// explicit end marker is honored even short of the declared size
			endSeen = true
			break receiving
		default:
			failure = fmt.Sprintf("Unexpected message type: %q", f.Tag)
			s.sendErr("%s", failure)
			break receiving
		}
	}
	out.Close()

	sum := digest.Hex(hash)
	if received == info.Filesize || endSeen {
		s.report("received %s: %d/%d bytes, blake2b %s", dest, received, info.Filesize, sum)
		_ = s.send(proto.Ack(fmt.Sprintf("File '%s' received successfully", name)))
		// wait for the peer to hang up; closing first can lose the final ack
		// on stream transports that drop unacked data at connection close
		_, _ = proto.DecodeFrame(r, nil)
		s.record(&store.Transfer{
			SessionID: s.id, RemoteAddr: remote, Filename: name, Path: dest,
			DeclaredSize: info.Filesize, ReceivedSize: received, Digest: sum,
			Status: store.StatusComplete, StartedAt: started, FinishedAt: time.Now(),
		})
		return
	}

	if failure == "" {
		failure = fmt.Sprintf("size mismatch: %d/%d bytes", received, info.Filesize)
	}
	s.report("transfer incomplete: %s", failure)
	os.Remove(dest)
	s.sendErr("File transfer incomplete")
	s.record(&store.Transfer{
		SessionID: s.id, RemoteAddr: remote, Filename: name,
		DeclaredSize: info.Filesize, ReceivedSize: received,
		Status: store.StatusFailed, Error: failure,
		StartedAt: started, FinishedAt: time.Now(),
	})
}

func (s *session) record(t *store.Transfer) {
	if s.db == nil {
		return
	}
	if _, err := s.db.Add(t); err != nil {
		s.report("history: %v", err)
	}
}
