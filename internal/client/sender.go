// Package client implements the sending half of a transfer: one connection
// per file, strictly alternating chunk and acknowledgment.
package client

import (
	"bufio"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"dev.c0redev.filedrop/internal/proto"
	"dev.c0redev.filedrop/internal/transport"
)

// StatusFunc receives human-readable progress lines; nil discards them.
type StatusFunc func(msg string)

// Client sends local files to a filedrop server.
type Client struct {
	Network   string      // "tcp" (default) or "quic"
	Addr      string      // host:port
	TLS       *tls.Config // quic only; nil = insecure default
	ChunkSize int         // defaults to proto.ChunkSize
	Status    StatusFunc
}

func (c *Client) report(format string, args ...any) {
	if c.Status != nil {
		c.Status(fmt.Sprintf(format, args...))
	}
}

// SendFile pushes one file and returns the server's final status line. The
// path must name an existing regular file. The connection is closed on every
// exit path.
func (c *Client) SendFile(ctx context.Context, path string) (string, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", path, err)
	}
	if !fi.Mode().IsRegular() {
		return "", fmt.Errorf("%s is not a regular file", path)
	}
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	network := c.Network
	if network == "" {
		network = "tcp"
	}
	c.report("connecting to %s", c.Addr)
	conn, err := transport.Dial(ctx, network, c.Addr, c.TLS)
	if err != nil {
		return "", fmt.Errorf("dial %s: %w", c.Addr, err)
	}
	defer conn.Close()

	name := filepath.Base(path)
	size := fi.Size()
	c.report("sending %s (%d bytes)", name, size)

	info, err := proto.EncodeFileInfo(&proto.FileInfo{Filename: name, Filesize: size})
	if err != nil {
		return "", err
	}
	if err := proto.EncodeFrame(conn, info); err != nil {
		return "", fmt.Errorf("send file info: %w", err)
	}
	r := bufio.NewReader(conn)
	ready, err := awaitAck(r)
	if err != nil {
		return "", err
	}
	c.report("server ready: %s", ready)

	chunkSize := c.ChunkSize
	if chunkSize <= 0 {
		chunkSize = proto.ChunkSize
	}
	buf := make([]byte, chunkSize)
	for {
		n, rerr := f.Read(buf)
		if n > 0 {
			if err := proto.EncodeFrame(conn, proto.Data(buf[:n])); err != nil {
				return "", fmt.Errorf("send chunk: %w", err)
			}
			ack, err := awaitAck(r)
			if err != nil {
				return "", err
			}
			c.report("%s", ack)
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return "", fmt.Errorf("read %s: %w", path, rerr)
		}
	}

	if err := proto.EncodeFrame(conn, proto.End()); err != nil {
		return "", fmt.Errorf("send end marker: %w", err)
	}
	final, err := awaitAck(r)
	if err != nil {
		return "", err
	}
	c.report("%s", final)
	return final, nil
}

// awaitAck reads one frame: ACK text, the peer's ERR_ as *proto.RemoteError,
// anything else as a protocol violation.
func awaitAck(r io.Reader) (string, error) {
	f, err := proto.DecodeFrame(r, nil)
	if err != nil {
		return "", err
	}
	switch f.Tag {
	case proto.TagAck:
		return string(f.Payload), nil
	case proto.TagErr:
		return "", &proto.RemoteError{Msg: string(f.Payload)}
	default:
		return "", fmt.Errorf("%w: expected %s, got %q", proto.ErrUnexpectedFrame, proto.TagAck, f.Tag)
	}
}

// SendResult: outcome of one path in SendFiles.
type SendResult struct {
	Path    string
	Message string
	Err     error
}

// SendFiles sends each path on its own connection, best effort; one failure
// does not stop the rest.
func (c *Client) SendFiles(ctx context.Context, paths []string) []SendResult {
	results := make([]SendResult, 0, len(paths))
	for _, p := range paths {
		msg, err := c.SendFile(ctx, p)
		if err != nil {
			c.report("failed to send %s: %v", p, err)
		}
		results = append(results, SendResult{Path: p, Message: msg, Err: err})
	}
	return results
}
