package server

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net"
	"time"
)

// writeAll writes data, handling short writes. A zero timeout means no deadline.
func writeAll(conn net.Conn, data []byte, timeout time.Duration) error {
	if timeout > 0 {
		if err := conn.SetWriteDeadline(time.Now().Add(timeout)); err != nil {
			return err
		}
	}

	written := 0
	for written < len(data) {
		n, err := conn.Write(data[written:])
		if err != nil {
			return fmt.Errorf("write failed after %d/%d bytes: %w", written, len(data), err)
		}
		written += n
	}

	return nil
}

// readBallot reads until the closing ']' arrives, the peer closes its side or
// limit bytes have been read. Anything past limit is left unread, so an
// oversized ballot reaches the parser truncated and is rejected there.
func readBallot(conn net.Conn, limit int, timeout time.Duration) (string, error) {
	if timeout > 0 {
		if err := conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
			return "", fmt.Errorf("%w: %w", ErrTransport, err)
		}
	}

	buf := make([]byte, limit)
	read := 0
	for read < limit {
		n, err := conn.Read(buf[read:])
		read += n

		if bytes.IndexByte(buf[read-n:read], ']') >= 0 {
			break
		}

		if err != nil {
			if errors.Is(err, io.EOF) && read > 0 {
				break
			}

			return "", fmt.Errorf("%w: read ballot after %d bytes: %w", ErrTransport, read, err)
		}
	}

	return string(buf[:read]), nil
}
