package server

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"calmcp/internal/logging"
	"calmcp/internal/rpc"
)

// maxLineSize bounds one inbound stdio message (1 MiB).
const maxLineSize = 1024 * 1024

// ServeStdio reads newline-delimited JSON-RPC requests from in and writes
// one response line per request to out. It returns when in reaches EOF, the
// context is canceled, or reading fails. A message exceeding the size bound
// is answered with a parse error and the session continues.
func ServeStdio(ctx context.Context, router *rpc.Router, in io.Reader, out io.Writer, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	reader := bufio.NewReaderSize(in, 64*1024)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line, tooLong, readErr := readLine(reader)
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return fmt.Errorf("failed to read request: %w", readErr)
		}
		atEOF := errors.Is(readErr, io.EOF)

		line = bytes.TrimSuffix(bytes.TrimSuffix(line, []byte("\n")), []byte("\r"))
		if len(line) > 0 || tooLong {
			var resp *rpc.Response
			if tooLong {
				logger.Warn("dropping oversized message", slog.Int("limit_bytes", maxLineSize))
				resp = &rpc.Response{
					JSONRPC: "2.0",
					Error: &rpc.Error{
						Code:    rpc.CodeParseError,
						Message: "Parse error",
						Data:    "message exceeds size limit",
					},
				}
			} else {
				resp = router.HandleRaw(ctx, line)
			}

			data, err := json.Marshal(resp)
			if err != nil {
				logger.Error("failed to encode response", logging.Err(err))
			} else if _, err := fmt.Fprintln(out, string(data)); err != nil {
				return fmt.Errorf("failed to write response: %w", err)
			}
		}

		if atEOF {
			return nil
		}
	}
}

// readLine reads one newline-terminated line. A line longer than maxLineSize
// is drained to its end and reported as too long, so a single oversized
// message neither buffers unbounded input nor desynchronizes the stream.
func readLine(r *bufio.Reader) (line []byte, tooLong bool, err error) {
	for {
		chunk, readErr := r.ReadSlice('\n')
		if !tooLong {
			if len(line)+len(chunk) > maxLineSize {
				tooLong = true
				line = nil
			} else {
				line = append(line, chunk...)
			}
		}
		if errors.Is(readErr, bufio.ErrBufferFull) {
			continue
		}
		return line, tooLong, readErr
	}
}
