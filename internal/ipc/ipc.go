package ipc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"runtime"
	"time"

	"go.uber.org/zap"
)

// DefaultTimeout bounds one client round trip
const DefaultTimeout = 5 * time.Second

// ErrAlreadyRunning is returned by ListenAndServe when another daemon owns
// the socket
var ErrAlreadyRunning = errors.New("daemon already running")

// Handler answers one request
type Handler func(*Request) *Response

// SendRequest connects to the daemon, sends a request, and returns the response.
func SendRequest(socketPath string, req *Request) (*Response, error) {
	if runtime.GOOS == "windows" {
		return nil, errors.New("IPC not implemented for Windows yet")
	}
	conn, err := net.DialTimeout("unix", socketPath, DefaultTimeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon: %w", err)
	}
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(DefaultTimeout))

	if err := json.NewEncoder(conn).Encode(req); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	var resp Response
	if err := json.NewDecoder(conn).Decode(&resp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &resp, nil
}

// ListenAndServe serves requests on socketPath until ctx is done. A stale
// socket file left by a crashed daemon is replaced.
func ListenAndServe(ctx context.Context, socketPath string, handler Handler, logger *zap.Logger) error {
	if runtime.GOOS == "windows" {
		return errors.New("IPC server not implemented for Windows yet")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	if _, err := os.Stat(socketPath); err == nil {
		if resp, err := SendRequest(socketPath, &Request{Command: CmdPing}); err == nil && resp.Status == StatusOK {
			return ErrAlreadyRunning
		}
		os.Remove(socketPath)
	}

	ln, err := net.Listen("unix", socketPath)
	if err != nil {
		return fmt.Errorf("failed to listen on socket: %w", err)
	}
	defer os.Remove(socketPath)

	if err := os.Chmod(socketPath, 0600); err != nil {
		ln.Close()
		return fmt.Errorf("failed to restrict socket permissions: %w", err)
	}

	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	logger.Info("IPC server listening", zap.String("socket", socketPath))

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			logger.Warn("Failed to accept IPC connection", zap.Error(err))
			continue
		}
		go handleConn(conn, handler, logger)
	}
}

func handleConn(conn net.Conn, handler Handler, logger *zap.Logger) {
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(DefaultTimeout))

	dec := json.NewDecoder(conn)
	dec.UseNumber()
	enc := json.NewEncoder(conn)

	var req Request
	if err := dec.Decode(&req); err != nil {
		enc.Encode(Errorf("invalid request: %v", err))
		return
	}

	logger.Debug("IPC request", zap.String("command", req.Command))
	resp := safeHandle(handler, &req, logger)
	if err := enc.Encode(resp); err != nil {
		logger.Debug("Failed to write IPC response", zap.Error(err))
	}
}

func safeHandle(handler Handler, req *Request, logger *zap.Logger) (resp *Response) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("IPC handler panicked", zap.String("command", req.Command), zap.Any("panic", r))
			resp = Errorf("internal error handling %s", req.Command)
		}
	}()
	if resp = handler(req); resp == nil {
		resp = OK(nil)
	}
	return resp
}

// PrettyData indents the response data for display
func (r *Response) PrettyData() string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, r.Data, "", "  "); err != nil {
		return string(r.Data)
	}
	return buf.String()
}
