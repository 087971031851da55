// Package instance keeps one client process per application ID. The first
// process binds a local socket; later ones forward their activation to it.
package instance

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"path/filepath"
	"sync"
	"time"

	"irc-client/internal/logger"
)

const (
	CommandActivate = "activate"

	dialTimeout = 2 * time.Second
	ioTimeout   = 5 * time.Second
)

var (
	ErrAlreadyRunning = errors.New("another instance is already running")
	ErrUnknownCommand = errors.New("unknown command")
	ErrInsecureDir    = errors.New("runtime directory is not private to this user")
)

type Request struct {
	Command string   `json:"command"`
	URIs    []string `json:"uris,omitempty"`
}

type Response struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// Handler runs a request received from another process.
type Handler func(Request) error

// SocketPath is where the registration for appID lives inside dir.
func SocketPath(dir, appID string) string {
	return filepath.Join(dir, appID+".sock")
}

type Registration struct {
	appID    string
	path     string
	listener net.Listener
	logger   logger.Logger

	closeOnce sync.Once
	closed    chan struct{}
	wg        sync.WaitGroup
}

// Acquire registers appID in dir. It returns ErrAlreadyRunning when a live
// process holds the registration and removes sockets nobody answers on.
func Acquire(ctx context.Context, dir, appID string, log logger.Logger) (*Registration, error) {
	if log == nil {
		log = logger.NoOpLogger{}
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("creating runtime directory: %w", err)
	}
	if err := checkPrivate(dir); err != nil {
		return nil, err
	}

	path := SocketPath(dir, appID)
	if alive(ctx, path) {
		return nil, ErrAlreadyRunning
	}

	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("removing stale registration: %w", err)
	}

	var lc net.ListenConfig
	listener, err := lc.Listen(ctx, "unix", path)
	if err != nil {
		return nil, fmt.Errorf("registering %s: %w", appID, err)
	}

	log.Debug("Instance", "registered", map[string]interface{}{"socket": path})

	return &Registration{
		appID:    appID,
		path:     path,
		listener: listener,
		logger:   log,
		closed:   make(chan struct{}),
	}, nil
}

// checkPrivate rejects directories other users can write to or that belong
// to someone else. Sockets found there could not be trusted or removed.
func checkPrivate(dir string) error {
	info, err := os.Lstat(dir)
	if err != nil {
		return fmt.Errorf("inspecting runtime directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", ErrInsecureDir, dir)
	}
	if info.Mode().Perm()&0o077 != 0 {
		return fmt.Errorf("%w: %s has mode %s", ErrInsecureDir, dir, info.Mode().Perm())
	}
	if !ownedByCurrentUser(info) {
		return fmt.Errorf("%w: %s belongs to another user", ErrInsecureDir, dir)
	}
	return nil
}

func alive(ctx context.Context, path string) bool {
	dialer := net.Dialer{Timeout: dialTimeout}
	conn, err := dialer.DialContext(ctx, "unix", path)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

// Path is the socket the registration listens on.
func (r *Registration) Path() string {
	return r.path
}

// Serve accepts forwarded requests until Close is called.
func (r *Registration) Serve(handler Handler) error {
	for {
		conn, err := r.listener.Accept()
		if err != nil {
			select {
			case <-r.closed:
				r.wg.Wait()
				return nil
			default:
			}
			return fmt.Errorf("accepting activation: %w", err)
		}

		r.wg.Add(1)
		go func() {
			defer r.wg.Done()
			r.handle(conn, handler)
		}()
	}
}

func (r *Registration) handle(conn net.Conn, handler Handler) {
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(ioTimeout))

	var req Request
	if err := json.NewDecoder(bufio.NewReader(conn)).Decode(&req); err != nil {
		r.logger.Warning("Instance", "malformed request", map[string]interface{}{"error": err.Error()})
		return
	}

	resp := Response{OK: true}
	var err error
	if req.Command != CommandActivate {
		err = fmt.Errorf("%w: %q", ErrUnknownCommand, req.Command)
	} else {
		err = handler(req)
	}
	if err != nil {
		resp = Response{Error: err.Error()}
		r.logger.Error("Instance", err, map[string]interface{}{"command": req.Command})
	}

	if err := json.NewEncoder(conn).Encode(resp); err != nil {
		r.logger.Warning("Instance", "reply failed", map[string]interface{}{"error": err.Error()})
	}
}

// Shutdown makes the registration usable with the shutdown manager.
func (r *Registration) Shutdown() {
	if err := r.Close(); err != nil {
		r.logger.Error("Instance", err, nil)
	}
}

// Close stops accepting requests and removes the socket.
func (r *Registration) Close() error {
	var err error
	r.closeOnce.Do(func() {
		close(r.closed)
		err = r.listener.Close()
		if rmErr := os.Remove(r.path); rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) && err == nil {
			err = rmErr
		}
	})
	return err
}

// Forward sends req to the process holding the registration.
func Forward(ctx context.Context, dir, appID string, req Request) error {
	if err := checkPrivate(dir); err != nil {
		return err
	}

	dialer := net.Dialer{Timeout: dialTimeout}
	conn, err := dialer.DialContext(ctx, "unix", SocketPath(dir, appID))
	if err != nil {
		return fmt.Errorf("contacting running instance: %w", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(ioTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	_ = conn.SetDeadline(deadline)

	if err := json.NewEncoder(conn).Encode(req); err != nil {
		return fmt.Errorf("sending %s: %w", req.Command, err)
	}

	var resp Response
	if err := json.NewDecoder(bufio.NewReader(conn)).Decode(&resp); err != nil {
		return fmt.Errorf("reading reply: %w", err)
	}
	if !resp.OK {
		return fmt.Errorf("running instance refused %s: %s", req.Command, resp.Error)
	}
	return nil
}
