package out

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"os"
	"path/filepath"
	"strings"
	"time"

	"focusgarden/internal/modules/coordinator/domain"
	coordout "focusgarden/internal/modules/coordinator/port/out"
	sessiondto "focusgarden/internal/modules/session/dto"
	apperrors "focusgarden/internal/platform/errors"
)

const (
	serviceName = "Coordinator"
	callTimeout = 10 * time.Second
)

type JSONRPCServer struct{}

type JSONRPCClient struct{}

func NewJSONRPCServer() coordout.IPCServer {
	return &JSONRPCServer{}
}

func NewJSONRPCClient() coordout.IPCClient {
	return &JSONRPCClient{}
}

type rpcHandler struct {
	h coordout.IPCHandler
}

type awaitRefreshReq struct {
	Since     uint64
	TimeoutMS int64
}

type awaitRefreshResp struct {
	Revision uint64
}

type empty struct{}

func (s *rpcHandler) ToggleFocusSession(req domain.ToggleFocusSession, resp *sessiondto.SessionOutput) error {
	out, err := s.h.ToggleFocusSession(context.Background(), req)
	if err != nil {
		return err
	}
	*resp = out
	return nil
}

func (s *rpcHandler) UpdateBreakState(req domain.UpdateBreakState, resp *sessiondto.SessionOutput) error {
	out, err := s.h.UpdateBreakState(context.Background(), req)
	if err != nil {
		return err
	}
	*resp = out
	return nil
}

func (s *rpcHandler) StartBreak(req domain.StartBreak, resp *sessiondto.SessionOutput) error {
	out, err := s.h.StartBreak(context.Background(), req)
	if err != nil {
		return err
	}
	*resp = out
	return nil
}

func (s *rpcHandler) StartNextFocus(req domain.StartNextFocus, resp *sessiondto.SessionOutput) error {
	out, err := s.h.StartNextFocus(context.Background(), req)
	if err != nil {
		return err
	}
	*resp = out
	return nil
}

func (s *rpcHandler) Session(_ empty, resp *sessiondto.SessionOutput) error {
	out, err := s.h.Session(context.Background())
	if err != nil {
		return err
	}
	*resp = out
	return nil
}

func (s *rpcHandler) Status(_ empty, resp *domain.Status) error {
	status, err := s.h.Status(context.Background())
	if err != nil {
		return err
	}
	*resp = status
	return nil
}

func (s *rpcHandler) AwaitRefresh(req awaitRefreshReq, resp *awaitRefreshResp) error {
	rev, err := s.h.AwaitRefresh(context.Background(), req.Since, time.Duration(req.TimeoutMS)*time.Millisecond)
	if err != nil {
		return err
	}
	resp.Revision = rev
	return nil
}

func (s *rpcHandler) Stop(_ empty, _ *empty) error {
	return s.h.Stop(context.Background())
}

func (s *JSONRPCServer) Serve(ctx context.Context, socketPath string, handler coordout.IPCHandler) error {
	if err := os.MkdirAll(filepath.Dir(socketPath), 0o755); err != nil {
		return fmt.Errorf("create ipc dir: %w", err)
	}
	if err := os.Remove(socketPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove stale ipc socket: %w", err)
	}
	ln, err := net.Listen("unix", socketPath)
	if err != nil {
		return fmt.Errorf("listen ipc socket: %w", err)
	}
	if err := os.Chmod(socketPath, 0o600); err != nil {
		_ = ln.Close()
		return fmt.Errorf("chmod ipc socket: %w", err)
	}
	defer ln.Close()

	rpcSrv := rpc.NewServer()
	if err := rpcSrv.RegisterName(serviceName, &rpcHandler{h: handler}); err != nil {
		return fmt.Errorf("register ipc handler: %w", err)
	}

	stop := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			_ = ln.Close()
		case <-stop:
		}
	}()
	defer close(stop)

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				continue
			}
			return err
		}
		go rpcSrv.ServeCodec(jsonrpc.NewServerCodec(conn))
	}
}

func (c *JSONRPCClient) ToggleFocusSession(ctx context.Context, socketPath string, req domain.ToggleFocusSession) (sessiondto.SessionOutput, error) {
	resp := sessiondto.SessionOutput{}
	err := call(ctx, socketPath, "ToggleFocusSession", req, &resp, callTimeout)
	return resp, err
}

func (c *JSONRPCClient) UpdateBreakState(ctx context.Context, socketPath string, req domain.UpdateBreakState) (sessiondto.SessionOutput, error) {
	resp := sessiondto.SessionOutput{}
	err := call(ctx, socketPath, "UpdateBreakState", req, &resp, callTimeout)
	return resp, err
}

func (c *JSONRPCClient) StartBreak(ctx context.Context, socketPath string, req domain.StartBreak) (sessiondto.SessionOutput, error) {
	resp := sessiondto.SessionOutput{}
	err := call(ctx, socketPath, "StartBreak", req, &resp, callTimeout)
	return resp, err
}

func (c *JSONRPCClient) StartNextFocus(ctx context.Context, socketPath string, req domain.StartNextFocus) (sessiondto.SessionOutput, error) {
	resp := sessiondto.SessionOutput{}
	err := call(ctx, socketPath, "StartNextFocus", req, &resp, callTimeout)
	return resp, err
}

func (c *JSONRPCClient) Session(ctx context.Context, socketPath string) (sessiondto.SessionOutput, error) {
	resp := sessiondto.SessionOutput{}
	err := call(ctx, socketPath, "Session", empty{}, &resp, callTimeout)
	return resp, err
}

func (c *JSONRPCClient) Status(ctx context.Context, socketPath string) (domain.Status, error) {
	resp := domain.Status{}
	err := call(ctx, socketPath, "Status", empty{}, &resp, callTimeout)
	return resp, err
}

func (c *JSONRPCClient) AwaitRefresh(ctx context.Context, socketPath string, since uint64, timeout time.Duration) (uint64, error) {
	resp := awaitRefreshResp{}
	req := awaitRefreshReq{Since: since, TimeoutMS: timeout.Milliseconds()}
	if err := call(ctx, socketPath, "AwaitRefresh", req, &resp, timeout+callTimeout); err != nil {
		return since, err
	}
	return resp.Revision, nil
}

func (c *JSONRPCClient) Stop(ctx context.Context, socketPath string) error {
	return call(ctx, socketPath, "Stop", empty{}, &empty{}, callTimeout)
}

func call(ctx context.Context, socketPath, method string, req, resp any, timeout time.Duration) error {
	client, err := dialClient(ctx, socketPath, timeout)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrDaemonUnavailable, err)
	}
	defer client.Close()
	return decodeError(client.Call(serviceName+"."+method, req, resp))
}

func dialClient(ctx context.Context, socketPath string, timeout time.Duration) (*rpc.Client, error) {
	d := net.Dialer{}
	conn, err := d.DialContext(ctx, "unix", socketPath)
	if err != nil {
		return nil, err
	}
	_ = conn.SetDeadline(time.Now().Add(timeout))
	return rpc.NewClientWithCodec(jsonrpc.NewClientCodec(conn)), nil
}

var remoteSentinels = []error{
	apperrors.ErrInvalidInput,
	apperrors.ErrActiveSessionExists,
	apperrors.ErrGoalNotFound,
	apperrors.ErrStoreUnavailable,
	apperrors.ErrNotFound,
}

// decodeError restores sentinel identity lost when an error crosses the
// wire as plain text.
func decodeError(err error) error {
	var serverErr rpc.ServerError
	if !errors.As(err, &serverErr) {
		return err
	}
	msg := string(serverErr)
	for _, sentinel := range remoteSentinels {
		if strings.Contains(msg, sentinel.Error()) {
			return fmt.Errorf("%w: %s", sentinel, strings.TrimPrefix(msg, sentinel.Error()+": "))
		}
	}
	return errors.New(msg)
}
