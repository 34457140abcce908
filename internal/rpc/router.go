package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"calmcp/internal/auth"
	"calmcp/internal/instrumentation"
	"calmcp/internal/logging"
	"calmcp/internal/store"
	"calmcp/internal/tools"
)

// Router validates envelopes and routes methods to handlers. It holds no
// per-request state; every call is handled independently.
type Router struct {
	registry   *tools.Registry
	dispatcher *tools.Dispatcher
	gate       auth.Gate
	logger     *slog.Logger
	metrics    *instrumentation.Metrics
	serverInfo ServerInfo
}

// NewRouter wires the router to its collaborators. gate may be nil for
// backends that need no credential; metrics may be nil.
func NewRouter(registry *tools.Registry, dispatcher *tools.Dispatcher, gate auth.Gate, logger *slog.Logger, metrics *instrumentation.Metrics, info ServerInfo) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{
		registry:   registry,
		dispatcher: dispatcher,
		gate:       gate,
		logger:     logger,
		metrics:    metrics,
		serverInfo: info,
	}
}

// HandleRaw decodes one request body and handles it. On a body that does not
// decode, the response id is the best-effort value recovered from the raw
// bytes, or null if even that is unavailable.
func (r *Router) HandleRaw(ctx context.Context, body []byte) *Response {
	var req Request
	if err := json.Unmarshal(body, &req); err != nil {
		return &Response{
			JSONRPC: "2.0",
			ID:      recoverID(body),
			Error:   &Error{Code: CodeParseError, Message: "Parse error", Data: err.Error()},
		}
	}
	return r.Handle(ctx, &req)
}

// Handle routes one decoded envelope and wraps the outcome as a JSON-RPC
// response. Panics in handlers are caught here and reported as internal
// errors, so a single bad request can never take the transport down.
func (r *Router) Handle(ctx context.Context, req *Request) (resp *Response) {
	start := time.Now()

	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("handler panic", logging.Method(req.Method), slog.Any("panic", rec))
			resp = r.errorResponse(req.ID, CodeInternalError, "Internal error", fmt.Sprint(rec))
		}
		code := 0
		if resp.Error != nil {
			code = resp.Error.Code
		}
		duration := time.Since(start)
		r.metrics.RecordRPCRequest(ctx, req.Method, code, duration)
		r.logger.Debug("request handled",
			logging.Method(req.Method),
			logging.Code(code),
			logging.Duration(duration),
		)
	}()

	if req.JSONRPC != "2.0" {
		return r.errorResponse(req.ID, CodeInvalidRequest, "Invalid Request", nil)
	}

	switch req.Method {
	case "initialize":
		return r.result(req.ID, InitializeResult{
			ProtocolVersion: ProtocolVersion,
			Capabilities:    ServerCapabilities{Tools: ToolsCapability{ListChanged: false}},
			ServerInfo:      r.serverInfo,
		})
	case "notifications/initialized":
		return r.result(req.ID, struct{}{})
	case "tools/list":
		return r.result(req.ID, ListToolsResult{Tools: r.registry.Definitions()})
	case "tools/call":
		return r.handleToolsCall(ctx, req)
	default:
		return r.errorResponse(req.ID, CodeMethodNotFound, "Method not found", nil)
	}
}

func (r *Router) handleToolsCall(ctx context.Context, req *Request) *Response {
	if r.gate != nil && !r.gate.IsAuthenticated() {
		return r.errorResponse(req.ID, CodeAuthRequired, "Authentication required",
			map[string]string{"auth_url": r.gate.AuthorizationURL()})
	}

	var params CallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return r.errorResponse(req.ID, CodeInvalidParams, "Invalid params", err.Error())
	}

	result, err := r.dispatcher.Dispatch(ctx, params.Name, params.Arguments)
	if err != nil {
		r.logger.Warn("tool call failed", logging.Tool(params.Name), logging.Err(err))
		return r.toolError(req.ID, err)
	}
	return r.result(req.ID, result)
}

// toolError maps dispatcher failures onto the error code table. Anything
// outside the known categories is an internal error with the failure message
// as data.
func (r *Router) toolError(id json.RawMessage, err error) *Response {
	switch {
	case errors.Is(err, tools.ErrInvalidArguments):
		return r.errorResponse(id, CodeInvalidParams, "Invalid params", err.Error())
	case errors.Is(err, store.ErrNotFound):
		return r.errorResponse(id, CodeNotFound, "Not found", err.Error())
	default:
		return r.errorResponse(id, CodeInternalError, "Internal error", err.Error())
	}
}

func (r *Router) result(id json.RawMessage, result any) *Response {
	return &Response{JSONRPC: "2.0", ID: id, Result: result}
}

func (r *Router) errorResponse(id json.RawMessage, code int, message string, data any) *Response {
	return &Response{
		JSONRPC: "2.0",
		ID:      id,
		Error:   &Error{Code: code, Message: message, Data: data},
	}
}

// recoverID pulls the id out of a body that failed to decode as a Request.
func recoverID(body []byte) json.RawMessage {
	var probe struct {
		ID json.RawMessage `json:"id"`
	}
	if err := json.Unmarshal(body, &probe); err != nil {
		return nil
	}
	return probe.ID
}
