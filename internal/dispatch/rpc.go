package dispatch

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync/atomic"

	"github.com/vyrodovalexey/avaroute/internal/observability"
	"github.com/vyrodovalexey/avaroute/internal/service"
	"github.com/vyrodovalexey/avaroute/internal/util"
)

// unknownFunc is the metric label for calls that matched no service key.
const unknownFunc = "unknown"

// RPCRequest is the body accepted by RPCHandler.
type RPCRequest struct {
	Func   string `json:"func"`
	Params []any  `json:"params"`
}

// RPCRecorder records RPC outcomes. *observability.Metrics implements it.
type RPCRecorder interface {
	RecordRPC(fn string, status int)
}

// ServiceFallbackFunc answers a matched entry that has no registered function.
type ServiceFallbackFunc func(w http.ResponseWriter, r *http.Request, entry service.Entry, params []any)

// RPCHandler serves service calls resolved through a service.Table.
type RPCHandler struct {
	table    atomic.Pointer[service.Table]
	services *Services
	fallback ServiceFallbackFunc
	recorder RPCRecorder
	logger   observability.Logger
}

// RPCOption configures an RPCHandler.
type RPCOption func(*RPCHandler)

// WithServiceFallback sets the function used for entries without an implementation.
func WithServiceFallback(fn ServiceFallbackFunc) RPCOption {
	return func(h *RPCHandler) {
		h.fallback = fn
	}
}

// WithRPCRecorder sets the outcome recorder.
func WithRPCRecorder(rec RPCRecorder) RPCOption {
	return func(h *RPCHandler) {
		h.recorder = rec
	}
}

// WithRPCLogger sets the logger.
func WithRPCLogger(logger observability.Logger) RPCOption {
	return func(h *RPCHandler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// NewRPCHandler creates an RPC handler serving table.
func NewRPCHandler(table *service.Table, services *Services, opts ...RPCOption) *RPCHandler {
	if services == nil {
		services = NewServices()
	}
	if table == nil {
		table = service.NewTable().Freeze()
	}

	h := &RPCHandler{
		services: services,
		logger:   observability.NopLogger(),
	}
	h.table.Store(table)
	for _, opt := range opts {
		opt(h)
	}

	return h
}

// SetTable atomically replaces the service table.
func (h *RPCHandler) SetTable(table *service.Table) {
	h.table.Store(table)
}

// Table returns the current service table.
func (h *RPCHandler) Table() *service.Table {
	return h.table.Load()
}

// ServeHTTP implements http.Handler.
func (h *RPCHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.fail(w, unknownFunc, util.NewMethodNotAllowedError(r.Method, r.URL.Path, []string{http.MethodPost}))
		return
	}

	var req RPCRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.record(unknownFunc, http.StatusRequestEntityTooLarge)
			writeEnvelope(w, http.StatusRequestEntityTooLarge, Envelope{
				Status: http.StatusRequestEntityTooLarge,
				Msg:    "request entity too large",
			})
			return
		}
		h.fail(w, unknownFunc, util.WrapError(util.ErrInvalidInput, "malformed rpc request"))
		return
	}
	if req.Func == "" {
		h.fail(w, unknownFunc, util.WrapError(util.ErrInvalidInput, "rpc request has no func"))
		return
	}

	entry, err := h.table.Load().Match(req.Func)
	if err != nil {
		h.fail(w, unknownFunc, err)
		return
	}

	ctx := util.RecordRoute(r.Context(), entry.ServiceKey)
	r = r.WithContext(ctx)
	observability.SpanFromContext(ctx).SetAttributes(observability.AttrRPCFunc.String(entry.ServiceKey))

	fn, ok := h.services.Lookup(entry.ClassName, entry.MethodName)
	if !ok {
		if h.fallback == nil {
			h.fail(w, entry.ServiceKey, util.NewServiceNotFoundError(req.Func))
			return
		}
		h.record(entry.ServiceKey, http.StatusOK)
		h.fallback(w, r, entry, req.Params)
		return
	}

	data, err := fn(ctx, req.Params)
	if err != nil {
		log := h.logger.WithContext(ctx).Error
		if util.IsClientError(err) {
			log = h.logger.WithContext(ctx).Warn
		}
		log("rpc call failed",
			observability.String("func", entry.ServiceKey),
			observability.Error(err),
		)
		h.fail(w, entry.ServiceKey, err)
		return
	}

	h.record(entry.ServiceKey, http.StatusOK)
	WriteJSON(w, data)
}

func (h *RPCHandler) fail(w http.ResponseWriter, fn string, err error) {
	h.record(fn, StatusFromError(err))
	WriteError(w, err)
}

func (h *RPCHandler) record(fn string, status int) {
	if h.recorder != nil {
		h.recorder.RecordRPC(fn, status)
	}
}

// serviceDescription is the body written by DescribeService.
type serviceDescription struct {
	Func   string `json:"func"`
	Class  string `json:"class"`
	Method string `json:"method"`
	Params []any  `json:"params"`
}

// DescribeService is a fallback that answers with the resolved entry.
func DescribeService(w http.ResponseWriter, _ *http.Request, entry service.Entry, params []any) {
	if params == nil {
		params = []any{}
	}
	WriteJSON(w, serviceDescription{
		Func:   entry.ServiceKey,
		Class:  entry.ClassName,
		Method: entry.MethodName,
		Params: params,
	})
}
