package httpapi

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/MMoskowitz9/resource-provider-manager/internal/domain"
	"github.com/MMoskowitz9/resource-provider-manager/internal/manager"
	"github.com/MMoskowitz9/resource-provider-manager/internal/metrics"
	"github.com/MMoskowitz9/resource-provider-manager/internal/wire"
)

// StreamIDHeader carries the session-fencing token a resource provider
// echoes back on every call after its initial SUBSCRIBE.
const StreamIDHeader = "Mesos-Stream-Id"

// Server exposes the resource provider call endpoint over HTTP.
type Server struct {
	manager manager.ResourceProviderManager
	metrics *metrics.Collector
	logger  *slog.Logger
}

func NewServer(mgr manager.ResourceProviderManager, m *metrics.Collector, logger *slog.Logger) *Server {
	return &Server{manager: mgr, metrics: m, logger: logger}
}

// HandleCall is the single entry point for the streaming call/event
// protocol: every Call a resource provider sends, subscribe or
// otherwise, arrives here as one POST.
func (s *Server) HandleCall(w http.ResponseWriter, r *http.Request) {
	ctHeader := r.Header.Get("Content-Type")
	if ctHeader == "" {
		BadRequest(w, "missing Content-Type header")
		return
	}
	reqCT, err := wire.ParseContentType(ctHeader)
	if err != nil {
		UnsupportedMediaType(w, err.Error())
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, 16<<20))
	if err != nil {
		BadRequest(w, "failed to read request body: "+err.Error())
		return
	}

	wireCall, err := wire.UnmarshalCall(body, reqCT)
	if err != nil {
		BadRequest(w, err.Error())
		return
	}

	call, err := wire.DevolveCall(wireCall)
	if err != nil {
		BadRequest(w, err.Error())
		return
	}
	if err := domain.Validate(call); err != nil {
		BadRequest(w, err.Error())
		return
	}

	if call.Type == domain.CallTypeSubscribe {
		s.handleSubscribe(w, r, call, reqCT)
		return
	}
	s.handleCall(w, r, call)
}

func (s *Server) handleCall(w http.ResponseWriter, r *http.Request, call domain.Call) {
	streamID, err := uuid.Parse(r.Header.Get(StreamIDHeader))
	if err != nil {
		BadRequest(w, "missing or malformed "+StreamIDHeader+" header")
		return
	}

	err = s.manager.HandleCall(r.Context(), call, streamID)
	status := s.respondToCallResult(w, err)
	s.metrics.HTTPRequest(status)
}

func (s *Server) respondToCallResult(w http.ResponseWriter, err error) string {
	switch {
	case err == nil:
		Accepted(w)
		return "202"
	case err == manager.ErrSessionNotFound, err == manager.ErrStreamIDMismatch:
		BadRequest(w, err.Error())
		return "400"
	case err == manager.ErrUnhandledCallType:
		NotImplemented(w, err.Error())
		return "501"
	default:
		InternalError(w, err.Error())
		return "500"
	}
}

// negotiateAccept picks the encoding used for the SUBSCRIBE response
// stream. An empty or wildcard Accept header defaults to JSON, matching
// the wire protocol's convention for clients that don't care.
func negotiateAccept(header string) (wire.ContentType, error) {
	if header == "" {
		return wire.ContentTypeJSON, nil
	}
	return wire.ParseContentType(header)
}

func (s *Server) handleSubscribe(w http.ResponseWriter, r *http.Request, call domain.Call, _ wire.ContentType) {
	if r.Header.Get(StreamIDHeader) != "" {
		BadRequest(w, "subscribe requests must not carry a "+StreamIDHeader+" header")
		return
	}

	respCT, err := negotiateAccept(r.Header.Get("Accept"))
	if err != nil {
		NotAcceptable(w, err.Error())
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		NotImplemented(w, "streaming responses are not supported by this connection")
		return
	}

	info := call.Subscribe.ResourceProviderInfo
	providerID, streamID, outbox, err := s.manager.Subscribe(r.Context(), info)
	if err != nil {
		InternalError(w, err.Error())
		return
	}

	w.Header().Set("Content-Type", respCT.MediaType())
	w.Header().Set(StreamIDHeader, streamID.String())
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	s.pumpEvents(r.Context(), w, flusher, outbox, respCT, providerID, streamID)
}

// pumpEvents drains a session's outbox for as long as the connection
// stays open, framing and flushing one recordio record per event. It
// returns when the outbox is closed (session torn down elsewhere) or the
// request context is done (resource provider disconnected), notifying
// the manager in the latter case so it can tear the session down too.
func (s *Server) pumpEvents(
	ctx context.Context,
	w http.ResponseWriter,
	flusher http.Flusher,
	outbox *manager.Queue[domain.Event],
	respCT wire.ContentType,
	providerID domain.ResourceProviderID,
	streamID uuid.UUID,
) {
	for {
		event, ok := outbox.Next(ctx)
		if !ok {
			if ctx.Err() != nil {
				s.manager.SessionClosed(providerID, streamID)
			}
			return
		}

		wireEvent := wire.EvolveEvent(event)
		data, err := wire.MarshalEvent(wireEvent, respCT)
		if err != nil {
			s.logger.Error("failed to marshal outbound event",
				"resource_provider_id", providerID.String(), "error", err)
			continue
		}

		if _, err := w.Write(wire.FrameRecord(data)); err != nil {
			s.logger.Info("resource provider disconnected mid-stream",
				"resource_provider_id", providerID.String(), "error", err)
			s.manager.SessionClosed(providerID, streamID)
			return
		}
		flusher.Flush()
	}
}
