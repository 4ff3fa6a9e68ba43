package http

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/superj80820/url-shortener/kit/code"
	utilKit "github.com/superj80820/url-shortener/kit/util"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type ctxKeyType int

const (
	_CTX_IP_KEY ctxKeyType = iota
	_CTX_URL_PATH
	_CTX_ROUTE
	_CTX_METHOD
	_CTX_USER_AGENT
	_CTX_TRACE_ID
	_CTX_REQUEST_ID
)

func ReadUserIP(r *http.Request) string {
	IPAddress := r.Header.Get("X-Real-Ip")
	if IPAddress == "" {
		IPAddress = strings.TrimSpace(strings.Split(r.Header.Get("X-Forwarded-For"), ",")[0])
	}
	if IPAddress == "" {
		IPAddress = r.RemoteAddr
	}
	if host, _, err := net.SplitHostPort(IPAddress); err == nil {
		return host
	}
	return IPAddress
}

func readRoute(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if pathTemplate, err := route.GetPathTemplate(); err == nil {
			return pathTemplate
		}
	}
	return r.URL.Path
}

func CustomBeforeCtx(tracer trace.Tracer) func(ctx context.Context, r *http.Request) context.Context {
	return func(ctx context.Context, r *http.Request) context.Context {
		ctx = context.WithValue(ctx, _CTX_URL_PATH, r.URL.Path)
		ctx = context.WithValue(ctx, _CTX_ROUTE, readRoute(r))
		ctx = context.WithValue(ctx, _CTX_METHOD, r.Method)
		ctx = context.WithValue(ctx, _CTX_USER_AGENT, r.UserAgent())
		ctx = context.WithValue(ctx, _CTX_IP_KEY, ReadUserIP(r))
		ctx = AddRequestID(ctx)

		ctx, span := tracer.Start(ctx, r.Method+" "+readRoute(r), trace.WithSpanKind(trace.SpanKindServer))
		ctx = AddTraceID(ctx, span.SpanContext().TraceID().String())

		return ctx
	}
}

// CustomAfterCtx ends the span started by CustomBeforeCtx. It runs after the
// endpoint on success and from EncodeHTTPErrorResponse on failure.
func CustomAfterCtx(ctx context.Context, w http.ResponseWriter) context.Context {
	span := trace.SpanFromContext(ctx)
	w.Header().Set("X-B3-TraceId", span.SpanContext().TraceID().String())
	span.End()
	return ctx
}

func getString(ctx context.Context, key ctxKeyType) string {
	value, _ := ctx.Value(key).(string)
	return value
}

func GetTraceID(ctx context.Context) string {
	return getString(ctx, _CTX_TRACE_ID)
}

func AddTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, _CTX_TRACE_ID, traceID)
}

func GetIP(ctx context.Context) string {
	return getString(ctx, _CTX_IP_KEY)
}

func GetURL(ctx context.Context) string {
	return getString(ctx, _CTX_URL_PATH)
}

func GetRoute(ctx context.Context) string {
	return getString(ctx, _CTX_ROUTE)
}

func GetMethod(ctx context.Context) string {
	return getString(ctx, _CTX_METHOD)
}

func GetUserAgent(ctx context.Context) string {
	return getString(ctx, _CTX_USER_AGENT)
}

func AddRequestID(ctx context.Context) context.Context {
	return context.WithValue(ctx, _CTX_REQUEST_ID, utilKit.GetSnowflakeIDInt64())
}

func GetRequestID(ctx context.Context) int64 {
	requestID, _ := ctx.Value(_CTX_REQUEST_ID).(int64)
	return requestID
}

func EncodeHTTPErrorResponse() func(ctx context.Context, err error, w http.ResponseWriter) {
	return func(ctx context.Context, err error, w http.ResponseWriter) {
		if err == nil {
			panic("encodeError with nil error")
		}

		errorCode := code.CreateHTTPError(code.ParseErrorCode(err))
		if errorCode.HTTPCode >= http.StatusInternalServerError {
			trace.SpanFromContext(ctx).SetStatus(codes.Error, errorCode.Message)
		}
		CustomAfterCtx(ctx, w)

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(errorCode.HTTPCode)
		json.NewEncoder(w).Encode(errorCode)
	}
}
