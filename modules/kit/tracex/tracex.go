package tracex

import (
	"context"
	"crypto/rand"
	"encoding/hex"
)

// HeaderTraceID 是 HTTP 调用之间透传 trace_id 的请求头。
const HeaderTraceID = "X-Trace-Id"

type traceIDKey struct{}
type spanIDKey struct{}

func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey{}, traceID)
}

func TraceIDFrom(ctx context.Context) (string, bool) {
	s, ok := ctx.Value(traceIDKey{}).(string)
	return s, ok && s != ""
}

func WithSpanID(ctx context.Context, spanID string) context.Context {
	return context.WithValue(ctx, spanIDKey{}, spanID)
}

func SpanIDFrom(ctx context.Context) (string, bool) {
	s, ok := ctx.Value(spanIDKey{}).(string)
	return s, ok && s != ""
}

// EnsureTraceID 已有 trace_id 时原样返回，否则生成一个新的。
func EnsureTraceID(ctx context.Context) (context.Context, string) {
	if tid, ok := TraceIDFrom(ctx); ok {
		return ctx, tid
	}
	tid := NewTraceID()
	if tid == "" {
		return ctx, ""
	}
	return WithTraceID(ctx, tid), tid
}

// NewTraceID 生成 16 字节随机 trace_id（hex）。
func NewTraceID() string {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		return ""
	}
	return hex.EncodeToString(b[:])
}
