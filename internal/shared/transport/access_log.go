package transport

import (
	"context"
	"time"

	"Hegemonie/modules/kit/logx"
	"Hegemonie/modules/kit/tracex"

	"go.uber.org/zap"
)

// AccessLog 是请求级日志上下文。
type AccessLog struct {
	BizCode     BizCode
	ErrorReason string
	startTime   time.Time
	action      string
}

type accessLogKey struct{}

// NewContext 创建带 AccessLog 的新 context（以 background 为父 context）。
func NewContext(action string) context.Context {
	return NewContextWithParent(context.Background(), action, "")
}

// NewContextWithParent 创建带 AccessLog 的 context，保留父 context 的取消/超时信号。
// traceID 为空时生成新的 trace_id。
func NewContextWithParent(parent context.Context, action, traceID string) context.Context {
	ctx := parent
	if ctx == nil {
		ctx = context.Background()
	}
	if action == "" {
		action = "unknown"
	}
	if traceID == "" {
		traceID = tracex.NewTraceID()
	}
	if traceID != "" {
		ctx = tracex.WithTraceID(ctx, traceID)
	}
	ctx = tracex.WithSpanID(ctx, "mapd")

	al := &AccessLog{
		BizCode:   BizCode(SystemError),
		startTime: time.Now(),
		action:    action,
	}
	return context.WithValue(ctx, accessLogKey{}, al)
}

func FromContext(ctx context.Context) *AccessLog {
	if ctx == nil {
		return nil
	}
	al, _ := ctx.Value(accessLogKey{}).(*AccessLog)
	return al
}

func SetBizCode(ctx context.Context, code BizCode) {
	if al := FromContext(ctx); al != nil {
		al.BizCode = code
	}
}

// SetErrorReason 设置 access 日志错误原因（失败场景）。
func SetErrorReason(ctx context.Context, reason string) {
	if reason == "" {
		return
	}
	if al := FromContext(ctx); al != nil {
		al.ErrorReason = reason
	}
}

// WriteAccessLog 输出访问日志，由中间件在请求结束时调用。
func WriteAccessLog(ctx context.Context, log logx.Logger) {
	al := FromContext(ctx)
	if al == nil || log == nil {
		return
	}

	fields := []zap.Field{
		zap.Duration("latency", time.Since(al.startTime)),
	}
	if al.BizCode == BizCode(OK) {
		fields = append(fields, zap.String("result", "success"))
	} else {
		fields = append(fields, zap.String("result", "failure"))
		if al.ErrorReason != "" {
			fields = append(fields, zap.String("error_reason", al.ErrorReason))
		}
	}
	logx.ReportAccess(ctx, log, al.action, int(al.BizCode), fields...)
}
