package logx

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// BizLog 业务拒绝日志的输入（参数不合法、地图不存在等）。
type BizLog struct {
	Action  string
	Reason  string
	Message string
}

// SysLog 技术错误日志的输入。
type SysLog struct {
	Action string
	Err    error
}

func NewBizLog(action, reason, message string) BizLog {
	return BizLog{Action: action, Reason: reason, Message: message}
}

func NewSysLog(action string, err error) SysLog {
	return SysLog{Action: action, Err: err}
}

// ReportAccess 记录访问日志：
// - biz_code == 0: INFO
// - biz_code  1~499: WARN
// - biz_code >= 500: ERROR
func ReportAccess(ctx context.Context, l Logger, action string, bizCode int, fields ...zap.Field) {
	if l == nil {
		return
	}
	base := []zap.Field{
		zap.String("log_type", "access"),
		zap.String("action", action),
		zap.Int("biz_code", bizCode),
	}
	base = append(base, fields...)
	withCtx := l.WithContext(ctx)
	switch {
	case bizCode == 0:
		withCtx.Info("access", base...)
	case bizCode >= 500:
		withCtx.Error("access", base...)
	default:
		withCtx.Warn("access", base...)
	}
}

// ReportBiz 记录业务拒绝：INFO、err_type=biz、不带堆栈。
func ReportBiz(ctx context.Context, l Logger, biz BizLog, fields ...zap.Field) {
	if l == nil {
		return
	}
	action := biz.Action
	if action == "" {
		action = "biz_reject"
	}
	base := []zap.Field{
		zap.String("err_type", "biz"),
		zap.String("action", action),
	}
	if biz.Reason != "" {
		base = append(base, zap.String("reason", biz.Reason))
	}
	if biz.Message != "" {
		base = append(base, zap.String("biz_message", biz.Message))
	}
	base = append(base, fields...)

	msg := action
	switch {
	case biz.Reason != "" && biz.Message != "":
		msg = fmt.Sprintf("%s, reason:%s, msg:%s", action, biz.Reason, biz.Message)
	case biz.Reason != "":
		msg = fmt.Sprintf("%s, reason:%s", action, biz.Reason)
	case biz.Message != "":
		msg = fmt.Sprintf("%s, msg:%s", action, biz.Message)
	}
	l.WithContext(ctx).Info(msg, base...)
}

// ReportSysError 记录技术错误：ERROR、err_type=sys，附带 cause 链和发生处栈。
func ReportSysError(ctx context.Context, l Logger, sys SysLog, fields ...zap.Field) {
	if sys.Err == nil || l == nil {
		return
	}
	action := sys.Action
	if action == "" {
		action = "sys_error"
	}

	meta := BuildErrorLog(sys.Err)
	base := []zap.Field{
		zap.String("err_type", "sys"),
		zap.String("action", action),
	}
	base = append(base, meta.Fields()...)
	base = append(base, fields...)

	var msg string
	switch {
	case meta.Reason != "":
		msg = fmt.Sprintf("%s, reason:%s, error:%s", action, meta.Reason, meta.Error)
	case meta.Msg != "":
		msg = fmt.Sprintf("%s, error:%s, msg:%s", action, meta.Error, meta.Msg)
	default:
		msg = fmt.Sprintf("%s, error:%s", action, meta.Error)
	}
	l.WithContext(ctx).Error(msg, base...)
}
