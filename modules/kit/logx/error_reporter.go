package logx

import (
	"errors"
	"fmt"
	"path"
	"runtime"
	"strings"

	"go.uber.org/zap"
)

const (
	maxCauseDepth  = 20
	maxStackFrames = 32
)

// ErrorLog 是从错误链上提取出的日志字段。
type ErrorLog struct {
	Error      string
	Code       string
	Msg        string
	Reason     string
	Data       map[string]any
	CauseChain []string
	Origin     string
	Stack      []string
}

// BuildErrorLog 沿错误链提取 code/msg/data/reason，以及 cause 链和第一次包装处的栈。
// 各字段通过方法集探测，不依赖具体错误类型。
func BuildErrorLog(err error) ErrorLog {
	if err == nil {
		return ErrorLog{}
	}
	out := ErrorLog{Error: err.Error()}

	if p, ok := as[interface{ CodeText() string }](err); ok {
		out.Code = p.CodeText()
	}
	if p, ok := as[interface{ Msg() string }](err); ok {
		out.Msg = p.Msg()
	}
	if p, ok := as[interface{ Data() map[string]any }](err); ok {
		out.Data = p.Data()
	}
	if p, ok := as[interface{ Reason() string }](err); ok {
		out.Reason = p.Reason()
	}
	if p, ok := as[interface{ Stack() []uintptr }](err); ok {
		out.Stack = formatStack(p.Stack(), maxStackFrames)
		if len(out.Stack) > 0 {
			out.Origin = out.Stack[0]
		}
	}
	out.CauseChain = buildCauseChain(err, maxCauseDepth)
	return out
}

// Fields 转成 zap 字段，空值不输出。
func (e ErrorLog) Fields() []zap.Field {
	var fields []zap.Field
	if e.Code != "" {
		fields = append(fields, zap.String("error_code", e.Code))
	}
	if e.Reason != "" {
		fields = append(fields, zap.String("reason", e.Reason))
	}
	if len(e.CauseChain) != 0 {
		fields = append(fields, zap.Strings("cause_chain", e.CauseChain))
	}
	if len(e.Data) != 0 {
		fields = append(fields, zap.Any("error_data", e.Data))
	}
	if e.Origin != "" {
		fields = append(fields, zap.String("origin_caller", e.Origin))
	}
	if len(e.Stack) != 0 {
		fields = append(fields, zap.String("stack_origin", strings.Join(e.Stack, "\n")))
	}
	return fields
}

func as[T any](err error) (T, bool) {
	var target T
	ok := errors.As(err, &target)
	return target, ok
}

func buildCauseChain(err error, maxDepth int) []string {
	var out []string
	cur := errors.Unwrap(err)
	for i := 0; i < maxDepth && cur != nil; i++ {
		out = append(out, fmt.Sprintf("%T: %v", cur, cur))
		cur = errors.Unwrap(cur)
	}
	return out
}

// formatStack 跳过 runtime 帧，文件只保留最后两级目录。
func formatStack(pcs []uintptr, maxFrames int) []string {
	if len(pcs) == 0 || maxFrames <= 0 {
		return nil
	}
	frames := runtime.CallersFrames(pcs)
	out := make([]string, 0, min(len(pcs), maxFrames))
	for len(out) < maxFrames {
		f, more := frames.Next()
		if f.Function != "" && !strings.HasPrefix(f.Function, "runtime.") {
			out = append(out, fmt.Sprintf("%s %s:%d", f.Function, shortFile(f.File), f.Line))
		}
		if !more {
			break
		}
	}
	return out
}

func shortFile(file string) string {
	dir, name := path.Split(file)
	parent := path.Base(strings.TrimSuffix(dir, "/"))
	if parent == "." || parent == "/" || parent == "" {
		return name
	}
	return parent + "/" + name
}
