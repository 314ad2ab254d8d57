package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"

	"Hegemonie/internal/shared/transport"
	"Hegemonie/modules/kit/logx"
	"Hegemonie/modules/kit/tracex"

	"github.com/gin-gonic/gin"
)

type bodyCaptureWriter struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *bodyCaptureWriter) Write(data []byte) (int, error) {
	_, _ = w.body.Write(data)
	return w.ResponseWriter.Write(data)
}

func (w *bodyCaptureWriter) WriteString(s string) (int, error) {
	_, _ = w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// AccessLog 统一写访问日志；JSON 响应体中带 `code` 字段时以它作为业务码，否则按 HTTP 状态判断。
func AccessLog(log logx.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		action := c.Request.Method + " " + route

		ctx := transport.NewContextWithParent(c.Request.Context(), action, c.GetHeader(tracex.HeaderTraceID))
		c.Request = c.Request.WithContext(ctx)
		if tid, ok := tracex.TraceIDFrom(ctx); ok {
			c.Header(tracex.HeaderTraceID, tid)
		}

		bw := &bodyCaptureWriter{ResponseWriter: c.Writer}
		c.Writer = bw

		c.Next()

		isJSON := strings.HasPrefix(c.Writer.Header().Get("Content-Type"), "application/json")
		if bizCode, ok := parseBizCode(bw.body.Bytes()); isJSON && ok {
			transport.SetBizCode(ctx, transport.BizCode(bizCode))
		} else if c.Writer.Status() >= http.StatusBadRequest {
			transport.SetBizCode(ctx, transport.BizCode(c.Writer.Status()))
		} else {
			transport.SetBizCode(ctx, transport.BizCode(transport.OK))
		}
		if len(c.Errors) > 0 {
			transport.SetErrorReason(ctx, c.Errors.Last().Error())
		}

		transport.WriteAccessLog(ctx, log)
	}
}

func parseBizCode(body []byte) (int, bool) {
	if len(body) == 0 || body[0] != '{' {
		return 0, false
	}
	// 常见响应体格式：{"code":123, ...}
	var payload struct {
		Code *int `json:"code"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return 0, false
	}
	if payload.Code == nil {
		return 0, false
	}
	return *payload.Code, true
}
