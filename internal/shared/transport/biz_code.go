package transport

// BizCode 表示业务码的强类型封装，用于在日志上下文中减少误传风险。
type BizCode int

// 响应体 {code, msg} 中使用的业务码，与 HTTP 状态码取值保持一致，便于 access 日志分级。
const (
	OK             = 0
	InvalidParam   = 400
	RegionNotFound = 404
	SystemError    = 500
	UpstreamError  = 502
)
