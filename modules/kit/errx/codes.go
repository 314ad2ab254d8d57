package errx

// 跨服务统一的系统类错误码。
//
// 约束：
// - 只放“系统/技术类”错误码，便于告警与排障
// - 业务域错误码（例如 REGION_NOT_FOUND）由各业务模块自行定义
const (
	// CodeInternal 服务内部不可预期错误（兜底）。
	CodeInternal Code = "INTERNAL_ERROR"
	// CodeUnavailable 依赖不可用（存储、上游地图服务、网络异常等）。
	CodeUnavailable Code = "SERVICE_UNAVAILABLE"
	// CodeTimeout 请求/依赖调用超时。
	CodeTimeout Code = "TIMEOUT"
	// CodeReqParamError 请求参数错误。
	CodeReqParamError Code = "CODE_REQ_PARAM_ERROR"
	// CodeInvalidPayload 上游返回的数据无法解析或不满足约束。
	CodeInvalidPayload Code = "INVALID_PAYLOAD"
)

// 统一系统类哨兵错误（通过 WithData/WithCause 派生新对象，不要直接修改）。
var (
	ErrInternal       = NewSys(CodeInternal, "服务器内部错误")
	ErrUnavailable    = NewSys(CodeUnavailable, "服务不可用")
	ErrTimeout        = NewSys(CodeTimeout, "请求超时")
	ErrReqParamERR    = NewSys(CodeReqParamError, "请求参数错误")
	ErrInvalidPayload = NewSys(CodeInvalidPayload, "数据格式错误")
)
