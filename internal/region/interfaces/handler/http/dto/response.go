package dto

import "Hegemonie/internal/region/domain"

// Result 是错误响应的统一信封 {code, msg}。
type Result struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data any    `json:"data,omitempty"`
}

func Error(code int, msg string) Result {
	return Result{Code: code, Msg: msg}
}

const (
	ClickNone     = "none"
	ClickPosition = "position"
	ClickCity     = "city"
	ClickArmy     = "army"
)

// ClickEvent 描述点击某个格子标记时触发的回调及其参数。
type ClickEvent struct {
	Kind string    `json:"kind"`
	Cell domain.ID `json:"cell"`
	City domain.ID `json:"city,omitempty"`
	Name string    `json:"name,omitempty"`
	Army domain.ID `json:"army,omitempty"`
}

// RegionResp 即 /map/region 的响应体。
type RegionResp struct {
	Cells map[domain.ID]domain.Cell `json:"cells"`
	Roads []domain.Road             `json:"roads"`
}
