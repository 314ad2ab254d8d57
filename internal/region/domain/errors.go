package domain

import "Hegemonie/modules/kit/errx"

// Code 表示领域错误码。
//
// 约定：
// - 领域层只关心“是什么错”（code）以及上下文（data：cell、road、region 等）
// - cause 仅用于溯源/日志
type Code = errx.Code

const (
	CodeInvalidMap        Code = "REGION_INVALID_MAP"
	CodeInvalidCity       Code = "REGION_INVALID_CITY"
	CodeInvalidArmy       Code = "REGION_INVALID_ARMY"
	CodeInvalidRegionName Code = "REGION_INVALID_NAME"
)

type Error = errx.Error

var (
	ErrInvalidMap        = errx.NewBiz(CodeInvalidMap, "地图数据不合法")
	ErrInvalidCity       = errx.NewBiz(CodeInvalidCity, "城池数据不合法")
	ErrInvalidArmy       = errx.NewBiz(CodeInvalidArmy, "军队参数不合法")
	ErrInvalidRegionName = errx.NewBiz(CodeInvalidRegionName, "地图名称不合法")
)
