package app

import "Hegemonie/modules/kit/errx"

type Code = errx.Code

const (
	CodeRegionNotFound Code = "REGION_NOT_FOUND"
	CodeInternalServer Code = errx.CodeInternal
	CodeUnavailable    Code = errx.CodeUnavailable
)

type Error = errx.Error

// 哨兵错误：通过 WithData/WithCause 派生新对象，不要直接修改。
var (
	ErrRegionNotFound = errx.NewBiz(CodeRegionNotFound, "地图不存在")
	ErrInternalServer = errx.ErrInternal
	ErrUnavailable    = errx.ErrUnavailable
)
