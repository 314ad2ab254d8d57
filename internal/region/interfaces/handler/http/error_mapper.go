package http

import (
	"context"
	"errors"
	nethttp "net/http"

	"Hegemonie/internal/mapview/client"
	"Hegemonie/internal/mapview/render"
	"Hegemonie/internal/region/app"
	"Hegemonie/internal/region/domain"
	"Hegemonie/internal/shared/transport"
	"Hegemonie/modules/kit/errx"
)

// mapError 把错误链映射为 HTTP 状态、业务码和对外文案。
func mapError(err error) (status int, code int, msg string) {
	switch {
	case errors.Is(err, domain.ErrInvalidRegionName),
		errors.Is(err, domain.ErrInvalidArmy),
		errors.Is(err, errx.ErrReqParamERR),
		errors.Is(err, render.ErrCellNotFound),
		errors.Is(err, render.ErrMarkerNotFound):
		return nethttp.StatusBadRequest, transport.InvalidParam, messageOf(err, "参数有误")
	case errors.Is(err, app.ErrRegionNotFound):
		return nethttp.StatusNotFound, transport.RegionNotFound, messageOf(err, "地图不存在")
	case errors.Is(err, app.ErrUnavailable),
		errors.Is(err, errx.ErrTimeout),
		errors.Is(err, errx.ErrInvalidPayload),
		errors.Is(err, client.ErrUpstreamStatus):
		return nethttp.StatusBadGateway, transport.UpstreamError, "系统繁忙，请稍后重试"
	default:
		return nethttp.StatusInternalServerError, transport.SystemError, "系统繁忙，请稍后重试"
	}
}

func messageOf(err error, fallback string) string {
	var e *errx.Error
	if errors.As(err, &e) && e.Msg() != "" {
		return e.Msg()
	}
	return fallback
}

// errorReason 依次取 reason、错误码，写入 access 日志并返回。
func errorReason(ctx context.Context, err error) string {
	reason := err.Error()
	var e *errx.Error
	if errors.As(err, &e) {
		reason = e.Reason()
		if reason == "" {
			reason = e.CodeText()
		}
	}
	transport.SetErrorReason(ctx, reason)
	return reason
}
