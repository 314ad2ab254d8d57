package http

import (
	"bytes"
	"context"
	nethttp "net/http"

	"Hegemonie/internal/mapview/render"
	"Hegemonie/internal/mapview/svg"
	"Hegemonie/internal/region/app"
	"Hegemonie/internal/region/domain"
	"Hegemonie/internal/region/interfaces/handler/http/dto"
	"Hegemonie/internal/shared/transport"
	"Hegemonie/modules/kit/errx"
	"Hegemonie/modules/kit/logx"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// viewMargin 是 viewBox 在城池标记外额外留出的边距。
const viewMargin = 10

type HttpHandler struct {
	regions  *app.RegionService
	renderer *render.Renderer
	log      logx.Logger
}

func NewHttpHandler(regions *app.RegionService, log logx.Logger) *HttpHandler {
	if log == nil {
		log = logx.Nop()
	}
	return &HttpHandler{
		regions:  regions,
		renderer: render.NewRenderer(regions, log),
		log:      log,
	}
}

func (h *HttpHandler) RegisterRoutes(group *gin.RouterGroup) {
	mapGroup := group.Group("/map")
	mapGroup.GET("/region", h.Region)
	mapGroup.GET("/cities", h.Cities)
	mapGroup.GET("/svg", h.SVG)
	mapGroup.GET("/click", h.Click)
}

func (h *HttpHandler) Region(c *gin.Context) {
	ctx := c.Request.Context()

	r, err := h.regions.Load(ctx, c.Query("id"))
	if err != nil {
		h.error(ctx, c, err)
		return
	}
	c.JSON(nethttp.StatusOK, dto.RegionResp{Cells: r.Map.Cells, Roads: r.Map.Roads})
}

func (h *HttpHandler) Cities(c *gin.Context) {
	ctx := c.Request.Context()

	cities, err := h.regions.Cities(ctx, c.Query("id"))
	if err != nil {
		h.error(ctx, c, err)
		return
	}
	c.JSON(nethttp.StatusOK, domain.CityList(cities).ByID())
}

// SVG 服务端渲染整张地图；有 army 参数时叠加军队，有 here 参数时高亮该格子。
func (h *HttpHandler) SVG(c *gin.Context) {
	ctx := c.Request.Context()
	name := c.Query("id")

	armies, err := domain.ParseArmies(c.QueryArray("army"))
	if err != nil {
		h.error(ctx, c, err)
		return
	}

	doc := svg.NewDocument()
	var m *domain.Map
	if len(armies) > 0 {
		m, err = h.renderer.DrawMapWithArmies(ctx, doc.Surface(), name, armies, nil)
	} else {
		m, err = h.renderer.DrawMapWithCities(ctx, doc.Surface(), name, nil, nil)
	}
	if err != nil {
		h.error(ctx, c, err)
		return
	}
	if here := c.Query("here"); here != "" {
		render.HighlightCell(doc.Surface(), domain.ID(here))
	}
	render.FitViewBox(doc, m, viewMargin)

	var buf bytes.Buffer
	if _, err := doc.WriteTo(&buf); err != nil {
		h.error(ctx, c, errx.ErrInternal.WithCause(err))
		return
	}
	c.Data(nethttp.StatusOK, "image/svg+xml; charset=utf-8", buf.Bytes())
}

// Click 绑定全部点击回调后点击 cell 的标记，返回被触发的回调。
func (h *HttpHandler) Click(c *gin.Context) {
	ctx := c.Request.Context()
	name := c.Query("id")
	cell := domain.ID(c.Query("cell"))
	if cell == "" {
		h.error(ctx, c, errx.ErrReqParamERR.WithData("param", "cell"))
		return
	}
	armies, err := domain.ParseArmies(c.QueryArray("army"))
	if err != nil {
		h.error(ctx, c, err)
		return
	}

	event := dto.ClickEvent{Kind: dto.ClickNone, Cell: cell}
	onPosition := func(id domain.ID) {
		event = dto.ClickEvent{Kind: dto.ClickPosition, Cell: id}
	}
	onCity := func(cellID, cityID domain.ID, cityName string) {
		event = dto.ClickEvent{Kind: dto.ClickCity, Cell: cellID, City: cityID, Name: cityName}
	}
	onArmy := func(cellID, armyID domain.ID) {
		event = dto.ClickEvent{Kind: dto.ClickArmy, Cell: cellID, Army: armyID}
	}

	doc := svg.NewDocument()
	m, err := h.renderer.DrawMapWithCities(ctx, doc.Surface(), name, onPosition, onCity)
	if err != nil {
		h.error(ctx, c, err)
		return
	}
	if _, err := render.PatchWithArmies(doc.Surface(), m, armies, onArmy); err != nil {
		h.error(ctx, c, err)
		return
	}

	marker := render.Marker(doc.Surface(), cell)
	if marker == nil {
		h.error(ctx, c, render.ErrCellNotFound.WithData("cell", cell.String()))
		return
	}
	marker.Click()
	c.JSON(nethttp.StatusOK, event)
}

func (h *HttpHandler) error(ctx context.Context, c *gin.Context, err error) {
	status, code, msg := mapError(err)
	reason := errorReason(ctx, err)
	action := c.Request.Method + " " + c.FullPath()
	if status >= nethttp.StatusInternalServerError {
		logx.ReportSysError(ctx, h.log, logx.NewSysLog(action, err), zap.String("region", c.Query("id")))
	} else {
		logx.ReportBiz(ctx, h.log, logx.NewBizLog(action, reason, msg), zap.String("region", c.Query("id")))
	}
	transport.SetBizCode(ctx, transport.BizCode(code))
	c.JSON(status, dto.Error(code, msg))
}
