package interfaces

import (
	"Hegemonie/internal/region/app"
	"Hegemonie/internal/region/interfaces/handler/http"
	transporthttp "Hegemonie/internal/shared/transport/http"
	"Hegemonie/modules/kit/logx"

	"github.com/gin-gonic/gin"
)

type Module struct {
	httpHandler *http.HttpHandler
}

func New(regions *app.RegionService, log logx.Logger) *Module {
	return &Module{
		httpHandler: http.NewHttpHandler(regions, log),
	}
}

func (m *Module) HttpRegister(g *gin.RouterGroup) {
	m.httpHandler.RegisterRoutes(g)
}

var _ transporthttp.Registrar = (*Module)(nil)
