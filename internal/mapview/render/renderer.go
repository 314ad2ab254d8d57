package render

import (
	"context"
	"fmt"
	"math"

	"Hegemonie/internal/mapview/svg"
	"Hegemonie/internal/region/domain"
	"Hegemonie/modules/kit/errx"
	"Hegemonie/modules/kit/logx"

	"go.uber.org/zap"
)

const (
	// CellRadius 普通格子标记的半径。
	CellRadius = 5
	// CityRadius 有城池的格子放大后的半径。
	CityRadius = 23
	// ArmyPadding 军队标记相对格子左上角的内边距。
	ArmyPadding = 5

	ClassClickable = "clickable"
	ClassHere      = "here"
)

var (
	ErrCellNotFound   = errx.NewBiz("RENDER_CELL_NOT_FOUND", "格子不存在")
	ErrMarkerNotFound = errx.NewBiz("RENDER_MARKER_NOT_FOUND", "格子标记未绘制")
)

type (
	// PositionHandler 点击格子，参数为格子 key。
	PositionHandler func(cellID domain.ID)
	// CityHandler 点击城池。
	CityHandler func(cellID, cityID domain.ID, cityName string)
	// ArmyHandler 点击有军队的格子。
	ArmyHandler func(cellID, armyID domain.ID)
)

// Source 提供地图拓扑和城池数据，HTTP 客户端和进程内的 RegionService 都实现了它。
type Source interface {
	Region(ctx context.Context, name string) (*domain.Map, error)
	Cities(ctx context.Context, name string) ([]domain.City, error)
}

// Renderer 按 拉取 -> 绘制 -> 叠加 的顺序把一张地图画到 SVG 上。
// 同一个 surface 同一时间只能交给一个渲染流程。
type Renderer struct {
	source Source
	log    logx.Logger
}

func NewRenderer(source Source, log logx.Logger) *Renderer {
	if log == nil {
		log = logx.Nop()
	}
	return &Renderer{source: source, log: log}
}

// InstallAction 给 container 下所有带 class 的节点绑定同一个点击回调。
func InstallAction(container *svg.Element, class string, action func()) *svg.Element {
	elements := container.GetElementsByClassName(class)
	for i := 0; i < len(elements); i++ {
		elements[i].OnClick(action)
	}
	return container
}

func DrawCircle(surface *svg.Element, cell domain.Cell) *svg.Element {
	class := "cell " + ClassClickable
	if cell.HasCity() {
		class = "city " + ClassClickable
	}
	c := svg.NewElement("circle").
		SetAttr("class", class).
		SetAttr("id", cell.ID.String()).
		SetAttr("cx", svg.FormatNumber(cell.X)).
		SetAttr("cy", svg.FormatNumber(cell.Y)).
		SetAttr("r", svg.FormatNumber(CellRadius))
	return surface.AppendChild(c)
}

func DrawLine(surface *svg.Element, src, dst domain.Cell) *svg.Element {
	l := svg.NewElement("line").
		SetAttr("class", "road").
		SetAttr("x1", svg.FormatNumber(src.X)).
		SetAttr("y1", svg.FormatNumber(src.Y)).
		SetAttr("x2", svg.FormatNumber(dst.X)).
		SetAttr("y2", svg.FormatNumber(dst.Y))
	return surface.AppendChild(l)
}

// DrawMap 先画全部道路，再按 Keys() 顺序画格子，道路因此压在格子下面。
func DrawMap(surface *svg.Element, m *domain.Map, onClickPosition PositionHandler) (*domain.Map, error) {
	for i, road := range m.Roads {
		src, ok := m.Cell(road.Src)
		if !ok {
			return m, ErrCellNotFound.WithData("road", i).WithData("cell", road.Src.String())
		}
		dst, ok := m.Cell(road.Dst)
		if !ok {
			return m, ErrCellNotFound.WithData("road", i).WithData("cell", road.Dst.String())
		}
		DrawLine(surface, src, dst)
	}
	for _, key := range m.Keys() {
		c := DrawCircle(surface, m.Cells[key])
		if onClickPosition != nil {
			c.OnClick(func() { onClickPosition(key) })
		}
	}
	return m, nil
}

// PatchWithArmies 在每支军队所在格子的左上角叠加盾牌标记。
// 出错时已经叠加的标记保留。
func PatchWithArmies(surface *svg.Element, m *domain.Map, armies []domain.Army, onClickArmy ArmyHandler) (*domain.Map, error) {
	for _, army := range armies {
		c, ok := m.Cell(army.Cell)
		if !ok {
			return m, ErrMarkerNotFound.WithData("army", army.ID.String()).WithData("cell", army.Cell.String())
		}
		marker := Marker(surface, army.Cell)
		if marker == nil {
			return m, ErrMarkerNotFound.WithData("army", army.ID.String()).WithData("cell", army.Cell.String())
		}
		r := markerRadius(marker)

		a := svg.NewElement("use").
			SetAttr("class", "army").
			SetAttr("fill", "black").
			SetAttr("stroke", "black").
			SetAttr("stroke-width", "2").
			SetAttr("x", svg.FormatNumber(c.X-r+ArmyPadding)).
			SetAttr("y", svg.FormatNumber(c.Y-r+ArmyPadding)).
			SetAttr("xlink:href", "#"+svg.ShieldSymbol)
		surface.AppendChild(a)

		if onClickArmy != nil {
			cellID, armyID := army.Cell, army.ID
			marker.OnClick(func() { onClickArmy(cellID, armyID) })
		}
	}
	return m, nil
}

// PatchWithCities 拉取城池并放大所在格子的标记，不会新建标记。
func (r *Renderer) PatchWithCities(ctx context.Context, surface *svg.Element, name string, m *domain.Map, onClickCity CityHandler) (*domain.Map, error) {
	cities, err := r.source.Cities(ctx, name)
	if err != nil {
		return m, fmt.Errorf("fetch cities of %s: %w", name, err)
	}
	for _, city := range cities {
		marker := Marker(surface, city.Cell)
		if marker == nil {
			return m, ErrMarkerNotFound.WithData("city", city.ID.String()).WithData("cell", city.Cell.String())
		}
		marker.SetAttr("r", svg.FormatNumber(CityRadius))
		if onClickCity != nil {
			marker.OnClick(func() { onClickCity(city.Cell, city.ID, city.Name) })
		}
	}
	r.log.WithContext(ctx).Debug("map patched with cities",
		zap.String("region", name),
		zap.Int("cities", len(cities)),
	)
	return m, nil
}

// DrawMapWithCities 拉取拓扑 -> DrawMap -> PatchWithCities，严格顺序执行：
// 城池叠加依赖已经画好的格子标记。
func (r *Renderer) DrawMapWithCities(ctx context.Context, surface *svg.Element, name string, onClickPosition PositionHandler, onClickCity CityHandler) (*domain.Map, error) {
	m, err := r.source.Region(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("fetch region %s: %w", name, err)
	}
	if _, err := DrawMap(surface, m, onClickPosition); err != nil {
		return m, err
	}
	r.log.WithContext(ctx).Debug("map drawn",
		zap.String("region", name),
		zap.Int("cells", len(m.Cells)),
		zap.Int("roads", len(m.Roads)),
	)
	return r.PatchWithCities(ctx, surface, name, m, onClickCity)
}

// DrawMapWithArmies 画地图和城池（不绑定格子/城池点击），再叠加军队。
func (r *Renderer) DrawMapWithArmies(ctx context.Context, surface *svg.Element, name string, armies []domain.Army, onClickArmy ArmyHandler) (*domain.Map, error) {
	m, err := r.DrawMapWithCities(ctx, surface, name, nil, nil)
	if err != nil {
		return m, err
	}
	if _, err := PatchWithArmies(surface, m, armies, onClickArmy); err != nil {
		return m, err
	}
	r.log.WithContext(ctx).Debug("map patched with armies",
		zap.String("region", name),
		zap.Int("armies", len(armies)),
	)
	return m, nil
}

// HighlightCell 给格子标记加上 "here"，id 不存在时什么都不做。
func HighlightCell(surface *svg.Element, id domain.ID) {
	if c := Marker(surface, id); c != nil {
		c.AddClass(ClassHere)
	}
}

// FitViewBox 让 viewBox 刚好容纳所有格子（含城池半径和 margin）。
func FitViewBox(doc *svg.Document, m *domain.Map, margin float64) {
	if len(m.Cells) == 0 {
		return
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, c := range m.Cells {
		minX, maxX = math.Min(minX, c.X), math.Max(maxX, c.X)
		minY, maxY = math.Min(minY, c.Y), math.Max(maxY, c.Y)
	}
	pad := CityRadius + margin
	doc.SetViewBox(minX-pad, minY-pad, maxX-minX+2*pad, maxY-minY+2*pad)
}

// Marker 按 id 查找已绘制的格子标记，跳过 defs 里同名的符号；未绘制时返回 nil。
func Marker(surface *svg.Element, id domain.ID) *svg.Element {
	var found *svg.Element
	surface.Walk(func(e *svg.Element) bool {
		if e.Tag() == "circle" && e.ID() == id.String() {
			found = e
			return false
		}
		return true
	})
	return found
}

func markerRadius(marker *svg.Element) float64 {
	v, ok := marker.Attr("r")
	if !ok {
		return CellRadius
	}
	r, err := svg.ParseNumber(v)
	if err != nil {
		return CellRadius
	}
	return r
}
