package svg

import (
	"fmt"
	"io"
	"strconv"
)

// ShieldSymbol 是军队标记引用的符号 id。
const ShieldSymbol = "shield"

const defaultStyle = `
.road { stroke: #8a7f6a; stroke-width: 2; }
.cell { fill: #d8cfb8; stroke: #5c5446; }
.city { fill: #b5523b; stroke: #3d1d14; }
.clickable { cursor: pointer; }
.here { stroke: #e0b000; stroke-width: 4; }
`

// Document 是一张完整的 SVG 图：根节点 + defs（样式与盾牌符号）。
type Document struct {
	root *Element
	defs *Element
}

func NewDocument() *Document {
	root := NewElement("svg").
		SetAttr("xmlns", NamespaceSVG).
		SetAttr("xmlns:xlink", NamespaceXLink)
	defs := root.AppendChild(NewElement("defs"))

	style := defs.AppendChild(NewElement("style"))
	style.text = defaultStyle

	shield := defs.AppendChild(NewElement("symbol")).
		SetAttr("id", ShieldSymbol).
		SetAttr("viewBox", "0 0 20 24").
		SetAttr("width", "10").
		SetAttr("height", "12")
	shield.AppendChild(NewElement("path")).
		SetAttr("d", "M10 0 L20 4 V11 C20 18 15 22 10 24 C5 22 0 18 0 11 V4 Z")

	return &Document{root: root, defs: defs}
}

// Surface 返回绘图的目标节点。
func (d *Document) Surface() *Element {
	return d.root
}

func (d *Document) Defs() *Element {
	return d.defs
}

func (d *Document) SetViewBox(minX, minY, width, height float64) {
	d.root.SetAttr("viewBox", fmt.Sprintf("%s %s %s %s",
		FormatNumber(minX), FormatNumber(minY), FormatNumber(width), FormatNumber(height)))
}

// WriteTo 输出带 XML 声明的完整文档。
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, `<?xml version="1.0" encoding="UTF-8"?>`+"\n")
	if err != nil {
		return int64(n), err
	}
	m, err := d.root.WriteTo(w)
	return int64(n) + m, err
}

// FormatNumber 用最短表示输出坐标，整数不带小数点。
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ParseNumber 读取 FormatNumber 写入的属性值。
func ParseNumber(s string) (float64, error) {
	return strconv.ParseFloat(s, 64)
}
