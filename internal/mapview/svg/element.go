// Package svg 是渲染地图用的内存 SVG 树：只实现地图渲染需要的那部分 DOM 能力
// （建节点、设属性、按 id/class 查找、点击回调），最终序列化成 SVG 文本。
//
// Element 不是并发安全的，一棵树同一时间只归一个渲染流程所有。
package svg

import (
	"slices"
	"strings"
)

const (
	NamespaceSVG   = "http://www.w3.org/2000/svg"
	NamespaceXLink = "http://www.w3.org/1999/xlink"
)

type Attr struct {
	Name  string
	Value string
}

type Element struct {
	tag      string
	attrs    []Attr
	children []*Element
	parent   *Element
	text     string
	onClick  func()
}

func NewElement(tag string) *Element {
	return &Element{tag: tag}
}

func (e *Element) Tag() string {
	return e.tag
}

func (e *Element) Parent() *Element {
	return e.parent
}

// SetAttr 已存在时原位覆盖，保持属性顺序稳定。
func (e *Element) SetAttr(name, value string) *Element {
	for i := range e.attrs {
		if e.attrs[i].Name == name {
			e.attrs[i].Value = value
			return e
		}
	}
	e.attrs = append(e.attrs, Attr{Name: name, Value: value})
	return e
}

func (e *Element) Attr(name string) (string, bool) {
	for _, a := range e.attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

func (e *Element) Attrs() []Attr {
	return slices.Clone(e.attrs)
}

func (e *Element) ID() string {
	v, _ := e.Attr("id")
	return v
}

// AppendChild 挂到末尾；child 原先有父节点时先摘下来。
func (e *Element) AppendChild(child *Element) *Element {
	if child.parent != nil {
		child.parent.removeChild(child)
	}
	child.parent = e
	e.children = append(e.children, child)
	return child
}

func (e *Element) removeChild(child *Element) {
	if i := slices.Index(e.children, child); i >= 0 {
		e.children = slices.Delete(e.children, i, i+1)
	}
	child.parent = nil
}

func (e *Element) Children() []*Element {
	return slices.Clone(e.children)
}

// Walk 深度优先遍历所有子孙节点（不含自身），fn 返回 false 时停止。
func (e *Element) Walk(fn func(*Element) bool) bool {
	for _, c := range e.children {
		if !fn(c) || !c.Walk(fn) {
			return false
		}
	}
	return true
}

// GetElementByID 在子孙节点中查找，找不到返回 nil。
func (e *Element) GetElementByID(id string) *Element {
	var found *Element
	e.Walk(func(c *Element) bool {
		if c.ID() == id {
			found = c
			return false
		}
		return true
	})
	return found
}

func (e *Element) GetElementsByClassName(class string) []*Element {
	var out []*Element
	e.Walk(func(c *Element) bool {
		if c.HasClass(class) {
			out = append(out, c)
		}
		return true
	})
	return out
}

func (e *Element) ClassList() []string {
	v, _ := e.Attr("class")
	return strings.Fields(v)
}

func (e *Element) HasClass(class string) bool {
	return slices.Contains(e.ClassList(), class)
}

// AddClass 按集合语义追加 class，已存在的不会重复。
func (e *Element) AddClass(classes ...string) *Element {
	list := e.ClassList()
	for _, c := range classes {
		if c != "" && !slices.Contains(list, c) {
			list = append(list, c)
		}
	}
	return e.SetAttr("class", strings.Join(list, " "))
}

// OnClick 绑定点击回调，nil 表示解绑。
func (e *Element) OnClick(fn func()) {
	e.onClick = fn
}

func (e *Element) Clickable() bool {
	return e.onClick != nil
}

// Click 触发点击回调，没有绑定时返回 false。
func (e *Element) Click() bool {
	if e.onClick == nil {
		return false
	}
	e.onClick()
	return true
}
