package svg

import (
	"encoding/xml"
	"io"
)

// MarshalXML 让 Element 可以直接交给 encoding/xml。
func (e *Element) MarshalXML(enc *xml.Encoder, _ xml.StartElement) error {
	start := xml.StartElement{Name: xml.Name{Local: e.tag}}
	for _, a := range e.attrs {
		start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: a.Name}, Value: a.Value})
	}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	if e.text != "" {
		if err := enc.EncodeToken(xml.CharData(e.text)); err != nil {
			return err
		}
	}
	for _, c := range e.children {
		if err := c.MarshalXML(enc, xml.StartElement{}); err != nil {
			return err
		}
	}
	return enc.EncodeToken(start.End())
}

// WriteTo 把以 e 为根的子树序列化为 SVG 文本。
func (e *Element) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	enc := xml.NewEncoder(cw)
	if err := enc.Encode(e); err != nil {
		return cw.n, err
	}
	err := enc.Close()
	return cw.n, err
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
