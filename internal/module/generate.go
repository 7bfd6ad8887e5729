package module

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
)

// Spec describes the descriptor to generate.
type Spec struct {
	// ShortName overrides the template's rename-to when set.
	ShortName  string
	EntryPoint string
	// DependencyInherits come from dependencies' mainModule files and are
	// written first.
	DependencyInherits []string
	Inherits           []string
	// Template is a <module> document to merge with. Nil means an empty module.
	Template io.Reader
}

type element struct {
	name     string
	attrs    []xml.Attr
	text     string
	children []*element
}

func (e *element) attr(name string) (string, bool) {
	for _, a := range e.attrs {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

func newElement(name string, attrs ...string) *element {
	e := &element{name: name}
	for i := 0; i+1 < len(attrs); i += 2 {
		e.attrs = append(e.attrs, xml.Attr{Name: xml.Name{Local: attrs[i]}, Value: attrs[i+1]})
	}
	return e
}

// Generate writes the merged module descriptor to w.
func Generate(w io.Writer, spec Spec, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}
	tmpl := newElement("module")
	if spec.Template != nil {
		parsed, err := parseTemplate(spec.Template)
		if err != nil {
			return err
		}
		tmpl = parsed
	}

	out := newElement("module")
	oldRenameTo, hasRenameTo := tmpl.attr("rename-to")
	switch {
	case strings.TrimSpace(spec.ShortName) != "":
		if hasRenameTo {
			log.Info("overriding module short name", zap.String("from", oldRenameTo), zap.String("to", spec.ShortName))
		}
		out.attrs = append(out.attrs, xml.Attr{Name: xml.Name{Local: "rename-to"}, Value: spec.ShortName})
	case hasRenameTo:
		out.attrs = append(out.attrs, xml.Attr{Name: xml.Name{Local: "rename-to"}, Value: oldRenameTo})
	}
	for _, a := range tmpl.attrs {
		if a.Name.Local != "rename-to" {
			out.attrs = append(out.attrs, a)
		}
	}

	hasInherits := false
	for _, list := range [][]string{spec.DependencyInherits, spec.Inherits} {
		for _, name := range list {
			out.children = append(out.children, newElement("inherits", "name", name))
			hasInherits = true
		}
	}
	hasSource, hasEntryPoint := false, false
	for _, c := range tmpl.children {
		switch c.name {
		case "inherits":
			hasInherits = true
		case "source", "super-source":
			hasSource = true
		case "entry-point":
			hasEntryPoint = true
		}
		out.children = append(out.children, c)
	}
	if !hasInherits {
		out.children = append(out.children, newElement("inherits", "name", CoreModule))
	}
	if spec.EntryPoint != "" && !hasEntryPoint {
		out.children = append(out.children, newElement("entry-point", "class", spec.EntryPoint))
	}
	if !hasSource {
		out.children = append(out.children,
			newElement("source", "path", "client"),
			newElement("source", "path", "shared"),
			newElement("super-source", "path", "super"),
		)
	}

	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := encodeElement(enc, out); err != nil {
		return err
	}
	if err := enc.Flush(); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

func parseTemplate(r io.Reader) (*element, error) {
	dec := xml.NewDecoder(r)
	var stack []*element
	var root *element
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("invalid module template: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			e := &element{name: t.Name.Local}
			for _, a := range t.Attr {
				e.attrs = append(e.attrs, xml.Attr{Name: xml.Name{Local: a.Name.Local}, Value: a.Value})
			}
			if len(stack) == 0 {
				if root != nil {
					return nil, errors.New("invalid module template: multiple root elements")
				}
				root = e
			} else {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, e)
			}
			stack = append(stack, e)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].text += string(t)
			}
		}
	}
	if root == nil {
		return nil, errors.New("invalid module template: no root element")
	}
	if root.name != "module" {
		return nil, fmt.Errorf("invalid module template: root element is <%s>, expected <module>", root.name)
	}
	return root, nil
}

func encodeElement(enc *xml.Encoder, e *element) error {
	start := xml.StartElement{Name: xml.Name{Local: e.name}, Attr: e.attrs}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	if text := strings.TrimSpace(e.text); text != "" {
		if err := enc.EncodeToken(xml.CharData(text)); err != nil {
			return err
		}
	}
	for _, c := range e.children {
		if err := encodeElement(enc, c); err != nil {
			return err
		}
	}
	return enc.EncodeToken(start.End())
}
