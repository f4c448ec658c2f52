package document

import (
	"fmt"

	"github.com/beevik/etree"
)

// ParseXML decodes an XML document into a Document via etree. The
// result holds a single key named after the root element. Attributes
// become "@"-prefixed keys; repeated sibling elements collapse into a
// list under their shared tag; an element with both attributes and
// character data keeps its text under "#text".
func ParseXML(data []byte) (*Document, error) {
	tree := etree.NewDocument()
	if err := tree.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("decode xml: %w", err)
	}
	root := tree.Root()
	if root == nil {
		return nil, fmt.Errorf("decode xml: no root element")
	}
	doc := New()
	doc.Put(root.Tag, elementValue(root))
	return doc, nil
}

func elementValue(e *etree.Element) any {
	doc := New()
	for _, attr := range e.Attr {
		doc.Put("@"+attr.Key, attr.Value)
	}

	children := e.ChildElements()
	if len(children) == 0 {
		text := e.Text()
		if doc.Len() == 0 {
			return text
		}
		if text != "" {
			doc.Put("#text", text)
		}
		return doc
	}

	counts := make(map[string]int)
	for _, child := range children {
		counts[child.Tag]++
	}
	seen := make(map[string]bool)
	for _, child := range children {
		if counts[child.Tag] == 1 {
			doc.Put(child.Tag, elementValue(child))
			continue
		}
		if seen[child.Tag] {
			continue
		}
		seen[child.Tag] = true
		group := make([]any, 0, counts[child.Tag])
		for _, sibling := range children {
			if sibling.Tag == child.Tag {
				group = append(group, elementValue(sibling))
			}
		}
		doc.Put(child.Tag, Normalize(group))
	}
	return doc
}

// EncodeXML renders the document as indented XML. A single-key document
// whose value is a nested document uses that key as the root element;
// otherwise the content is wrapped in rootTag.
func EncodeXML(d *Document, rootTag string) ([]byte, error) {
	tree := etree.NewDocument()
	tree.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	if d.Len() == 1 {
		key := d.Keys()[0]
		if nested, ok := d.Value(key).(*Document); ok {
			elem := tree.CreateElement(key)
			fillElement(elem, nested)
			tree.Indent(2)
			return tree.WriteToBytes()
		}
	}
	elem := tree.CreateElement(rootTag)
	fillElement(elem, d)
	tree.Indent(2)
	return tree.WriteToBytes()
}

func fillElement(elem *etree.Element, d *Document) {
	for k, v := range d.All() {
		switch {
		case k == "#text":
			elem.SetText(stringify(v))
		case len(k) > 1 && k[0] == '@':
			elem.CreateAttr(k[1:], stringify(v))
		default:
			putChild(elem, k, v)
		}
	}
}

func putChild(elem *etree.Element, tag string, v any) {
	switch t := v.(type) {
	case *Document:
		fillElement(elem.CreateElement(tag), t)
	case []*Document:
		for _, doc := range t {
			fillElement(elem.CreateElement(tag), doc)
		}
	case []string:
		for _, s := range t {
			elem.CreateElement(tag).SetText(s)
		}
	case [][]string:
		for _, row := range t {
			putChild(elem.CreateElement(tag), "item", row)
		}
	case []any:
		for _, e := range t {
			putChild(elem, tag, e)
		}
	default:
		elem.CreateElement(tag).SetText(stringify(v))
	}
}

func stringify(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}
