package feed

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// Node is one element of a generic XML tree. The vendor feed is an
// OData Atom document whose payload lives in namespace-prefixed
// property bags, so the document is kept as a plain tree instead of
// being forced through a fixed schema.
type Node struct {
	Name     string // local element name, without namespace prefix
	Space    string // namespace URI, or the raw prefix when undeclared
	Attrs    map[string]string
	Children []*Node
	Text     string
}

// dataServiceNS is the OData namespace carrying the d:-prefixed
// product fields.
const dataServiceNS = "http://schemas.microsoft.com/ado/2007/08/dataservices"

// Document is a parsed vendor feed.
type Document struct {
	Root *Node
}

// Parse decodes XML data into a generic element tree. The decoder
// accepts the non-UTF-8 charsets German vendor systems still emit.
func Parse(data []byte) (*Document, error) {
	decoder := xml.NewDecoder(bytes.NewReader(data))
	decoder.CharsetReader = charsetReader

	root, err := decodeElement(decoder)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed XML: %w", err)
	}
	if root == nil {
		return nil, fmt.Errorf("feed XML contains no root element")
	}
	if root.Name != "feed" {
		return nil, fmt.Errorf("feed XML missing 'feed' root element, got '%s'", root.Name)
	}

	return &Document{Root: root}, nil
}

// Entries returns the feed's entry elements. A feed with exactly one
// entry and a feed with many are the same to the caller.
func (d *Document) Entries() []*Node {
	return d.Root.All("entry")
}

// Properties returns an entry's data property bag: the children of
// content > properties, keyed by local field name. Only children of
// the OData data-service namespace are product fields; children of any
// other declared namespace (metadata annotations and the like) are
// ignored. Un-namespaced children are kept for documents that omit
// the xmlns declarations.
func Properties(entry *Node) map[string]*Node {
	props := make(map[string]*Node)

	content := entry.First("content")
	if content == nil {
		return props
	}
	bag := content.First("properties")
	if bag == nil {
		return props
	}

	for _, child := range bag.Children {
		if child.Space != dataServiceNS && child.Space != "" {
			continue
		}
		props[child.Name] = child
	}
	return props
}

// First returns the first direct child with the given local name.
func (n *Node) First(name string) *Node {
	for _, child := range n.Children {
		if child.Name == name {
			return child
		}
	}
	return nil
}

// All returns every direct child with the given local name.
func (n *Node) All(name string) []*Node {
	var out []*Node
	for _, child := range n.Children {
		if child.Name == name {
			out = append(out, child)
		}
	}
	return out
}

// decodeElement reads tokens until the first start element and builds
// its subtree.
func decodeElement(decoder *xml.Decoder) (*Node, error) {
	for {
		token, err := decoder.Token()
		if err == io.EOF {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		if start, ok := token.(xml.StartElement); ok {
			return decodeSubtree(decoder, start)
		}
	}
}

func decodeSubtree(decoder *xml.Decoder, start xml.StartElement) (*Node, error) {
	node := &Node{
		Name:  start.Name.Local,
		Space: start.Name.Space,
		Attrs: make(map[string]string, len(start.Attr)),
	}
	for _, attr := range start.Attr {
		node.Attrs[attr.Name.Local] = attr.Value
	}

	var text strings.Builder
	for {
		token, err := decoder.Token()
		if err != nil {
			return nil, err
		}

		switch t := token.(type) {
		case xml.StartElement:
			child, err := decodeSubtree(decoder, t)
			if err != nil {
				return nil, err
			}
			node.Children = append(node.Children, child)
		case xml.CharData:
			text.Write(t)
		case xml.EndElement:
			node.Text = text.String()
			return node, nil
		}
	}
}

// charsetReader handles the legacy single-byte encodings the vendor
// may declare instead of UTF-8.
func charsetReader(charset string, input io.Reader) (io.Reader, error) {
	switch strings.ToLower(charset) {
	case "", "utf-8", "utf8":
		return input, nil
	case "iso-8859-1", "latin1":
		return charmap.ISO8859_1.NewDecoder().Reader(input), nil
	case "iso-8859-15":
		return charmap.ISO8859_15.NewDecoder().Reader(input), nil
	case "windows-1252", "cp1252":
		return charmap.Windows1252.NewDecoder().Reader(input), nil
	default:
		return nil, fmt.Errorf("unsupported charset: %s", charset)
	}
}
