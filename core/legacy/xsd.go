package legacy

import (
	"encoding/xml"
	"os"
	"strings"
)

// xsdSchema is the part of an Access-exported XSD we care about: the declared
// type of each column, keyed by the decoded column name.
type xsdSchema struct {
	types map[string]string // column name -> "int", "double", "boolean", "string", ...
}

type (
	xsdDocument struct {
		Elements []xsdElement `xml:"element"`
	}

	xsdElement struct {
		Name    string          `xml:"name,attr"`
		Type    string          `xml:"type,attr"`
		Complex *xsdComplexType `xml:"complexType"`
		Simple  *xsdSimpleType  `xml:"simpleType"`
	}

	xsdComplexType struct {
		Sequence []xsdElement `xml:"sequence>element"`
	}

	xsdSimpleType struct {
		Restriction struct {
			Base string `xml:"base,attr"`
		} `xml:"restriction"`
	}
)

// readSchema parses the XSD next to a legacy XML file. The schema itself is
// plain XML; only element names and (base) types are extracted.
func readSchema(path string) (*xsdSchema, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var doc xsdDocument
	dec := xml.NewDecoder(strings.NewReader(string(raw)))
	dec.CharsetReader = charsetReader
	if err = dec.Decode(&doc); err != nil {
		return nil, err
	}

	schema := &xsdSchema{types: make(map[string]string)}
	for _, el := range doc.Elements {
		schema.collect(el)
	}
	return schema, nil
}

func (s *xsdSchema) collect(el xsdElement) {
	name := decodeAccessName(el.Name)
	switch {
	case el.Complex != nil:
		for _, child := range el.Complex.Sequence {
			s.collect(child)
		}
	case el.Simple != nil:
		s.types[name] = stripXSDPrefix(el.Simple.Restriction.Base)
	case el.Type != "":
		s.types[name] = stripXSDPrefix(el.Type)
	}
}

// typeOf returns the declared type of a column, or "" when the schema does
// not declare it (or no schema could be read).
func (s *xsdSchema) typeOf(name string) string {
	if s == nil {
		return ""
	}
	return s.types[name]
}

func stripXSDPrefix(t string) string {
	if i := strings.IndexByte(t, ':'); i >= 0 {
		return t[i+1:]
	}
	return t
}
