package xmlenc

import (
	"encoding/xml"
	"io"
	"strconv"

	"github.com/pkg/errors"
)

// Header is the document prologue Jenkins writes on its own config files.
const Header = "<?xml version='1.0' encoding='UTF-8'?>\n"

// Emitter writes nested XML elements to an underlying writer. Every element
// opened through Element is closed again before the call returns, even when
// the body fails part way through, so a failed emit never leaves the document
// with dangling open tags. Callers detect structural problems via Close,
// which fails if any element is still open.
type Emitter struct {
	w     io.Writer
	enc   *xml.Encoder
	depth int
}

func NewEmitter(w io.Writer) *Emitter {
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	return &Emitter{w: w, enc: enc}
}

// Element writes an element named name, runs body to produce its children,
// and closes the element. The body may be nil for an empty element.
func (e *Emitter) Element(name string, body func() error) error {
	return e.element(xml.StartElement{Name: xml.Name{Local: name}}, body)
}

// ClassedElement is Element with a class attribute, as used by Jenkins to
// select an implementation type for a section.
func (e *Emitter) ClassedElement(name, class string, body func() error) error {
	start := xml.StartElement{
		Name: xml.Name{Local: name},
		Attr: []xml.Attr{{Name: xml.Name{Local: "class"}, Value: class}},
	}
	return e.element(start, body)
}

// TextElement writes an element containing a single text value. An empty
// value produces an empty element, which is still written; Jenkins schemas
// distinguish a missing element from an empty one.
func (e *Emitter) TextElement(name, value string) error {
	return e.element(xml.StartElement{Name: xml.Name{Local: name}}, func() error {
		if value == "" {
			return nil
		}
		if err := e.enc.EncodeToken(xml.CharData(value)); err != nil {
			return errors.Wrapf(err, "error writing text for element %q", name)
		}
		return nil
	})
}

func (e *Emitter) EmptyElement(name string) error {
	return e.Element(name, nil)
}

func (e *Emitter) BoolElement(name string, value bool) error {
	return e.TextElement(name, strconv.FormatBool(value))
}

// Raw writes a pre-rendered fragment directly to the underlying writer,
// bypassing escaping and indentation. The fragment must be well-formed on its
// own; the emitter cannot see inside it.
func (e *Emitter) Raw(fragment string) error {
	if err := e.enc.Flush(); err != nil {
		return errors.Wrap(err, "error flushing encoder before raw fragment")
	}
	if _, err := io.WriteString(e.w, fragment); err != nil {
		return errors.Wrap(err, "error writing raw fragment")
	}
	return nil
}

// Depth returns the number of currently open elements.
func (e *Emitter) Depth() int {
	return e.depth
}

// Close flushes the encoder and verifies the document is structurally
// complete. It does not close the underlying writer.
func (e *Emitter) Close() error {
	if err := e.enc.Flush(); err != nil {
		return errors.Wrap(err, "error flushing encoder")
	}
	if e.depth != 0 {
		return errors.Errorf("error document has %d unclosed element(s)", e.depth)
	}
	return nil
}

func (e *Emitter) element(start xml.StartElement, body func() error) error {
	if err := e.enc.EncodeToken(start); err != nil {
		return errors.Wrapf(err, "error opening element %q", start.Name.Local)
	}
	e.depth++
	var bodyErr error
	if body != nil {
		bodyErr = body()
	}
	// Close the element regardless of how the body fared, so the caller's
	// siblings and ancestors remain balanced.
	endErr := e.enc.EncodeToken(xml.EndElement{Name: start.Name})
	if endErr == nil {
		e.depth--
	}
	if bodyErr != nil {
		return bodyErr
	}
	if endErr != nil {
		return errors.Wrapf(endErr, "error closing element %q", start.Name.Local)
	}
	return nil
}
