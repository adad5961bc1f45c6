package render

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/vango-dev/loginform/pkg/vdom"
)

// RendererConfig configures a Renderer.
type RendererConfig struct {
	// Pretty indents block elements, one per line. Development only.
	Pretty bool

	// Indent is one level of indentation in pretty mode. Default "  ".
	Indent string
}

// Renderer turns VNode trees into HTML. It is stateless and safe to share.
//
// Attributes are written in sorted key order, followed by a
// data-on-<event>="true" marker per handler and finally data-hid, so the
// same tree always produces the same bytes.
type Renderer struct {
	config RendererConfig
}

func NewRenderer(config RendererConfig) *Renderer {
	if config.Indent == "" {
		config.Indent = "  "
	}
	return &Renderer{config: config}
}

func (r *Renderer) RenderToString(node *vdom.VNode) (string, error) {
	var buf bytes.Buffer
	if err := r.RenderToWriter(&buf, node); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderToWriter writes node to w and returns the first write error.
func (r *Renderer) RenderToWriter(w io.Writer, node *vdom.VNode) error {
	hw := &htmlWriter{w: w, cfg: r.config}
	hw.node(node, 0)
	return hw.err
}

// htmlWriter keeps the first error and turns later writes into no-ops.
type htmlWriter struct {
	w   io.Writer
	cfg RendererConfig
	err error
}

func (hw *htmlWriter) write(parts ...string) {
	for _, p := range parts {
		if hw.err != nil {
			return
		}
		_, hw.err = io.WriteString(hw.w, p)
	}
}

func (hw *htmlWriter) newline() {
	if hw.cfg.Pretty {
		hw.write("\n")
	}
}

func (hw *htmlWriter) indent(depth int) {
	if hw.cfg.Pretty && depth > 0 {
		hw.write(strings.Repeat(hw.cfg.Indent, depth))
	}
}

func (hw *htmlWriter) node(n *vdom.VNode, depth int) {
	if n == nil || hw.err != nil {
		return
	}
	switch n.Kind {
	case vdom.KindText:
		hw.write(escapeHTML(n.Text))
	case vdom.KindElement:
		hw.element(n, depth)
	case vdom.KindFragment:
		for _, c := range n.Children {
			hw.node(c, depth)
		}
	case vdom.KindComponent:
		if n.Comp != nil {
			hw.node(n.Comp.Render(), depth)
		}
	default:
		hw.err = fmt.Errorf("render: unknown node kind %d", n.Kind)
	}
}

func (hw *htmlWriter) element(n *vdom.VNode, depth int) {
	hw.indent(depth)
	hw.write("<", n.Tag)
	hw.attributes(n)
	if n.HID != "" {
		hw.write(` data-hid="`, escapeAttr(n.HID), `"`)
	}
	hw.write(">")
	if vdom.IsVoidElement(n.Tag) {
		hw.newline()
		return
	}

	block := len(n.Children) > 0 && !inlineElements[n.Tag]
	if block {
		hw.newline()
	}
	for _, c := range n.Children {
		hw.node(c, depth+1)
	}
	if block {
		hw.indent(depth)
	}
	hw.write("</", n.Tag, ">")
	hw.newline()
}

func (hw *htmlWriter) attributes(n *vdom.VNode) {
	keys := make([]string, 0, len(n.Props))
	for k := range n.Props {
		if !strings.HasPrefix(k, "_") {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	var events []string
	for _, k := range keys {
		v := n.Props[k]
		if vdom.IsEventKey(k) && isHandler(v) {
			events = append(events, strings.ToLower(k[len("on"):]))
			continue
		}
		if b, ok := v.(bool); ok && booleanAttrs[k] {
			if b {
				hw.write(" ", k)
			}
			continue
		}
		s := attrString(v)
		// An empty value is meaningful on inputs.
		if s == "" && k != "value" {
			continue
		}
		hw.write(" ", k, `="`, escapeAttr(s), `"`)
	}
	for _, e := range events {
		hw.write(" data-on-", e, `="true"`)
	}
}

func isHandler(v any) bool {
	if v == nil {
		return false
	}
	return strings.HasPrefix(fmt.Sprintf("%T", v), "func")
}

func attrString(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	}
	return fmt.Sprint(v)
}
