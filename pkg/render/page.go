package render

import (
	"io"

	"github.com/vango-dev/loginform/pkg/vdom"
)

// RootID is the id of the element the thin client mounts on.
const RootID = "app"

const (
	defaultLang         = "en"
	defaultClientScript = "/_login/client.js"
	defaultSocketPath   = "/_login/ws"
)

// PageData describes the document served for the initial page load.
type PageData struct {
	Body  *vdom.VNode
	Title string // omitted when empty
	Lang  string // default "en"

	// Styles are inlined verbatim, one <style> element each.
	Styles []string

	ClientScript string // default "/_login/client.js"
	SocketPath   string // default "/_login/ws"
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// RenderPage writes a complete HTML document. The body tree goes inside
// the root container, whose data-ws attribute tells the client where to
// connect.
func (r *Renderer) RenderPage(w io.Writer, page PageData) error {
	hw := &htmlWriter{w: w, cfg: r.config}

	hw.write("<!DOCTYPE html>\n",
		`<html lang="`, escapeAttr(orDefault(page.Lang, defaultLang)), "\">\n",
		"<head>\n",
		"  <meta charset=\"utf-8\">\n",
		"  <meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">\n")
	if page.Title != "" {
		hw.write("  <title>", escapeHTML(page.Title), "</title>\n")
	}
	for _, css := range page.Styles {
		hw.write("  <style>", css, "</style>\n")
	}
	hw.write("</head>\n<body>\n",
		`<div id="`, RootID, `" data-ws="`, escapeAttr(orDefault(page.SocketPath, defaultSocketPath)), `">`)

	hw.node(page.Body, 0)

	hw.write("</div>\n",
		`  <script src="`, escapeAttr(orDefault(page.ClientScript, defaultClientScript)), "\" defer></script>\n",
		"</body>\n</html>\n")
	return hw.err
}
