package widget

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/net/html"

	"github.com/ziadkadry99/qrchat/internal/config"
	"github.com/ziadkadry99/qrchat/internal/links"
	"github.com/ziadkadry99/qrchat/internal/surface"
)

func childTags(n *html.Node) []string {
	var tags []string
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			tags = append(tags, c.Data)
		}
	}
	return tags
}

func TestRenderStructure(t *testing.T) {
	tr := surface.NewTree()
	cfg := config.Defaults()

	h, err := Render(tr, cfg)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	body := tr.Node(tr.Body())
	if got := strings.Join(childTags(body), ","); got != "button,div" {
		t.Errorf("body children = %s, want button,div", got)
	}
	if got := strings.Join(childTags(tr.Node(h.Panel)), ","); got != "img,p,textarea,input,input,button" {
		t.Errorf("panel children = %s", got)
	}

	if src, _ := h.QR.Attribute("src"); src != links.QRImageURL(cfg) {
		t.Errorf("qr src = %q, want %q", src, links.QRImageURL(cfg))
	}
	if w, _ := h.QR.Attribute("width"); w != "200" {
		t.Errorf("qr width = %q", w)
	}
	if got := tr.TextOf(h.Info); got != cfg.InfoText {
		t.Errorf("info text = %q", got)
	}
	if typ, _ := h.Email.Attribute("type"); typ != "email" {
		t.Errorf("email input type = %q", typ)
	}
	if got := tr.TextOf(h.Submit); got != "Send" {
		t.Errorf("submit text = %q", got)
	}
	if _, ok := h.Panel.Attribute("class"); ok {
		t.Error("panel should start hidden (no open class)")
	}
	if got := len(childTags(tr.Node(h.Button))); got != 1 {
		t.Errorf("button should contain exactly the icon, got %d children", got)
	}
}

func TestRenderWithoutInfoText(t *testing.T) {
	tr := surface.NewTree()
	cfg := config.Defaults()
	cfg.InfoText = ""

	h, err := Render(tr, cfg)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if h.Info != nil {
		t.Error("info handle should be nil")
	}
	if got := strings.Join(childTags(tr.Node(h.Panel)), ","); got != "img,textarea,input,input,button" {
		t.Errorf("panel children = %s", got)
	}
	if _, ok := tr.ElementByID(cfg.ElementID("info")); ok {
		t.Error("info paragraph should not be rendered")
	}
}

func TestRenderScopesIDs(t *testing.T) {
	tr := surface.NewTree()
	a := config.Defaults()
	b := config.Defaults()
	b.InstanceID = "sales"

	if _, err := Render(tr, a); err != nil {
		t.Fatalf("Render a: %v", err)
	}
	if _, err := Render(tr, b); err != nil {
		t.Fatalf("Render b: %v", err)
	}
	for _, id := range []string{"qrchat-button", "qrchat-panel", "sales-button", "sales-panel", "sales-submit"} {
		if _, ok := tr.ElementByID(id); !ok {
			t.Errorf("missing element %s", id)
		}
	}
	if got := len(childTags(tr.Node(tr.Body()))); got != 4 {
		t.Errorf("body has %d children, want 4", got)
	}
}

func TestRenderTwiceFails(t *testing.T) {
	tr := surface.NewTree()
	cfg := config.Defaults()
	if _, err := Render(tr, cfg); err != nil {
		t.Fatalf("Render: %v", err)
	}
	before := tr.String()
	if _, err := Render(tr, cfg); !errors.Is(err, ErrAlreadyMounted) {
		t.Fatalf("second Render err = %v, want ErrAlreadyMounted", err)
	}
	if tr.String() != before {
		t.Error("failed Render modified the surface")
	}
}

func TestRenderIsDeterministic(t *testing.T) {
	a, b := surface.NewTree(), surface.NewTree()
	if _, err := Render(a, config.Defaults()); err != nil {
		t.Fatal(err)
	}
	if _, err := Render(b, config.Defaults()); err != nil {
		t.Fatal(err)
	}
	if a.String() != b.String() {
		t.Error("Render output differs for equal configs")
	}
}

func TestRenderEscapesText(t *testing.T) {
	tr := surface.NewTree()
	cfg := config.Defaults()
	cfg.InfoText = `<script>alert("x")</script>`
	if _, err := Render(tr, cfg); err != nil {
		t.Fatal(err)
	}
	out := tr.String()
	if strings.Contains(out, "<script>") {
		t.Errorf("info text rendered as markup: %s", out)
	}
	if !strings.Contains(out, "&lt;script&gt;") {
		t.Error("info text should be escaped")
	}
}
