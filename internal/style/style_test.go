package style

import (
	"strings"
	"testing"

	"github.com/ziadkadry99/qrchat/internal/config"
	"github.com/ziadkadry99/qrchat/internal/surface"
)

func TestSynthesizeInterpolatesConfig(t *testing.T) {
	cfg := config.Defaults()
	cfg.Position.Bottom = "2rem"
	cfg.Position.Right = "10px"
	cfg.Colors.ButtonBackground = "rgb(1, 2, 3)"
	cfg.Colors.ButtonIcon = "black"
	cfg.Colors.PanelBackground = "#fafafa"
	cfg.QRSize = 300

	css, err := Synthesize(cfg)
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	for _, want := range []string{
		"#qrchat-button {",
		"bottom: 2rem;",
		"right: 10px;",
		"background-color: rgb(1, 2, 3);",
		"color: black;",
		"background-color: #fafafa;",
		"bottom: calc(2rem + 75px);",
		"width: 340px;",
		"width: 300px;",
		"#qrchat-panel.is-open {",
		"#qrchat-submit[disabled] {",
	} {
		if !strings.Contains(css, want) {
			t.Errorf("stylesheet missing %q", want)
		}
	}
}

func TestSynthesizeMinimumPanelWidth(t *testing.T) {
	cfg := config.Defaults()
	cfg.QRSize = 100
	css, err := Synthesize(cfg)
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if !strings.Contains(css, "width: 260px;") {
		t.Error("panel should be at least 260px wide")
	}
}

func TestSynthesizeScopesByInstance(t *testing.T) {
	cfg := config.Defaults()
	cfg.InstanceID = "support"
	css, err := Synthesize(cfg)
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if strings.Contains(css, "#qrchat-") {
		t.Error("stylesheet leaked default instance selectors")
	}
	if !strings.Contains(css, "#support-panel") {
		t.Error("stylesheet missing instance selectors")
	}
}

func TestSynthesizeRejectsUnsafeValues(t *testing.T) {
	cfg := config.Defaults()
	cfg.Colors.PanelBackground = "white} body{display:none"
	if _, err := Synthesize(cfg); err == nil {
		t.Error("expected error for a value that escapes its declaration")
	}

	cfg = config.Defaults()
	cfg.QRSize = 0
	if _, err := Synthesize(cfg); err == nil {
		t.Error("expected error for zero qr size")
	}
}

func TestSynthesizeIsDeterministic(t *testing.T) {
	a, _ := Synthesize(config.Defaults())
	b, _ := Synthesize(config.Defaults())
	if a != b {
		t.Error("Synthesize output differs between calls")
	}
}

func TestInjectOnce(t *testing.T) {
	tr := surface.NewTree()
	cfg := config.Defaults()
	css, err := Synthesize(cfg)
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}

	if !InjectOnce(tr, cfg, css) {
		t.Fatal("first injection should succeed")
	}
	if InjectOnce(tr, cfg, css) {
		t.Error("second injection should be a no-op")
	}

	head := tr.Node(tr.Head())
	count := 0
	for c := head.FirstChild; c != nil; c = c.NextSibling {
		if c.Data == "style" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("head has %d style elements, want 1", count)
	}

	other := cfg
	other.InstanceID = "second"
	if !InjectOnce(tr, other, css) {
		t.Error("a different instance should get its own stylesheet")
	}
}
