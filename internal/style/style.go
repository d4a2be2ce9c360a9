// Package style synthesizes the widget stylesheet from the effective
// configuration and injects it into a surface at most once per instance.
package style

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/ziadkadry99/qrchat/internal/config"
	"github.com/ziadkadry99/qrchat/internal/surface"
)

// OpenClass marks the panel as visible.
const OpenClass = "is-open"

// ButtonSize is the side of the floating button in pixels.
const ButtonSize = 60

// panelGap separates the panel from the button.
const panelGap = 15

// minPanelWidth keeps the form usable with small QR codes.
const minPanelWidth = 260

type sheetData struct {
	Button, Panel, QR, Info, Submit string
	OpenClass                       string
	Bottom, Right                   string
	ButtonBackground, ButtonIcon    string
	PanelBackground                 string
	ButtonSize, PanelOffset         int
	QRSize, PanelWidth              int
}

// Values are interpolated verbatim; Synthesize checks each one with
// config.IsCSSValue before executing.
var sheet = template.Must(template.New("sheet").Parse(`#{{.Button}} {
  position: fixed;
  bottom: {{.Bottom}};
  right: {{.Right}};
  width: {{.ButtonSize}}px;
  height: {{.ButtonSize}}px;
  border: none;
  border-radius: 50%;
  background-color: {{.ButtonBackground}};
  color: {{.ButtonIcon}};
  box-shadow: 0 4px 12px rgba(0, 0, 0, 0.25);
  cursor: pointer;
  display: flex;
  align-items: center;
  justify-content: center;
  padding: 0;
  z-index: 2147483000;
}
#{{.Button}} svg {
  width: 32px;
  height: 32px;
  fill: currentColor;
}
#{{.Panel}} {
  position: fixed;
  bottom: calc({{.Bottom}} + {{.PanelOffset}}px);
  right: {{.Right}};
  width: {{.PanelWidth}}px;
  max-width: calc(100vw - 2 * {{.Right}});
  box-sizing: border-box;
  padding: 20px;
  border-radius: 12px;
  background-color: {{.PanelBackground}};
  box-shadow: 0 8px 24px rgba(0, 0, 0, 0.2);
  font-family: system-ui, -apple-system, "Segoe UI", Roboto, sans-serif;
  font-size: 14px;
  color: #222;
  display: none;
  z-index: 2147483000;
}
#{{.Panel}}.{{.OpenClass}} {
  display: block;
}
#{{.QR}} {
  display: block;
  width: {{.QRSize}}px;
  height: {{.QRSize}}px;
  margin: 0 auto 12px;
}
#{{.Info}} {
  margin: 0 0 12px;
  text-align: center;
  line-height: 1.4;
}
#{{.Panel}} input,
#{{.Panel}} textarea {
  display: block;
  width: 100%;
  box-sizing: border-box;
  margin: 0 0 8px;
  padding: 8px 10px;
  border: 1px solid #ccc;
  border-radius: 6px;
  font: inherit;
}
#{{.Panel}} textarea {
  min-height: 72px;
  resize: vertical;
}
#{{.Submit}} {
  width: 100%;
  padding: 10px;
  border: none;
  border-radius: 6px;
  background-color: {{.ButtonBackground}};
  color: {{.ButtonIcon}};
  font: inherit;
  font-weight: 600;
  cursor: pointer;
}
#{{.Submit}}[disabled] {
  opacity: 0.6;
  cursor: wait;
}
`))

// Synthesize returns the stylesheet for cfg.
func Synthesize(cfg config.Config) (string, error) {
	for name, v := range map[string]string{
		"position.bottom":          cfg.Position.Bottom,
		"position.right":           cfg.Position.Right,
		"colors.button_background": cfg.Colors.ButtonBackground,
		"colors.button_icon":       cfg.Colors.ButtonIcon,
		"colors.panel_background":  cfg.Colors.PanelBackground,
	} {
		if !config.IsCSSValue(v) {
			return "", fmt.Errorf("style: %s %q is not a CSS value", name, v)
		}
	}
	if cfg.QRSize <= 0 {
		return "", fmt.Errorf("style: qr size must be positive, got %d", cfg.QRSize)
	}

	data := sheetData{
		Button:           cfg.ElementID("button"),
		Panel:            cfg.ElementID("panel"),
		QR:               cfg.ElementID("qr"),
		Info:             cfg.ElementID("info"),
		Submit:           cfg.ElementID("submit"),
		OpenClass:        OpenClass,
		Bottom:           cfg.Position.Bottom,
		Right:            cfg.Position.Right,
		ButtonBackground: cfg.Colors.ButtonBackground,
		ButtonIcon:       cfg.Colors.ButtonIcon,
		PanelBackground:  cfg.Colors.PanelBackground,
		ButtonSize:       ButtonSize,
		PanelOffset:      ButtonSize + panelGap,
		QRSize:           cfg.QRSize,
		PanelWidth:       max(minPanelWidth, cfg.QRSize+40),
	}

	var buf bytes.Buffer
	if err := sheet.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("style: rendering stylesheet: %w", err)
	}
	return buf.String(), nil
}

// InjectOnce appends a <style> element holding css to the surface head,
// unless this instance's stylesheet is already present. It reports
// whether it injected.
func InjectOnce(s surface.Surface, cfg config.Config, css string) bool {
	id := cfg.ElementID("style")
	if _, ok := s.ElementByID(id); ok {
		return false
	}
	el := s.CreateElement("style")
	el.SetAttribute("id", id)
	el.SetText(css)
	s.Head().AppendChild(el)
	return true
}
