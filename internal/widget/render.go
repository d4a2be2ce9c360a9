package widget

import (
	"strconv"

	"github.com/ziadkadry99/qrchat/internal/config"
	"github.com/ziadkadry99/qrchat/internal/links"
	"github.com/ziadkadry99/qrchat/internal/surface"
)

// Handles are the rendered elements the controller works with. Info is
// nil when no info text is configured.
type Handles struct {
	Button  surface.Element
	Panel   surface.Element
	QR      surface.Element
	Info    surface.Element
	Message surface.Element
	Name    surface.Element
	Email   surface.Element
	Submit  surface.Element
}

// chatIcon is a speech bubble drawn in a 24x24 box.
const chatIcon = "M12 2C6.48 2 2 6.04 2 11c0 2.62 1.25 4.98 3.25 6.63L4.5 22l4.62-2.43c.92.25 1.88.43 2.88.43 5.52 0 10-4.04 10-9S17.52 2 12 2zm-4 10.25a1.25 1.25 0 1 1 0-2.5 1.25 1.25 0 0 1 0 2.5zm4 0a1.25 1.25 0 1 1 0-2.5 1.25 1.25 0 0 1 0 2.5zm4 0a1.25 1.25 0 1 1 0-2.5 1.25 1.25 0 0 1 0 2.5z"

// Render builds the button and the panel for cfg and attaches them to the
// surface body. The panel starts hidden. Both elements are assembled
// detached and attached last, so a failure leaves the surface untouched.
func Render(s surface.Surface, cfg config.Config) (Handles, error) {
	if _, ok := s.ElementByID(cfg.ElementID("button")); ok {
		return Handles{}, ErrAlreadyMounted
	}

	var h Handles

	h.Button = s.CreateElement("button")
	setAttrs(h.Button,
		"id", cfg.ElementID("button"),
		"type", "button",
		"aria-label", "Contact us on WhatsApp",
		"aria-controls", cfg.ElementID("panel"),
		"aria-expanded", "false",
	)
	icon := s.CreateElementNS(surface.SVGNamespace, "svg")
	setAttrs(icon, "viewBox", "0 0 24 24", "aria-hidden", "true")
	path := s.CreateElementNS(surface.SVGNamespace, "path")
	path.SetAttribute("d", chatIcon)
	icon.AppendChild(path)
	h.Button.AppendChild(icon)

	h.Panel = s.CreateElement("div")
	setAttrs(h.Panel,
		"id", cfg.ElementID("panel"),
		"role", "dialog",
		"aria-label", "Contact form",
	)

	size := strconv.Itoa(cfg.QRSize)
	h.QR = s.CreateElement("img")
	setAttrs(h.QR,
		"id", cfg.ElementID("qr"),
		"src", links.QRImageURL(cfg),
		"alt", "QR code to start a WhatsApp chat",
		"width", size,
		"height", size,
	)
	h.Panel.AppendChild(h.QR)

	if cfg.InfoText != "" {
		h.Info = s.CreateElement("p")
		h.Info.SetAttribute("id", cfg.ElementID("info"))
		h.Info.SetText(cfg.InfoText)
		h.Panel.AppendChild(h.Info)
	}

	h.Message = s.CreateElement("textarea")
	setAttrs(h.Message,
		"id", cfg.ElementID("message"),
		"name", "message",
		"placeholder", "Your message",
		"rows", "3",
	)
	h.Panel.AppendChild(h.Message)

	h.Name = s.CreateElement("input")
	setAttrs(h.Name,
		"id", cfg.ElementID("name"),
		"name", "name",
		"type", "text",
		"placeholder", "Your name",
		"autocomplete", "name",
	)
	h.Panel.AppendChild(h.Name)

	h.Email = s.CreateElement("input")
	setAttrs(h.Email,
		"id", cfg.ElementID("email"),
		"name", "email",
		"type", "email",
		"placeholder", "Your email",
		"autocomplete", "email",
	)
	h.Panel.AppendChild(h.Email)

	h.Submit = s.CreateElement("button")
	setAttrs(h.Submit,
		"id", cfg.ElementID("submit"),
		"type", "button",
	)
	h.Submit.SetText("Send")
	h.Panel.AppendChild(h.Submit)

	body := s.Body()
	body.AppendChild(h.Button)
	body.AppendChild(h.Panel)
	return h, nil
}

func setAttrs(el surface.Element, kv ...string) {
	for i := 0; i+1 < len(kv); i += 2 {
		el.SetAttribute(kv[i], kv[i+1])
	}
}
