// Package links builds the URLs the widget hands to external services:
// the wa.me chat deep link and the QR image that encodes it.
package links

import (
	"strconv"
	"strings"

	"github.com/ziadkadry99/qrchat/internal/config"
)

// DeepLinkBase is the chat deep-link host.
const DeepLinkBase = "https://wa.me/"

// DeepLinkURL returns https://wa.me/<number>, with ?text=<encoded text>
// appended when text is non-empty.
func DeepLinkURL(cfg config.Config, text string) string {
	u := DeepLinkBase + cfg.WhatsAppNumber
	if text != "" {
		u += "?text=" + EncodeURIComponent(text)
	}
	return u
}

// DefaultDeepLink is the deep link carrying the configured default message.
// It is what the QR code encodes.
func DefaultDeepLink(cfg config.Config) string {
	return DeepLinkURL(cfg, cfg.DefaultMessage)
}

// QRImageURL returns the image URL of a cfg.QRSize square QR code
// encoding DefaultDeepLink(cfg).
func QRImageURL(cfg config.Config) string {
	size := strconv.Itoa(cfg.QRSize)
	sep := "?"
	if strings.Contains(cfg.QRProvider, "?") {
		sep = "&"
	}
	return cfg.QRProvider + sep + "size=" + size + "x" + size + "&data=" + EncodeURIComponent(DefaultDeepLink(cfg))
}

// ContactMessage formats a submitted form as the labeled text sent
// through the deep link.
func ContactMessage(name, email, message string) string {
	var b strings.Builder
	b.WriteString("Name: ")
	b.WriteString(name)
	b.WriteString("\nEmail: ")
	b.WriteString(email)
	b.WriteString("\nMessage: ")
	b.WriteString(message)
	return b.String()
}
