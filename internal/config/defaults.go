package config

// DefaultQRProvider is the public QR rendering service queried by image URL.
const DefaultQRProvider = "https://api.qrserver.com/v1/create-qr-code/"

// Defaults returns the built-in configuration. Every field is populated,
// so resolving any Partial over it yields a total Config.
func Defaults() Config {
	return Config{
		InstanceID:     "qrchat",
		WhatsAppNumber: "15550100000",
		QRSize:         200,
		QRProvider:     DefaultQRProvider,
		Position: Position{
			Bottom: "20px",
			Right:  "20px",
		},
		Colors: Colors{
			ButtonBackground: "#25D366",
			ButtonIcon:       "#FFFFFF",
			PanelBackground:  "#FFFFFF",
		},
		InfoText:       "Scan the code with your phone or leave us a message below.",
		DefaultMessage: "Hello! I would like more information.",
		SubmissionMode: ModeDeepLink,
	}
}
