package services

const (
	ProviderAuto     = "auto"
	ProviderGemini   = "gemini"
	ProviderBlackbox = "blackbox"
)

func isValidProviderPreference(value string) bool {
	switch value {
	case "", ProviderAuto, ProviderGemini, ProviderBlackbox:
		return true
	default:
		return false
	}
}

// ProviderOrder lists the providers to try for a stored preference, keeping
// only those with a key. Auto and blackbox both put Blackbox first; gemini
// never falls back.
func ProviderOrder(preference string, geminiKey string, blackboxKey string) []string {
	order := make([]string, 0, 2)
	if preference != ProviderGemini && blackboxKey != "" {
		order = append(order, ProviderBlackbox)
	}
	if geminiKey != "" {
		order = append(order, ProviderGemini)
	}
	return order
}
