package domain

// Language is an entry of the supported-language table. Refusal is the
// localized no-context reply; languages without one use the fallback's.
type Language struct {
	Code    string
	Name    string
	Refusal string
}

// FallbackLanguage is used when detection fails or yields an unsupported code
const FallbackLanguage = "en"

// Languages is the table of languages the collection is built for.
var Languages = []Language{
	{
		Code:    "en",
		Name:    "English",
		Refusal: "I do not have information about the specific definition of that question in the provided context. I suggest you contact the clinic via their website or WhatsApp for more details.",
	},
	{
		Code:    "es",
		Name:    "Spanish",
		Refusal: "No tengo información sobre la definición específica de esa pregunta en el contexto proporcionado. Le sugiero que se ponga en contacto con la clínica a través de su sitio web o WhatsApp para obtener más detalles.",
	},
	{Code: "sr", Name: "Serbian"},
	{Code: "fr", Name: "French"},
	{
		Code:    "tr",
		Name:    "Turkish",
		Refusal: "Sağlanan bağlamda bu sorunun spesifik tanımı hakkında bilgim yok. Daha fazla ayrıntı için lütfen web sitemiz veya WhatsApp aracılığıyla klinik ile iletişime geçiniz.",
	},
}

// LookupLanguage returns the table entry for code.
func LookupLanguage(code string) (Language, bool) {
	for _, l := range Languages {
		if l.Code == code {
			return l, true
		}
	}
	return Language{}, false
}

// SupportedCodes returns the codes of the language table in order.
func SupportedCodes() []string {
	codes := make([]string, len(Languages))
	for i, l := range Languages {
		codes[i] = l.Code
	}
	return codes
}

// Refusal returns the localized no-context reply for code.
func Refusal(code string) string {
	if l, ok := LookupLanguage(code); ok && l.Refusal != "" {
		return l.Refusal
	}
	l, _ := LookupLanguage(FallbackLanguage)
	return l.Refusal
}
