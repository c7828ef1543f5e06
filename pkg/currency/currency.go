package currency

// Currency is a closed enumeration of the currencies the system accepts.
// Adding a currency means adding a constant and a displayInfo row; nothing
// else in the codebase switches on individual currencies.
type Currency string

const (
	INR Currency = "INR"
	USD Currency = "USD"
	EUR Currency = "EUR"
	GBP Currency = "GBP"
	SAR Currency = "SAR"
	JPY Currency = "JPY"
)

// Default is used when an expense is created without an explicit currency.
const Default = INR

// Info holds the display metadata for a currency.
type Info struct {
	Symbol string `json:"symbol"`
	Label  string `json:"label"`
}

var displayInfo = map[Currency]Info{
	INR: {Symbol: "₹", Label: "Indian Rupee"},
	USD: {Symbol: "$", Label: "US Dollar"},
	EUR: {Symbol: "€", Label: "Euro"},
	GBP: {Symbol: "£", Label: "British Pound"},
	SAR: {Symbol: "﷼", Label: "Saudi Riyal"},
	JPY: {Symbol: "¥", Label: "Japanese Yen"},
}

// Valid reports whether c is a known currency.
func Valid(c Currency) bool {
	_, ok := displayInfo[c]
	return ok
}

// Display returns the symbol and label for a currency. Unknown currencies
// fall back to the raw code as both symbol and label.
func Display(c Currency) Info {
	if info, ok := displayInfo[c]; ok {
		return info
	}
	return Info{Symbol: string(c), Label: string(c)}
}

// All returns every supported currency, for listing endpoints.
func All() []Currency {
	return []Currency{INR, USD, EUR, GBP, SAR, JPY}
}
