package normalizer

// StandardAttributes are canonical attribute slugs with their catalog labels.
// Attribute slugs outside this set have no taxonomy and are skipped by the catalog.
var StandardAttributes = map[string]string{
	"color":             "Kolor",
	"material":          "Materiał",
	"size":              "Rozmiar",
	"weight":            "Waga",
	"capacity":          "Pojemność",
	"dimensions":        "Wymiary",
	"print_time":        "Czas nadruku",
	"print_technique":   "Technika nadruku",
	"minimum_order":     "Minimalne zamówienie",
	"country_of_origin": "Kraj pochodzenia",
	"certificates":      "Certyfikaty",
	"packaging":         "Opakowanie",
	"warranty":          "Gwarancja",
	"ean":               "EAN",
	"custom_code":       "Kod celny",
}
