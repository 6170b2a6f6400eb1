package mpesa

import "strings"

const countryCode = "254"

var phoneCleaner = strings.NewReplacer(" ", "", "-", "", "+", "")

// FormatPhoneNumber converts local phone formats to the 254XXXXXXXXX form
// the gateway requires. It never fails and is idempotent. Numbers of
// unexpected length pass through with only the prefix corrected.
func FormatPhoneNumber(phone string) string {
	cleaned := phoneCleaner.Replace(phone)

	if strings.HasPrefix(cleaned, "0") {
		cleaned = countryCode + cleaned[1:]
	}
	if !strings.HasPrefix(cleaned, countryCode) {
		cleaned = countryCode + cleaned
	}
	return cleaned
}
