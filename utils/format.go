// utils/format.go
package utils

// Russian labels used in the exported spreadsheet. Unmapped codes
// pass through verbatim.

var paymentMethodLabels = map[string]string{
	"card":     "Карта",
	"cash":     "Наличные",
	"transfer": "Перевод",
	"platform": "Платформа",
}

var paymentTypeLabels = map[string]string{
	"self-employed": "Самозанятый",
	"ip":            "ИП",
	"cash":          "Наличные",
	"platform":      "Платформа",
}

func PaymentMethodLabel(code string) string {
	if label, ok := paymentMethodLabels[code]; ok {
		return label
	}
	return code
}

func PaymentTypeLabel(code string) string {
	if label, ok := paymentTypeLabels[code]; ok {
		return label
	}
	return code
}
