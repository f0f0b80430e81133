// Package i18n holds the kiosk's UI strings. Korean is the canonical
// locale; anything missing from another locale falls back to it.
package i18n

// Locale identifiers accepted by the API.
const (
	LocaleKO = "ko"
	LocaleEN = "en"
)

var ko = map[string]string{
	"app.title":           "무인 접수 키오스크",
	"menu.reception":      "접수",
	"menu.payment":        "수납",
	"menu.certificate":    "증명서 발급",
	"menu.chat":           "대화로 진행하기",
	"reception.prompt":    "증상을 선택해 주세요",
	"payment.prompt":      "수납 내역을 확인해 주세요",
	"payment.method.cash": "현금",
	"payment.method.card": "카드",
	"certificate.rx":      "처방전",
	"certificate.visit":   "진료확인서",
	"status.pending":      "접수 전",
	"status.registered":   "접수 완료",
	"status.paid":         "수납 완료",
	"status.cancelled":    "접수 취소",
	"common.confirm":      "확인",
	"common.cancel":       "취소",
	"common.back":         "뒤로",
}

var en = map[string]string{
	"app.title":           "Self-Service Check-In Kiosk",
	"menu.reception":      "Check in",
	"menu.payment":        "Pay",
	"menu.certificate":    "Documents",
	"menu.chat":           "Talk to assistant",
	"reception.prompt":    "Select your symptom",
	"payment.prompt":      "Review your charges",
	"payment.method.cash": "Cash",
	"payment.method.card": "Card",
	"certificate.rx":      "Prescription",
	"certificate.visit":   "Visit confirmation",
	"status.pending":      "Not checked in",
	"status.registered":   "Checked in",
	"status.paid":         "Paid",
	"status.cancelled":    "Cancelled",
	"common.confirm":      "OK",
	"common.cancel":       "Cancel",
	"common.back":         "Back",
}

var locales = map[string]map[string]string{
	LocaleKO: ko,
	LocaleEN: en,
}

// T resolves a key in the given locale, falling back to Korean and then to
// the key itself.
func T(locale, key string) string {
	if m, ok := locales[locale]; ok {
		if s, ok := m[key]; ok {
			return s
		}
	}
	if s, ok := ko[key]; ok {
		return s
	}
	return key
}

// Bundle returns every string of a locale, with Korean filling the gaps.
// The result is a copy.
func Bundle(locale string) map[string]string {
	out := make(map[string]string, len(ko))
	for k, v := range ko {
		out[k] = v
	}
	if m, ok := locales[locale]; ok {
		for k, v := range m {
			out[k] = v
		}
	}
	return out
}
