package i18n

import "testing"

func TestT_KnownLocale(t *testing.T) {
	if got := T(LocaleEN, "menu.payment"); got != "Pay" {
		t.Errorf("T(en, menu.payment) = %q", got)
	}
	if got := T(LocaleKO, "menu.payment"); got != "수납" {
		t.Errorf("T(ko, menu.payment) = %q", got)
	}
}

func TestT_UnknownLocaleFallsBackToKorean(t *testing.T) {
	if got := T("fr", "menu.payment"); got != "수납" {
		t.Errorf("T(fr, menu.payment) = %q, want Korean fallback", got)
	}
}

func TestT_UnknownKeyReturnsKey(t *testing.T) {
	if got := T(LocaleKO, "no.such.key"); got != "no.such.key" {
		t.Errorf("T = %q, want the key itself", got)
	}
}

func TestBundle_FillsGapsFromKorean(t *testing.T) {
	b := Bundle(LocaleEN)
	if b["menu.payment"] != "Pay" {
		t.Errorf("en bundle menu.payment = %q", b["menu.payment"])
	}
	if len(b) != len(Bundle(LocaleKO)) {
		t.Error("en bundle missing keys present in Korean")
	}
}

func TestBundle_IsACopy(t *testing.T) {
	b := Bundle(LocaleKO)
	b["menu.payment"] = "mutated"
	if T(LocaleKO, "menu.payment") != "수납" {
		t.Error("mutating a bundle leaked into the catalog")
	}
}
