package optimizer

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestMoneyConvert(t *testing.T) {
	rate := decimal.NewFromFloat(0.095)
	got := SEK(2000).Convert(rate, "USD")
	if !got.Equal(USD(190)) {
		t.Errorf("2000 SEK at 0.095 = %s %s, want 190 USD", got.Value(), got.Currency())
	}
}

func TestMoneyArithmeticPanicsAcrossCurrencies(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("adding SEK to USD did not panic")
		}
	}()
	_ = USD(1).Add(SEK(1))
}

func TestMoneyWeakCurrency(t *testing.T) {
	// the no-currency zero combines with anything
	got := NO(0).Add(USD(5))
	if got.Currency() != "USD" || !got.Equal(USD(5)) {
		t.Errorf("0 + 5 USD = %s %s", got.Value(), got.Currency())
	}
}

func TestMoneySignedString(t *testing.T) {
	if s := USD(0).SignedString(); s[0] != '-' {
		t.Errorf("SignedString(0) = %q, want leading '-'", s)
	}
	if s := USD(12).SignedString(); s[0] != '+' {
		t.Errorf("SignedString(12) = %q, want leading '+'", s)
	}
}
