package http

import (
	"testing"
)

type validationProbe struct {
	Wallet string  `validate:"omitempty,ethaddr"`
	Rate   int     `validate:"bps"`
	Amount float64 `validate:"dec6"`
}

func TestValidator_EthAddr(t *testing.T) {
	cv := NewValidator()

	ok := []string{
		"",
		"0x1111111111111111111111111111111111111111",
		"0xAbCd111111111111111111111111111111111111",
	}
	for _, w := range ok {
		if err := cv.Validate(&validationProbe{Wallet: w}); err != nil {
			t.Fatalf("ethaddr should accept %q: %v", w, err)
		}
	}

	bad := []string{
		"1111111111111111111111111111111111111111",   // no 0x
		"0x11111111111111111111111111111111111111",   // 40 chars total, too short
		"0xZZ11111111111111111111111111111111111111", // non-hex
	}
	for _, w := range bad {
		if err := cv.Validate(&validationProbe{Wallet: w}); err == nil {
			t.Fatalf("ethaddr should reject %q", w)
		}
	}
}

func TestValidator_Bps(t *testing.T) {
	cv := NewValidator()
	for _, n := range []int{0, 1, 500, 10000} {
		if err := cv.Validate(&validationProbe{Rate: n}); err != nil {
			t.Fatalf("bps should accept %d: %v", n, err)
		}
	}
	for _, n := range []int{-1, 10001} {
		if err := cv.Validate(&validationProbe{Rate: n}); err == nil {
			t.Fatalf("bps should reject %d", n)
		}
	}
}

func TestValidator_Dec6(t *testing.T) {
	cv := NewValidator()
	for _, f := range []float64{0, 1.5, 0.000001, 123.456789} {
		if err := cv.Validate(&validationProbe{Amount: f}); err != nil {
			t.Fatalf("dec6 should accept %v: %v", f, err)
		}
	}
	if err := cv.Validate(&validationProbe{Amount: 0.0000001}); err == nil {
		t.Fatalf("dec6 should reject 7 decimal places")
	}
}

func TestToFieldErrors_Messages(t *testing.T) {
	cv := NewValidator()
	type req struct {
		Wallet string `validate:"required,ethaddr"`
	}
	err := cv.Validate(&req{})
	if err == nil {
		t.Fatalf("expected validation error")
	}
	details := ToFieldErrors(err)
	if !containsFieldMsg(details, "Wallet", "required") {
		t.Fatalf("expected required message for Wallet, got %+v", details)
	}
}
