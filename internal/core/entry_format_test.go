package core

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestFormatEntry(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{`{"quantity": 3}`, `{'quantity': 3}`},
		{`{"quantity":3,"note":"x"}`, `{'quantity': 3, 'note': 'x'}`},
		{`{"product": null, "flag": false, "ok": true}`, `{'product': None, 'flag': False, 'ok': True}`},
		{`{"price": 2.50}`, `{'price': 2.5}`},
		{`{"price": 2.0}`, `{'price': 2.0}`},
		{`{"n": 1e3}`, `{'n': 1000.0}`},
		{`{"n": 1e16}`, `{'n': 1e+16}`},
		{`{"n": 0.00001}`, `{'n': 1e-05}`},
		{`{"n": -0}`, `{'n': 0}`},
		{`{"items": [1, "a", {}]}`, `{'items': [1, 'a', {}]}`},
		{`{"name": "it's"}`, `{'name': "it's"}`},
		{`{"name": "say \"hi\" it's"}`, `{'name': 'say "hi" it\'s'}`},
		{`{"name": "a\nb\\c"}`, `{'name': 'a\nb\\c'}`},
		{`{"name": "café"}`, `{'name': 'café'}`},
		{`[]`, `[]`},
		{`not json`, `not json`},
	}
	for _, tc := range cases {
		got := FormatEntry(json.RawMessage(tc.in))
		if got != tc.want {
			t.Errorf("FormatEntry(%s) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestFormatMoney(t *testing.T) {
	cases := map[string]string{
		"20":      "20.00",
		"0":       "0.00",
		"1.005":   "1.01",
		"1.004":   "1.00",
		"-3.5":    "-3.50",
		"1234.56": "1234.56",
	}
	for in, want := range cases {
		if got := FormatMoney(decimal.RequireFromString(in)); got != want {
			t.Errorf("FormatMoney(%s) = %s, want %s", in, got, want)
		}
	}
}

func TestFormatSeconds(t *testing.T) {
	if got := FormatSeconds(1500 * time.Microsecond); got != "0.0015" {
		t.Fatalf("got %s", got)
	}
	if got := FormatSeconds(2 * time.Second); got != "2.0000" {
		t.Fatalf("got %s", got)
	}
}

func TestParseMoney(t *testing.T) {
	d, err := ParseMoney("12.34")
	if err != nil || d.String() != "12.34" {
		t.Fatalf("expected 12.34, got %s (err=%v)", d, err)
	}
	if _, err := ParseMoney("abc"); err != ErrInvalidAmount {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}
