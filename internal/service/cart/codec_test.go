package cart

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"guitarla/internal/domain"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	c := domain.Cart{line(7, 3), line(9, 1)}
	c[1].Price = decimal.RequireFromString("289.50")

	data, err := Encode(c)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := Decode(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !got.Equal(c) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, c)
	}
}

func TestEncodeEmptyCart(t *testing.T) {
	for _, c := range []domain.Cart{nil, {}} {
		data, err := Encode(c)
		if err != nil {
			t.Fatalf("encode: %v", err)
		}
		if string(data) != "[]" {
			t.Fatalf("expected [], got %s", data)
		}
	}
}

func TestEncodeWritesFlatLines(t *testing.T) {
	data, err := Encode(domain.Cart{line(7, 2)})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	for _, field := range []string{`"id":7`, `"quantity":2`, `"name":"Guitar 7"`, `"image":"guitarra_07"`, `"price":`} {
		if !strings.Contains(string(data), field) {
			t.Fatalf("expected %s in %s", field, data)
		}
	}
}

func TestDecodeAcceptsNumericPrices(t *testing.T) {
	raw := `[{"id":7,"name":"Cobain","image":"guitarra_07","description":"d","price":349,"quantity":2}]`
	got, err := Decode([]byte(raw))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 1 || !got[0].Price.Equal(decimal.NewFromInt(349)) || got[0].Quantity != 2 {
		t.Fatalf("unexpected cart %+v", got)
	}
}

func TestDecodeMalformed(t *testing.T) {
	for _, raw := range []string{"", "   ", "{", "not json", `{"id":1}`, `[{"id":"x"}]`} {
		if _, err := Decode([]byte(raw)); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
}

func TestDecodeNormalizes(t *testing.T) {
	raw := `[{"id":7,"price":"1","quantity":12},{"id":7,"price":"1","quantity":1},{"id":9,"price":"1","quantity":0}]`
	got, err := Decode([]byte(raw))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 2 || got[0].Quantity != 5 || got[1].Quantity != 1 {
		t.Fatalf("expected normalized cart, got %+v", got)
	}
}

func TestDecodeNull(t *testing.T) {
	got, err := Decode([]byte("null"))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty cart, got %#v", got)
	}
}
