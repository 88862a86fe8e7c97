package odds

import "testing"

func TestDecimalToAmerican(t *testing.T) {
	cases := []struct {
		price float64
		want  int
	}{
		{2.5, 150},
		{2.0, 100},
		{1.5, -200},
		{1.91, -110},
	}
	for _, tc := range cases {
		got, err := DecimalToAmerican(tc.price)
		if err != nil {
			t.Fatalf("unexpected error for %v: %v", tc.price, err)
		}
		if got != tc.want {
			t.Fatalf("DecimalToAmerican(%v) = %d, want %d", tc.price, got, tc.want)
		}
	}
	if _, err := DecimalToAmerican(1); err == nil {
		t.Fatal("expected error for price 1")
	}
}

func TestAmericanToDecimal(t *testing.T) {
	if got, _ := AmericanToDecimal(150); got != 2.5 {
		t.Fatalf("expected 2.5, got %v", got)
	}
	if got, _ := AmericanToDecimal(-200); got != 1.5 {
		t.Fatalf("expected 1.5, got %v", got)
	}
	if _, err := AmericanToDecimal(50); err == nil {
		t.Fatal("expected error for +50")
	}
}

func TestImpliedProbabilityAndOverround(t *testing.T) {
	if got, _ := ImpliedProbability(2.0); got != 0.5 {
		t.Fatalf("expected 0.5, got %v", got)
	}
	got, err := Overround([]Outcome{{Name: "A", Price: 1.91}, {Name: "B", Price: 1.91}})
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if got != 1.0472 {
		t.Fatalf("expected 1.0472, got %v", got)
	}
	if _, err := Overround([]Outcome{{Name: "bad", Price: 0.5}}); err == nil {
		t.Fatal("expected error for invalid price")
	}
}

func TestToDecimalConvertsAmericanMarkets(t *testing.T) {
	got, err := ToDecimal([]Outcome{{Name: "A", Price: -200}, {Name: "B", Price: 150}})
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if got[0].Price != 1.5 || got[1].Price != 2.5 || got[0].Name != "A" {
		t.Fatalf("unexpected conversion %+v", got)
	}

	decimalMarket := []Outcome{{Name: "A", Price: 1.91}, {Name: "B", Price: 1.91}}
	if same, _ := ToDecimal(decimalMarket); same[0].Price != 1.91 {
		t.Fatalf("expected decimal prices untouched, got %+v", same)
	}
	if IsAmerican(decimalMarket) || !IsAmerican([]Outcome{{Price: 100}, {Price: 120}}) || IsAmerican(nil) {
		t.Fatal("unexpected American detection")
	}
	if _, err := ToDecimal([]Outcome{{Name: "A", Price: -50}}); err == nil {
		t.Fatal("expected error for out-of-range American price")
	}
}
