package types

import "testing"

func TestParseAmountMinor(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"10.00", 1000},
		{"10", 1000},
		{"10.5", 1050},
		{"0.05", 5},
		{"-3.25", -325},
		{" 7.10 ", 710},
	}
	for _, tc := range cases {
		got, err := ParseAmountMinor(tc.in)
		if err != nil {
			t.Fatalf("ParseAmountMinor(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseAmountMinor(%q): want=%d got=%d", tc.in, tc.want, got)
		}
	}
}

func TestParseAmountMinorRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "abc", "10.123", "1,000.00"} {
		if _, err := ParseAmountMinor(in); err == nil {
			t.Fatalf("ParseAmountMinor(%q): expected error", in)
		}
	}
}

func TestFormatAmountMinor(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{1000, "10.00"},
		{5, "0.05"},
		{2550, "25.50"},
		{-325, "-3.25"},
		{0, "0.00"},
	}
	for _, tc := range cases {
		if got := FormatAmountMinor(tc.in); got != tc.want {
			t.Fatalf("FormatAmountMinor(%d): want=%q got=%q", tc.in, tc.want, got)
		}
	}
}

func TestProductRefUsesPrimaryImage(t *testing.T) {
	p := Product{
		ID:     "p1",
		Handle: "gold-bracelet",
		Title:  "Gold Bracelet",
		Images: []ProductImage{
			{URL: "https://cdn.example/a.jpg", AltText: "front"},
			{URL: "https://cdn.example/b.jpg"},
		},
	}
	ref := p.Ref()
	if ref.ImageURL != "https://cdn.example/a.jpg" || ref.ImageAltText != "front" {
		t.Fatalf("primary image not projected: %+v", ref)
	}
	if ref.Handle != "gold-bracelet" || ref.Title != "Gold Bracelet" {
		t.Fatalf("ref fields wrong: %+v", ref)
	}
}
