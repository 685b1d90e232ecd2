package misc

import "testing"

func TestParsePrice(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    float64
		wantErr bool
	}{
		{name: "two decimals", in: "19.99", want: 19.99},
		{name: "whole number", in: "20", want: 20},
		{name: "one decimal", in: "5.5", want: 5.5},
		{name: "zero", in: "0", want: 0},
		{name: "zero with decimals", in: "0.00", want: 0},
		{name: "surrounding spaces", in: " 12.50 ", want: 12.5},
		{name: "letters", in: "abc", wantErr: true},
		{name: "empty", in: "", wantErr: true},
		{name: "negative", in: "-1.00", wantErr: true},
		{name: "three decimals", in: "1.999", wantErr: true},
		{name: "trailing dot", in: "19.", wantErr: true},
		{name: "leading dot", in: ".99", wantErr: true},
		{name: "two dots", in: "1.9.9", wantErr: true},
		{name: "exponent", in: "1e3", wantErr: true},
		{name: "plus sign", in: "+19.99", wantErr: true},
		{name: "currency symbol", in: "$19.99", wantErr: true},
		{name: "comma separator", in: "1,999.99", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePrice(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParsePrice(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParsePrice(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestStringLimit(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{in: "hello", n: 10, want: "hello"},
		{in: "hello world", n: 8, want: "hello..."},
		{in: "hello", n: 2, want: "he"},
		{in: "hello", n: 0, want: ""},
		{in: "hello", n: -1, want: ""},
	}
	for _, tt := range tests {
		if got := StringLimit(tt.in, tt.n); got != tt.want {
			t.Errorf("StringLimit(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}
