package money

import "testing"

func TestParseCents(t *testing.T) {
	tests := []struct {
		input    string
		expected int64
		wantErr  bool
	}{
		{"10", 1000, false},
		{"10.5", 1050, false},
		{"10.50", 1050, false},
		{"0.01", 1, false},
		{"1234.56", 123456, false},
		{" 25.00 ", 2500, false},
		{"0", 0, true},
		{"0.00", 0, true},
		{"-5", 0, true},
		{"", 0, true},
		{"10.505", 0, true},
		{".50", 0, true},
		{"ten", 0, true},
		{"10.", 1000, false},
		{"1e3", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			cents, err := ParseCents(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseCents(%q) = %d, want error", tt.input, cents)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseCents(%q): %v", tt.input, err)
			}
			if cents != tt.expected {
				t.Errorf("ParseCents(%q) = %d, want %d", tt.input, cents, tt.expected)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"10", "10.00"},
		{"10.5", "10.50"},
		{"10.50", "10.50"},
		{"0.01", "0.01"},
	}

	for _, tt := range tests {
		got, err := Normalize(tt.input)
		if err != nil {
			t.Fatalf("Normalize(%q): %v", tt.input, err)
		}
		if got != tt.expected {
			t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestFormatCents(t *testing.T) {
	if got := FormatCents(1); got != "0.01" {
		t.Errorf("FormatCents(1) = %q, want %q", got, "0.01")
	}
	if got := FormatCents(123456); got != "1234.56" {
		t.Errorf("FormatCents(123456) = %q, want %q", got, "1234.56")
	}
	if got := FormatCents(-250); got != "-2.50" {
		t.Errorf("FormatCents(-250) = %q, want %q", got, "-2.50")
	}
}
