package recon

import "testing"

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"100", 100, false},
		{"10.000,00", 10000, false},
		{"7,500.00", 7500, false},
		{"1 234", 1234, false},
		{"250€", 250, false},
		{"-50", -50, false},
		{"abc", 0, true},
		{"", 0, true},
	}
	for _, c := range cases {
		got, err := ParseAmount(c.in)
		if c.wantErr {
			if err == nil {
				t.Errorf("ParseAmount(%q): expected error, got %d", c.in, got)
			}
			continue
		}
		if err != nil || got != c.want {
			t.Errorf("ParseAmount(%q) = %d, %v; want %d", c.in, got, err, c.want)
		}
	}
}
