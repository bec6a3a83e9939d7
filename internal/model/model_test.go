package model

import "testing"

func TestTagValueString(t *testing.T) {
	tests := []struct {
		name  string
		value TagValue
		want  string
	}{
		{"text", Text("Alice"), "Alice"},
		{"empty text", Text(""), ""},
		{"integer", Integer(640), "640"},
		{"negative integer", Integer(-3), "-3"},
		{"rational", Rational(1, 125), "1/125"},
		{"raw", Raw([]byte{0x01, 0x02, 0x03}), "(3 bytes)"},
		{"empty raw", Raw(nil), "(0 bytes)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.value.String()
			if got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTagValueEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b TagValue
		want bool
	}{
		{"same text", Text("Alice"), Text("Alice"), true},
		{"different text", Text("Alice"), Text("Bob"), false},
		{"same integer", Integer(7), Integer(7), true},
		{"different integer", Integer(7), Integer(8), false},
		{"same rational", Rational(1, 2), Rational(1, 2), true},
		{"different denominator", Rational(1, 2), Rational(1, 4), false},
		{"same raw", Raw([]byte{1, 2}), Raw([]byte{1, 2}), true},
		{"different raw length", Raw([]byte{1, 2}), Raw([]byte{1}), false},
		{"different raw content", Raw([]byte{1, 2}), Raw([]byte{1, 3}), false},
		{"kind mismatch", Text("7"), Integer(7), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equal(tt.b); got != tt.want {
				t.Errorf("Equal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseOperation(t *testing.T) {
	tests := []struct {
		input  string
		want   Operation
		wantOK bool
	}{
		{"extract", OpExtract, true},
		{"modify", OpModify, true},
		{"delete", OpDelete, true},
		{"EXTRACT", OpExtract, true},
		{"  Modify ", OpModify, true},
		{"update", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseOperation(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("ParseOperation(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("ParseOperation(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
