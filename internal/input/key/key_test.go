package key

import "testing"

func TestParse(t *testing.T) {
	tests := []struct {
		spec string
		want Stroke
	}{
		{"a", RuneStroke('a', ModNone)},
		{"A", RuneStroke('A', ModNone)},
		{"@", RuneStroke('@', ModNone)},
		{"ctrl-a", RuneStroke('a', ModCtrl)},
		{"shift-f1", SpecialStroke(KeyF1, ModShift)},
		{"alt-enter", SpecialStroke(KeyEnter, ModAlt)},
		{"ctrl-shift-p", RuneStroke('p', ModCtrl|ModShift)},
		{"esc", SpecialStroke(KeyEscape, ModNone)},
		{"escape", SpecialStroke(KeyEscape, ModNone)},
		{"space", SpecialStroke(KeySpace, ModNone)},
		{"-", RuneStroke('-', ModNone)},
		{"é", RuneStroke('é', ModNone)},
	}
	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			got, err := Parse(tt.spec)
			if err != nil {
				t.Fatalf("Parse(%q): %v", tt.spec, err)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.spec, got, tt.want)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	for _, spec := range []string{"", "  ", "notakey", "bogus-a"} {
		if _, err := Parse(spec); err == nil {
			t.Errorf("Parse(%q) should fail", spec)
		}
	}
}

func TestStrokeString(t *testing.T) {
	tests := []struct {
		s    Stroke
		want string
	}{
		{RuneStroke('a', ModNone), "a"},
		{RuneStroke('a', ModCtrl), "ctrl-a"},
		{SpecialStroke(KeyF1, ModShift), "shift-f1"},
		{SpecialStroke(KeyEnter, ModNone), "enter"},
		{RuneStroke('A', ModShift), "A"}, // shift folds into the character
	}
	for _, tt := range tests {
		if got := tt.s.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestParseStringRoundTrip(t *testing.T) {
	for _, spec := range []string{"a", "ctrl-a", "shift-f1", "enter", "ctrl-alt-x"} {
		s, err := Parse(spec)
		if err != nil {
			t.Fatalf("Parse(%q): %v", spec, err)
		}
		back, err := Parse(s.String())
		if err != nil {
			t.Fatalf("re-Parse(%q): %v", s.String(), err)
		}
		if back != s {
			t.Errorf("round trip %q -> %+v -> %+v", spec, s, back)
		}
	}
}
