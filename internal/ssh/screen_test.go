package ssh

import "testing"

func TestSanitizeName(t *testing.T) {
	cases := []struct {
		name   string
		input  string
		expect string
	}{
		{"normal short name", "Alice", "Alice"},
		{"exactly 16 chars", "1234567890123456", "1234567890123456"},
		{"long name truncated", "ThisIsAVeryLongUsername", "ThisIsAVeryLongU"},
		{"control chars stripped", "he\x00ll\x1bo", "hello"},
		{"ansi escape partial", "he\x1b[31mllo", "he[31mllo"},
		{"empty input", "", ""},
		{"pure control chars", "\x00\x01\x02\x1b", ""},
		{"multi-byte runes stop at rune boundary", "日本語のテスト", "日本語のテ"},
		{"emoji stop at rune boundary", "🎮Player🎮Name", "🎮Player🎮Na"},
		{"invalid utf8 dropped", "a\xffb", "ab"},
		{"tabs stripped", "hello\tworld", "helloworld"},
		{"newlines stripped", "hello\nworld", "helloworld"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := SanitizeName(tc.input)
			if got != tc.expect {
				t.Errorf("SanitizeName(%q) = %q, want %q", tc.input, got, tc.expect)
			}
		})
	}
}

func TestAllowedTerms(t *testing.T) {
	cases := []struct {
		term    string
		allowed bool
	}{
		{"xterm-256color", true},
		{"tmux", true},
		{"linux", true},
		{"vt100", true},
		{"screen", true},
		{"rxvt-unicode-256color", true},
		{"evil-term", false},
		{"../../../etc/passwd", false},
		{"", false},
		{"xterm-kitty", false},
	}
	for _, tc := range cases {
		t.Run(tc.term, func(t *testing.T) {
			if got := AllowedTerms[tc.term]; got != tc.allowed {
				t.Errorf("AllowedTerms[%q] = %v, want %v", tc.term, got, tc.allowed)
			}
		})
	}
}

func TestTerm(t *testing.T) {
	cases := []struct {
		env  []string
		want string
	}{
		{nil, DefaultTerm},
		{[]string{"LANG=C", "TERM=tmux"}, "tmux"},
		{[]string{"TERM=../../etc/passwd"}, DefaultTerm},
	}
	for _, tc := range cases {
		if got := Term(tc.env); got != tc.want {
			t.Errorf("Term(%q) = %q, want %q", tc.env, got, tc.want)
		}
	}
}
