package similarity

import "testing"

func TestScoreIdenticalStrings(t *testing.T) {
	inputs := []string{
		"cat",
		"The quick brown fox jumps over the lazy dog.",
		"Democracy allows citizens to participate.",
	}
	for _, s := range inputs {
		if got := Score(s, s); got != 100 {
			t.Errorf("Score(%q, %q) = %d, want 100", s, s, got)
		}
	}
}

func TestScoreSymmetric(t *testing.T) {
	pairs := [][2]string{
		{"abc", "abd"},
		{"the cat sat", "a cat sat down"},
		{"", "hello"},
		{"short", "a considerably longer sentence here"},
	}
	for _, p := range pairs {
		ab := Score(p[0], p[1])
		ba := Score(p[1], p[0])
		if ab != ba {
			t.Errorf("Score(%q, %q) = %d but Score(%q, %q) = %d", p[0], p[1], ab, p[1], p[0], ba)
		}
	}
}

func TestScoreNormalization(t *testing.T) {
	tests := []struct {
		name     string
		expected string
		actual   string
		want     int
	}{
		{name: "case and punctuation ignored", expected: "Cat sat.", actual: "cat sat", want: 100},
		{name: "surrounding whitespace trimmed", expected: "  hello world  ", actual: "hello world", want: 100},
		{name: "commas and quotes stripped", expected: `"Hello, world!"`, actual: "hello world", want: 100},
		{name: "both empty", expected: "", actual: "", want: 100},
		{name: "punctuation only equals empty", expected: "?!.", actual: "", want: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Score(tt.expected, tt.actual); got != tt.want {
				t.Errorf("Score(%q, %q) = %d, want %d", tt.expected, tt.actual, got, tt.want)
			}
		})
	}
}

func TestScoreSingleSubstitution(t *testing.T) {
	// distance 1 over max length 3: round(((3-1)/3)*100) = 67
	if got := Score("abc", "abd"); got != 67 {
		t.Errorf("Score(abc, abd) = %d, want 67", got)
	}
}

func TestScoreMonotonicWithDistance(t *testing.T) {
	// For a fixed-length expected string, each extra substitution can only
	// lower (or keep) the score.
	expected := "abcdefgh"
	actuals := []string{"abcdefgh", "abcdefgx", "abcdefxx", "abcdexxx", "xxxxxxxx"}
	prev := 101
	for _, a := range actuals {
		got := Score(expected, a)
		if got > prev {
			t.Errorf("Score(%q, %q) = %d, rose above previous %d", expected, a, got, prev)
		}
		if got < 0 || got > 100 {
			t.Errorf("Score(%q, %q) = %d, outside [0,100]", expected, a, got)
		}
		prev = got
	}
}

func TestScoreDisjointStrings(t *testing.T) {
	if got := Score("aaaa", "bbbb"); got != 0 {
		t.Errorf("Score(aaaa, bbbb) = %d, want 0", got)
	}
}
