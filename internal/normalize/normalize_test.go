package normalize

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "empty string",
			in:   "",
			want: "",
		},
		{
			name: "whitespace only",
			in:   " \t\n  ",
			want: "",
		},
		{
			name: "collapses whitespace runs",
			in:   "hello   world\t\tagain",
			want: "hello world again",
		},
		{
			name: "trims leading and trailing whitespace",
			in:   "  padded  ",
			want: "padded",
		},
		{
			name: "ascii lowercased",
			in:   "Guidance COUNSELOR",
			want: "guidance counselor",
		},
		{
			name: "half-width katakana folds to full-width",
			in:   "ｶﾞｲﾄﾞ",
			want: "ガイド",
		},
		{
			name: "full-width latin folds to ascii and lowercases",
			in:   "ＡＢＣ１２３",
			want: "abc123",
		},
		{
			name: "control characters stripped",
			in:   "before\x00\x1fafter",
			want: "beforeafter",
		},
		{
			name: "mark separated by control composes with its base",
			in:   "a\x08́",
			want: "á",
		},
		{
			name: "non-latin scripts preserved",
			in:   "相談です",
			want: "相談です",
		},
		{
			name: "mixed multilingual body",
			in:   "  ﾃｽﾄ  Message　です ",
			want: "テスト message です",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.in)
			if got != tt.want {
				t.Fatalf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"hello   World",
		"ｶﾞｲﾄﾞ",
		"ＡＢＣ　ｄｅｆ",
		"相談  です\n",
		"tabs\tand\nnewlines",
		"a\x08́",
		"e\x7f̂llo",
	}
	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: first %q, second %q", in, once, twice)
		}
	}
}
