package interp

import (
	"testing"

	"nfscript/internal/diag"
)

func TestBuiltins(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{`echo len([1, 2, 3]), len({"a": 1}), len("")`, "310\n"},
		{`echo str(1.0) + "|" + str(null)`, "1.0|null\n"},
		{`echo int(2.9), int(-2.9), int(" 7 ")`, "2-27\n"},
		{`echo float(2), " ", float("0.5")`, "2.0 0.5\n"},
		{`echo type(null), type([]), type({"a": 1})`, "nullListMap\n"},
		{`echo list(set(1, 1, 2))`, "[1, 2]\n"},
		{`echo list(1, 2)`, "[1, 2]\n"},
		{`echo keys({"b": 1, "a": 2}), values({"b": 1, "a": 2})`, "[b, a][1, 2]\n"},
		{`echo contains("haystack", "st"), contains({"k": 1}, "k"), contains(set(1), 2)`, "truetruefalse\n"},
		{`echo put({"a": 1}, "b", 2)`, "{a=1, b=2}\n"},
		{`echo append([1], 2, 3)`, "[1, 2, 3]\n"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			got, _ := mustRun(t, tt.src)
			if got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuiltinErrors(t *testing.T) {
	tests := []struct {
		src  string
		code diag.Code
	}{
		{`len(1)`, diag.RunTypeMismatch},
		{`len()`, diag.RunArity},
		{`n = int("x")`, diag.RunTypeMismatch},
		{`keys([1])`, diag.RunTypeMismatch},
		{`put({"a": 1}, "b")`, diag.RunArity},
		{`s = set([1], [2])`, diag.RunTypeMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			re := runErr(t, Options{}, tt.src)
			if re.Code != tt.code {
				t.Fatalf("code: got %v (%v), want %v", re.Code, re, tt.code)
			}
		})
	}
}
