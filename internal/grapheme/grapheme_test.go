package grapheme

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSplitKeepsClustersTogether(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{name: "empty", in: "", want: nil},
		{name: "ascii", in: "abc", want: []string{"a", "b", "c"}},
		{name: "combining mark", in: "éx", want: []string{"é", "x"}},
		{name: "cjk", in: "中文", want: []string{"中", "文"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Split(tt.in)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("Split(%q) mismatch (-want +got):\n%s", tt.in, diff)
			}
			if j := Join(got); j != tt.in {
				t.Fatalf("Join(Split(%q)) = %q", tt.in, j)
			}
		})
	}
}
