package order

import (
	"fmt"
	"testing"
)

var intLE = Func[int](func(a, b int) bool { return a <= b })

func TestLexicographic(t *testing.T) {
	lex := Lexicographic[int](intLE)
	tests := []struct {
		a, b []int
		want bool
	}{
		{nil, nil, true},
		{[]int{}, []int{1}, true},
		{[]int{1}, []int{}, false},
		{[]int{1, 2}, []int{2, 1}, true},
		{[]int{2, 2}, []int{1, 2}, false},
		{[]int{1, 2}, []int{1, 2}, true},
		{[]int{1, 2}, []int{1, 3}, true},
		{[]int{1, 3}, []int{1, 2}, false},
		{[]int{1}, []int{1, 0}, true},
		{[]int{1, 0}, []int{1}, false},
	}
	for _, tt := range tests {
		got := lex.LessOrEqual(tt.a, tt.b)
		if got != tt.want {
			t.Errorf("LessOrEqual(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

// parity orders ints by parity only, so 2 and 4 are equivalent but distinct.
var parity = Func[int](func(a, b int) bool { return a%2 <= b%2 })

func TestLexicographic_EquivalentElementsSkipped(t *testing.T) {
	lex := Lexicographic[int](parity)
	if !lex.LessOrEqual([]int{2, 1}, []int{4, 3}) {
		t.Error("equivalent prefix should fall through to equal tail")
	}
	if lex.LessOrEqual([]int{2, 1}, []int{4, 2}) {
		t.Error("odd tail should not be <= even tail")
	}
}

func TestEquivalentAndStrictlyLess(t *testing.T) {
	if !Equivalent[int](parity, 2, 4) {
		t.Error("2 and 4 should be equivalent by parity")
	}
	if StrictlyLess[int](parity, 2, 4) {
		t.Error("2 should not be strictly below 4 by parity")
	}
	if !StrictlyLess[int](parity, 2, 3) {
		t.Error("2 should be strictly below 3 by parity")
	}
}

func TestFuncAdapter(t *testing.T) {
	var ord PartialOrder[string] = Func[string](func(a, b string) bool { return len(a) <= len(b) })
	if !ord.LessOrEqual("a", "bb") {
		t.Error(`"a" should be <= "bb" by length`)
	}
	if ord.LessOrEqual("ccc", "bb") {
		t.Error(`"ccc" should not be <= "bb" by length`)
	}
}

func ExampleLexicographic() {
	lex := Lexicographic[int](Func[int](func(a, b int) bool { return a <= b }))
	fmt.Println(lex.LessOrEqual([]int{1, 2}, []int{2, 1}))
	fmt.Println(lex.LessOrEqual([]int{2, 2}, []int{1, 2}))
	// Output:
	// true
	// false
}
