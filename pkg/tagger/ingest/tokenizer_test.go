package ingest

import (
	"reflect"
	"strings"
	"testing"
)

func TestTokenizeDualUnitAndMixedFraction(t *testing.T) {
	got := Tokenize("2 1/2 cups/300 grams flour")
	want := []string{"2$1/2", "cups", "300", "grams", "flour"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokenize = %q, want %q", got, want)
	}
}

func TestTokenizeSingularUnitSlash(t *testing.T) {
	got := Tokenize("2 tablespoon/30 milliliters milk")
	want := []string{"2", "tablespoon", "30", "milliliters", "milk"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokenize = %q, want %q", got, want)
	}
}

func TestTokenizeLeavesOtherSlashesAlone(t *testing.T) {
	got := Tokenize("1/2 liter/quart water")
	want := []string{"1/2", "liter/quart", "water"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokenize = %q, want %q", got, want)
	}
}

func TestTokenizePunctuation(t *testing.T) {
	got := Tokenize("1 (8 ounce) package cream cheese, softened")
	want := []string{"1", "(", "8", "ounce", ")", "package", "cream", "cheese", ",", "softened"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokenize = %q, want %q", got, want)
	}
}

func TestTokenizePunctuationWithoutSpaces(t *testing.T) {
	got := Tokenize("salt,pepper(optional)")
	want := []string{"salt", ",", "pepper", "(", "optional", ")"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokenize = %q, want %q", got, want)
	}
}

func TestTokenizeEmptyInput(t *testing.T) {
	if tokens := Tokenize(""); len(tokens) != 0 {
		t.Errorf("Empty input should produce no tokens, got %q", tokens)
	}
	if tokens := Tokenize(" \t  "); len(tokens) != 0 {
		t.Errorf("Whitespace input should produce no tokens, got %q", tokens)
	}
}

func TestTokenizeAfterNormalize(t *testing.T) {
	got := Tokenize(Normalize("1¾ cups olive oil, refined"))
	want := []string{"1$3/4", "cups", "olive", "oil", ",", "refined"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokenize = %q, want %q", got, want)
	}
}

func TestClumpFractions(t *testing.T) {
	if got := ClumpFractions("aaa 1 2/3 bbb"); got != "aaa 1$2/3 bbb" {
		t.Errorf("ClumpFractions = %q", got)
	}
	if got := ClumpFractions("12  3/4 cup"); got != "12$3/4 cup" {
		t.Errorf("ClumpFractions = %q", got)
	}
	if got := ClumpFractions("no fractions here"); got != "no fractions here" {
		t.Errorf("ClumpFractions changed plain text: %q", got)
	}
}

func TestUnclump(t *testing.T) {
	if got := Unclump("1$2/3"); got != "1 2/3" {
		t.Errorf("Unclump = %q, want %q", got, "1 2/3")
	}
}

func TestTokenizeNeverUnclumps(t *testing.T) {
	for _, tok := range Tokenize("3 1/2 cups sugar") {
		if strings.Contains(tok, " ") {
			t.Errorf("token %q contains whitespace", tok)
		}
	}
}
