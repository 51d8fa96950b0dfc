package decode

import (
	"errors"
	"strings"
	"testing"

	"github.com/cognicore/tagger/pkg/tagger/internalerr"
	"github.com/cognicore/tagger/pkg/tagger/lexicon"
)

func TestDecodeStream(t *testing.T) {
	records, err := DecodeStream(strings.NewReader(sampleResponse))
	if err != nil {
		t.Fatalf("DecodeStream: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	want := Ingredient{Score: 0.912345, Name: "flour", Unit: "cup", Qty: 3.5}
	if records[0] != want {
		t.Errorf("records[0] = %+v, want %+v", records[0], want)
	}

	want = Ingredient{Score: 0.5, Name: "salt", Qty: NoQuantity}
	if records[1] != want {
		t.Errorf("records[1] = %+v, want %+v", records[1], want)
	}
}

func TestDecodeResetsBetweenLines(t *testing.T) {
	lines := []TaggedLine{
		{Score: 1, Tokens: []TaggedToken{
			tok("2", TagBeginQty), tok("cups", TagBeginUnit), tok("rice", TagBeginName),
		}},
		{Score: 1, Tokens: []TaggedToken{
			tok("wild", TagInName), tok("rice", TagBeginName),
		}},
	}
	records := Decode(lines)
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	second := records[1]
	if second.Name != "rice" || second.Unit != "" || second.Qty != NoQuantity {
		t.Errorf("second record carried state over: %+v", second)
	}
}

func TestDecodeKeepsOrder(t *testing.T) {
	var lines []TaggedLine
	names := []string{"a", "b", "c", "d"}
	for _, n := range names {
		lines = append(lines, TaggedLine{Score: 1, Tokens: []TaggedToken{tok(n, TagBeginName)}})
	}
	records := Decode(lines)
	for i, n := range names {
		if records[i].Name != n {
			t.Errorf("records[%d].Name = %q, want %q", i, records[i].Name, n)
		}
	}
}

func TestDecodeEmpty(t *testing.T) {
	if records := Decode(nil); len(records) != 0 {
		t.Errorf("expected no records, got %d", len(records))
	}
}

func TestDecoderLexicon(t *testing.T) {
	lex := lexicon.Default()
	lex.AddPlurals("leaf", []string{"leaves"})

	records := NewDecoder(lex).Decode([]TaggedLine{
		{Score: 1, Tokens: []TaggedToken{tok("leaves", TagBeginUnit)}},
	})
	if records[0].Unit != "leaf" {
		t.Errorf("Unit = %q, want %q", records[0].Unit, "leaf")
	}
}

func TestDecodeStreamHashToken(t *testing.T) {
	records, err := DecodeStream(strings.NewReader("# 0.9\n#10\tI1\tL4\tNoCAP\tNoPAREN\tB-NAME/0.9\n\n"))
	if err != nil {
		t.Fatalf("DecodeStream: %v", err)
	}
	if len(records) != 1 || records[0].Name != "#10" {
		t.Errorf("unexpected records %+v", records)
	}
}

func TestDecodeStreamMalformed(t *testing.T) {
	_, err := DecodeStream(strings.NewReader("flour\tB-NAME\n"))
	if !errors.Is(err, internalerr.ErrMalformedStream) {
		t.Errorf("expected ErrMalformedStream, got %v", err)
	}
}
