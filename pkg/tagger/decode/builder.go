package decode

import "github.com/cognicore/tagger/pkg/tagger/lexicon"

// State is the phase of a Builder.
type State int

const (
	// AwaitingScore: no sequence header seen since the last flush.
	AwaitingScore State = iota
	// Accumulating: a header was seen and tokens are folded into the record.
	Accumulating
)

func (s State) String() string {
	switch s {
	case AwaitingScore:
		return "awaiting-score"
	case Accumulating:
		return "accumulating"
	default:
		return "unknown"
	}
}

// Builder assembles one Ingredient per tagged sequence.
//
// The first value of each field wins: the first B-NAME starts the name and
// only I-NAME tokens directly after it extend it; the first B-UNIT and
// B-QTY set unit and quantity. Later occurrences are ignored.
type Builder struct {
	lex       *lexicon.Lexicon
	state     State
	current   Ingredient
	extending bool
	haveQty   bool
}

// NewBuilder creates a builder. Units are singularized with lex, or with
// the built-in table when lex is nil.
func NewBuilder(lex *lexicon.Lexicon) *Builder {
	return &Builder{lex: lex}
}

// State returns the builder's current phase.
func (b *Builder) State() State {
	return b.state
}

// Begin handles a sequence header. A record still being accumulated is
// flushed and returned with ok set.
func (b *Builder) Begin(score float64) (prev Ingredient, ok bool) {
	prev, ok = b.Flush()
	b.current = Ingredient{Score: score, Qty: NoQuantity}
	b.extending = false
	b.haveQty = false
	b.state = Accumulating
	return prev, ok
}

// Feed folds one tagged token into the record. Tokens arriving while no
// sequence is open are dropped.
func (b *Builder) Feed(tok TaggedToken) {
	if b.state != Accumulating {
		return
	}

	switch tok.Tag {
	case TagBeginName:
		if b.current.Name == "" {
			b.current.Name = tok.Text
			b.extending = true
			return
		}
		b.extending = false
	case TagInName:
		if b.extending {
			b.current.Name += " " + tok.Text
		}
	case TagBeginUnit:
		if b.current.Unit == "" {
			b.current.Unit = b.lex.Singularize(tok.Text)
		}
		b.extending = false
	case TagBeginQty:
		if !b.haveQty {
			b.current.Qty = ParseQuantity(tok.Text)
			b.haveQty = true
		}
		b.extending = false
	default:
		b.extending = false
	}
}

// Flush ends the open sequence and returns its record. ok is false when
// no sequence was open.
func (b *Builder) Flush() (Ingredient, bool) {
	if b.state != Accumulating {
		return Ingredient{}, false
	}
	out := b.current
	b.current = Ingredient{}
	b.extending = false
	b.haveQty = false
	b.state = AwaitingScore
	return out, true
}
