package decode

// NoQuantity marks an ingredient whose quantity was not detected.
const NoQuantity = -1.0

// Tags produced by the labeling model. Anything else counts as "other".
const (
	TagBeginName = "B-NAME"
	TagInName    = "I-NAME"
	TagBeginUnit = "B-UNIT"
	TagBeginQty  = "B-QTY"
	TagOther     = "OTHER"
)

// Ingredient is the structured record decoded from one tagged line.
type Ingredient struct {
	Score float64 `json:"score"`
	Name  string  `json:"name"`
	Unit  string  `json:"unit"`
	Qty   float64 `json:"qty"`
}

// HasQuantity reports whether a B-QTY token was seen for the line.
func (i Ingredient) HasQuantity() bool {
	return i.Qty != NoQuantity
}

// TaggedToken is one token line of the model's response.
type TaggedToken struct {
	Text     string
	Features []string
	Tag      string
	Prob     float64 // marginal probability of Tag, 0 when not reported
}

// TaggedLine is the run of tagged tokens under one sequence header.
type TaggedLine struct {
	Score  float64
	Tokens []TaggedToken
}
