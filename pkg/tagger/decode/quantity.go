package decode

import (
	"math"
	"strconv"
	"strings"

	"github.com/cognicore/tagger/pkg/tagger/ingest"
)

// ParseQuantity converts a quantity token to a number. Clumped parts
// ("2$1/2") are summed and each "a/b" part is read as a fraction. Parts
// that do not parse contribute 0.
//
//	ParseQuantity("2$1/2") // 2.5
//	ParseQuantity("3/4")   // 0.75
//	ParseQuantity("a few") // 0
func ParseQuantity(s string) float64 {
	amount := 0.0
	for _, part := range strings.Split(s, ingest.ClumpMarker) {
		amount += parsePart(part)
	}
	return amount
}

func parsePart(part string) float64 {
	if strings.Contains(part, "/") {
		pieces := strings.Split(part, "/")
		num, err := parseFinite(pieces[0])
		if err != nil {
			return 0
		}
		den, err := parseFinite(pieces[1])
		if err != nil || den == 0 {
			return 0
		}
		return num / den
	}
	v, err := parseFinite(part)
	if err != nil {
		return 0
	}
	return v
}

func parseFinite(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, strconv.ErrRange
	}
	return v, nil
}
