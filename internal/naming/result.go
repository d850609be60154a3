// Package naming defines the structured name-suggestion result and the
// best-effort parser that extracts it from raw model output.
package naming

// Suggestion is a single suggested name with its explanation.
type Suggestion struct {
	Name        string `json:"name"`
	Explanation string `json:"explanation"`
}

// Result is the structured payload the model is instructed to produce.
type Result struct {
	Primary      Suggestion   `json:"primary"`
	Alternatives []Suggestion `json:"alternatives"`
	// Degraded is true when the raw output could not be parsed and the
	// result is a placeholder carrying the raw text. Not an error: callers
	// always get something displayable.
	Degraded bool `json:"-"`
}

// unparseableName signals a degraded result to the presentation layer.
const unparseableName = "Unable to parse"

// DegradedResult wraps raw model output that could not be parsed.
func DegradedResult(raw string) Result {
	return Result{
		Primary: Suggestion{
			Name:        unparseableName,
			Explanation: raw,
		},
		Alternatives: []Suggestion{},
		Degraded:     true,
	}
}
