// Package validate checks synthesis parameters before submission.
package validate

import (
	"fmt"
	"math"
	"strings"
	"unicode"

	"github.com/yjs2001/material-synthesis-seer/internal/model"
)

// FieldError reports the first offending parameter field. Field is the Go
// identifier; Message is the user-facing text built from its humanized form.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string { return e.Message }

// Check validates p. Categorical fields are checked for presence first, in
// declaration order, then numeric fields for finiteness and positivity. The
// first failing field short-circuits; nil means p may be submitted.
func Check(p model.Params) *FieldError {
	required := []struct {
		name  string
		value string
	}{
		{"Substrate", p.Substrate},
		{"Pressure", p.Pressure},
		{"Position", p.Position},
		{"SaltAdditive", p.SaltAdditive},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return &FieldError{
				Field:   f.name,
				Message: fmt.Sprintf("please select %s", Humanize(f.name)),
			}
		}
	}

	numeric := []struct {
		name  string
		value float64
	}{
		{"MetalChalcogenRatio", p.MetalChalcogenRatio},
		{"H2ArRatio", p.H2ArRatio},
		{"MetalTemp", float64(p.MetalTemp)},
		{"ChalcogenTemp", float64(p.ChalcogenTemp)},
		{"ReactionTime", float64(p.ReactionTime)},
	}
	for _, f := range numeric {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) || f.value <= 0 {
			return &FieldError{
				Field:   f.name,
				Message: fmt.Sprintf("%s must be a positive number", Humanize(f.name)),
			}
		}
	}

	return nil
}

// Humanize splits a Go field identifier on capitalization boundaries and
// lower-cases it: "MetalChalcogenRatio" -> "metal chalcogen ratio".
func Humanize(field string) string {
	runes := []rune(field)
	var words []string
	start := 0
	for i := 1; i < len(runes); i++ {
		if unicode.IsUpper(runes[i]) {
			words = append(words, strings.ToLower(string(runes[start:i])))
			start = i
		}
	}
	words = append(words, strings.ToLower(string(runes[start:])))
	return strings.Join(words, " ")
}
