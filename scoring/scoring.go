// Package scoring turns evaluator answers into normalized scores and
// aggregates evaluation scores into a submission score.
package scoring

import (
	"errors"
	"math"
)

// Answer codes an evaluator can give to a question.
const (
	CodeAgree    = "1"
	CodeDisagree = "2"
	CodeNeither  = "3"
)

type Weights struct {
	Max      float64
	Agree    float64
	Disagree float64
	Neither  float64
}

func (w Weights) Validate() error {
	if w.Max <= 0 {
		return errors.New("max score must be positive")
	}
	return nil
}

// AnswerWeight maps an answer code to its weight. The second result is
// false for codes outside of the three known ones.
func (w Weights) AnswerWeight(code string) (float64, bool) {
	switch code {
	case CodeAgree:
		return w.Agree, true
	case CodeDisagree:
		return w.Disagree, true
	case CodeNeither:
		return w.Neither, true
	}
	return 0, false
}

// RawTotal sums the weights of the recognised codes and counts the
// unrecognised ones.
func (w Weights) RawTotal(codes []string) (raw float64, invalid int) {
	for _, code := range codes {
		weight, ok := w.AnswerWeight(code)
		if !ok {
			invalid++
			continue
		}
		raw += weight
	}
	return raw, invalid
}

// ScoreEvaluation returns round(raw/Max, 4) under ZeroOnInvalidCode. The
// result is not clamped to [0, 1].
func (w Weights) ScoreEvaluation(codes []string) float64 {
	return w.ScoreEvaluationWith(codes, ZeroOnInvalidCode)
}

func (w Weights) ScoreEvaluationWith(codes []string, policy InvalidCodePolicy) float64 {
	raw, invalid := w.RawTotal(codes)
	return Round4(policy(raw, invalid) / w.Max)
}

// InvalidCodePolicy decides the raw total of an evaluation given the number
// of answers whose code was not recognised.
type InvalidCodePolicy func(raw float64, invalid int) float64

// ZeroOnInvalidCode zeroes the whole evaluation as soon as one answer code
// is unknown, whatever the other answers are.
func ZeroOnInvalidCode(raw float64, invalid int) float64 {
	if invalid > 0 {
		return 0
	}
	return raw
}

// Aggregate averages the non-nil scores rounded to 4 decimals. With no
// usable score it returns 0, not "no score".
func Aggregate(scores []*float64) float64 {
	sum := 0.0
	n := 0
	for _, s := range scores {
		if s == nil {
			continue
		}
		sum += *s
		n++
	}
	if n == 0 {
		return 0.0
	}
	return Round4(sum / float64(n))
}

// Round4 rounds half away from zero to 4 decimal places.
func Round4(x float64) float64 {
	return math.Round(x*10000) / 10000
}
