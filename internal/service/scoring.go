package service

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/tanishq4141/PROJECT-ALPHA/internal/models"
)

// Grade compares answers against the answer key by position. Missing or unusable answers
// count as wrong. Score is the rounded-half-up percentage of correct answers, 0 when there
// are no questions.
func Grade(questions models.Questions, answers []json.RawMessage) (correct, total, score int) {
	total = len(questions)
	for i, q := range questions {
		if i >= len(answers) {
			break
		}
		if idx, ok := answerIndex(answers[i]); ok && idx == q.CorrectOption {
			correct++
		}
	}
	return correct, total, percentage(correct, total)
}

// percentage computes round_half_up(correct/total*100) in integer arithmetic.
func percentage(correct, total int) int {
	if total <= 0 {
		return 0
	}
	return (correct*200 + total) / (2 * total)
}

// answerIndex coerces a submitted answer to an option index. Integral JSON numbers and
// numeric strings are accepted; null, fractions, booleans and everything else are not.
func answerIndex(raw json.RawMessage) (int, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return 0, false
	}
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return 0, false
	}
	switch x := v.(type) {
	case json.Number:
		return integral(x.String())
	case string:
		return integral(strings.TrimSpace(x))
	default:
		return 0, false
	}
}

func integral(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}
