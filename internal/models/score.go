package models

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// LenientScore decodes any JSON value as a score. Numbers and numeric strings
// are kept; anything else, including NaN and infinities, becomes 0.
type LenientScore float64

func (s *LenientScore) UnmarshalJSON(data []byte) error {
	*s = 0
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}

	switch v := raw.(type) {
	case float64:
		*s = LenientScore(finiteOrZero(v))
	case string:
		*s = LenientScore(ParseScore(v))
	}
	return nil
}

// ParseScore parses user input the way a form field would: leading numeric
// text is used, anything unparseable is 0.
func ParseScore(text string) float64 {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0
	}
	if v, err := strconv.ParseFloat(text, 64); err == nil {
		return finiteOrZero(v)
	}

	end := 0
	seenDot, seenDigit := false, false
scan:
	for i, r := range text {
		switch {
		case r >= '0' && r <= '9':
			seenDigit = true
			end = i + 1
		case r == '.' && !seenDot:
			seenDot = true
		case (r == '-' || r == '+') && i == 0:
		default:
			break scan
		}
	}
	if !seenDigit {
		return 0
	}
	v, err := strconv.ParseFloat(text[:end], 64)
	if err != nil {
		return 0
	}
	return finiteOrZero(v)
}

func finiteOrZero(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
