package rules

import (
	"math"
	"time"

	vskema "github.com/reoring/vskema"
	"github.com/reoring/vskema/codec"
)

type boundParams struct {
	Min   float64 `mapstructure:"min"`
	Max   float64 `mapstructure:"max"`
	Value float64 `mapstructure:"value"`
}

type dateParams struct {
	Min any `mapstructure:"min"`
	Max any `mapstructure:"max"`
}

func minValue(v any, params map[string]any, vc vskema.ValidatorContext) (*vskema.ValidationError, error) {
	var p boundParams
	if err := decodeParams(params, &p, "min"); err != nil {
		return nil, err
	}
	f, ok := codec.Number(v)
	if !ok || f >= p.Min {
		return nil, nil
	}
	return fail(vc, vskema.CodeMinValue, map[string]string{"min": fmtNum(p.Min)}, v, p.Min), nil
}

func maxValue(v any, params map[string]any, vc vskema.ValidatorContext) (*vskema.ValidationError, error) {
	var p boundParams
	if err := decodeParams(params, &p, "max"); err != nil {
		return nil, err
	}
	f, ok := codec.Number(v)
	if !ok || f <= p.Max {
		return nil, nil
	}
	return fail(vc, vskema.CodeMaxValue, map[string]string{"max": fmtNum(p.Max)}, v, p.Max), nil
}

func integer(v any, _ map[string]any, vc vskema.ValidatorContext) (*vskema.ValidationError, error) {
	f, ok := codec.Number(v)
	if !ok || (!math.IsInf(f, 0) && f == math.Trunc(f)) {
		return nil, nil
	}
	return fail(vc, vskema.CodeNotInteger, nil, v, "integer"), nil
}

func positive(v any, _ map[string]any, vc vskema.ValidatorContext) (*vskema.ValidationError, error) {
	f, ok := codec.Number(v)
	if !ok || f > 0 {
		return nil, nil
	}
	return fail(vc, vskema.CodeNotPositive, nil, v, "> 0"), nil
}

func negative(v any, _ map[string]any, vc vskema.ValidatorContext) (*vskema.ValidationError, error) {
	f, ok := codec.Number(v)
	if !ok || f < 0 {
		return nil, nil
	}
	return fail(vc, vskema.CodeNotNegative, nil, v, "< 0"), nil
}

func multipleOf(v any, params map[string]any, vc vskema.ValidatorContext) (*vskema.ValidationError, error) {
	var p boundParams
	if err := decodeParams(params, &p, "value"); err != nil {
		return nil, err
	}
	f, ok := codec.Number(v)
	if !ok || p.Value == 0 {
		return nil, nil
	}
	q := f / p.Value
	if math.Abs(q-math.Round(q)) < 1e-9 {
		return nil, nil
	}
	return fail(vc, vskema.CodeNotMultipleOf, map[string]string{"value": fmtNum(p.Value)}, v, p.Value), nil
}

func minDate(v any, params map[string]any, vc vskema.ValidatorContext) (*vskema.ValidationError, error) {
	var p dateParams
	if err := decodeParams(params, &p, "min"); err != nil {
		return nil, err
	}
	bound, err := dateParam(p.Min)
	if err != nil {
		return nil, err
	}
	d, ok := dateValue(v)
	if !ok || !d.Before(bound) {
		return nil, nil
	}
	s := codec.FormatDate(bound)
	return fail(vc, vskema.CodeMinDate, map[string]string{"min": s}, v, s), nil
}

func maxDate(v any, params map[string]any, vc vskema.ValidatorContext) (*vskema.ValidationError, error) {
	var p dateParams
	if err := decodeParams(params, &p, "max"); err != nil {
		return nil, err
	}
	bound, err := dateParam(p.Max)
	if err != nil {
		return nil, err
	}
	d, ok := dateValue(v)
	if !ok || !d.After(bound) {
		return nil, nil
	}
	s := codec.FormatDate(bound)
	return fail(vc, vskema.CodeMaxDate, map[string]string{"max": s}, v, s), nil
}

func dateParam(p any) (time.Time, error) {
	t, ok := codec.ToDate(p)
	if !ok {
		return time.Time{}, ErrBadParams
	}
	return t, nil
}

// dateValue accepts time.Time and date strings; numbers are not dates here.
func dateValue(v any) (time.Time, bool) {
	switch v.(type) {
	case time.Time, *time.Time, string:
		return codec.ToDate(v)
	}
	return time.Time{}, false
}
