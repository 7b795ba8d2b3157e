package rules

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"

	"github.com/reoring/vskema/codec"
)

// decodeParams decodes params into out. JSON float64, YAML int and Go int
// all land in the same typed field. Keys listed in need must be present.
func decodeParams(params map[string]any, out any, need ...string) error {
	for _, k := range need {
		if _, ok := params[k]; !ok {
			return fmt.Errorf("%w: missing %q", ErrBadParams, k)
		}
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
		TagName:          "mapstructure",
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(params); err != nil {
		return fmt.Errorf("%w: %v", ErrBadParams, err)
	}
	return nil
}

// paramStrings renders params for message interpolation.
func paramStrings(params map[string]any) map[string]string {
	if len(params) == 0 {
		return nil
	}
	out := make(map[string]string, len(params))
	for k, v := range params {
		out[k] = display(v)
	}
	return out
}

// display renders a param or value for humans.
func display(v any) string {
	if f, ok := codec.Number(v); ok {
		return fmtNum(f)
	}
	switch t := v.(type) {
	case nil:
		return "null"
	case string:
		return t
	case time.Time:
		return codec.FormatDate(t)
	case []any:
		parts := make([]string, len(t))
		for i, e := range t {
			parts[i] = display(e)
		}
		return strings.Join(parts, ", ")
	case []string:
		return strings.Join(t, ", ")
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = k + "=" + display(t[k])
		}
		return strings.Join(parts, ", ")
	}
	return fmt.Sprint(v)
}

func fmtNum(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }
