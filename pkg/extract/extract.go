package extract

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"github.com/aarondl/opt/null"
	"github.com/ohler55/ojg"
	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"
	"github.com/samber/lo"

	"github.com/mpapenbr/gps-extractor/pkg/model"
)

const (
	// LocationTag is the only event tag which is processed.
	LocationTag = "Navigation.Location"
	// KphToMph converts kilometers per hour to miles per hour
	KphToMph = 0.621371
)

// Extract collects one fix per Navigation.Location event of doc in document order.
// Any other shape of doc yields an empty table. Missing fields result in null columns.
func Extract(doc any) *model.Table {
	events, _ := lookup(doc, "events").([]any)
	fixes := lo.FilterMap(events, func(event any, _ int) (model.Fix, bool) {
		if !isLocationEvent(event) {
			return model.Fix{}, false
		}
		return toFix(event), true
	})
	return model.NewTable(lo.Map(fixes, func(f model.Fix, _ int) model.Fix {
		return withSpeedMph(f)
	}))
}

// lookup returns the value stored at key if v is an object, nil otherwise.
func lookup(v any, key string) any {
	return jp.C(key).First(v)
}

// lookupObject is like lookup but yields an empty object for absent or non-object values
func lookupObject(v any, key string) map[string]any {
	if obj, ok := lookup(v, key).(map[string]any); ok {
		return obj
	}
	return map[string]any{}
}

func isLocationEvent(event any) bool {
	if _, ok := event.(map[string]any); !ok {
		return false
	}
	tag, ok := lookup(event, "tag").(string)
	return ok && tag == LocationTag
}

func toFix(event any) model.Fix {
	val := lookupObject(event, "value")
	coord := lookupObject(val, "coordinate")
	velocity := lookupObject(val, "velocity")
	return model.Fix{
		FixTime:   scalar(lookup(val, "fixTime")),
		Latitude:  number(lookup(coord, "latitude")),
		Longitude: number(lookup(coord, "longitude")),
		SpeedKph:  number(lookup(velocity, "speed")),
	}
}

func withSpeedMph(f model.Fix) model.Fix {
	if kph, ok := f.SpeedKph.Get(); ok {
		f.SpeedMph = null.From(kph * KphToMph)
	}
	return f
}

// number accepts integer and float values. Everything else is treated as absent.
// Numbers the decoder keeps as json.Number (too many digits) are rounded to float64,
// out of range values become infinite.
func number(v any) null.Val[float64] {
	switch x := v.(type) {
	case float64:
		return null.From(x)
	case int64:
		return null.From(float64(x))
	case int:
		return null.From(float64(x))
	case json.Number:
		return bigNumber(x)
	default:
		return null.Val[float64]{}
	}
}

func bigNumber(n json.Number) null.Val[float64] {
	f, err := strconv.ParseFloat(n.String(), 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return null.Val[float64]{}
	}
	return null.From(f)
}

// scalar keeps strings, numbers and bools as they are. Objects and arrays are kept
// as compact JSON text. Long integers keep all their digits, long decimals are
// rounded to float64.
func scalar(v any) null.Val[any] {
	switch x := v.(type) {
	case nil:
		return null.Val[any]{}
	case json.Number:
		if !strings.ContainsAny(x.String(), ".eE") {
			return null.From[any](x)
		}
		if f, ok := bigNumber(x).Get(); ok {
			return null.From[any](f)
		}
		return null.From[any](x)
	case map[string]any, []any:
		return null.From[any](oj.JSON(v, &ojg.Options{Sort: true}))
	default:
		return null.From(v)
	}
}
