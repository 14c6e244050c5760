package diagram

import (
	"bytes"
	"fmt"

	flowerrors "github.com/dshills/flowroute/pkg/errors"
	"github.com/dshills/flowroute/pkg/geometry"
	"github.com/tidwall/gjson"
)

// DecodeEvents parses a recorded geometry event stream.
//
// Three layouts are accepted:
//   - a JSON array of events
//   - a JSON object with an "events" array
//   - JSON lines, one event object per line
//
// Every decoded event is checked with GeometryEvent.Validate; the first
// failure is returned together with the index of the offending event.
func DecodeEvents(data []byte) ([]GeometryEvent, error) {
	raws, err := rawEvents(data)
	if err != nil {
		return nil, err
	}

	events := make([]GeometryEvent, 0, len(raws))
	for i, raw := range raws {
		ev := decodeEvent(raw)
		if err := ev.Validate(); err != nil {
			return nil, fmt.Errorf("event %d: %w", i, err)
		}
		events = append(events, ev)
	}
	return events, nil
}

// rawEvents splits the stream into one gjson.Result per event object
func rawEvents(data []byte) ([]gjson.Result, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return []gjson.Result{}, nil
	}

	// A single valid document is either an array or a wrapper object
	if gjson.ValidBytes(trimmed) {
		doc := gjson.ParseBytes(trimmed)
		switch {
		case doc.IsArray():
			return objectsOf(doc.Array())
		case doc.IsObject() && doc.Get("events").IsArray():
			return objectsOf(doc.Get("events").Array())
		case doc.IsObject():
			return []gjson.Result{doc}, nil
		default:
			return nil, fmt.Errorf("event stream must be an array, an object or JSON lines: %w", flowerrors.ErrInvalidEvent)
		}
	}

	// Fall back to JSON lines
	results := make([]gjson.Result, 0)
	var lineErr error
	line := 0
	gjson.ForEachLine(string(trimmed), func(r gjson.Result) bool {
		line++
		if !gjson.Valid(r.Raw) || !r.IsObject() {
			lineErr = fmt.Errorf("line %d is not a JSON object: %w", line, flowerrors.ErrInvalidEvent)
			return false
		}
		results = append(results, r)
		return true
	})
	if lineErr != nil {
		return nil, lineErr
	}
	return results, nil
}

func objectsOf(items []gjson.Result) ([]gjson.Result, error) {
	for i, item := range items {
		if !item.IsObject() {
			return nil, fmt.Errorf("event %d is not a JSON object: %w", i, flowerrors.ErrInvalidEvent)
		}
	}
	return items, nil
}

func decodeEvent(r gjson.Result) GeometryEvent {
	return GeometryEvent{
		Kind:                 EventKind(r.Get("kind").String()),
		ID:                   NodeID(r.Get("id").String()),
		ParentID:             NodeID(r.Get("parentId").String()),
		Body:                 decodeRect(r.Get("bodyRect")),
		Header:               decodeRect(r.Get("headerRect")),
		PositionInCollection: int(r.Get("positionInCollection").Int()),
		InCollection:         r.Get("isInCollection").Bool(),
		Selected:             r.Get("isSelected").Bool(),
	}
}

func decodeRect(r gjson.Result) geometry.Rect {
	if !r.Exists() {
		return geometry.Rect{}
	}
	return geometry.Rect{
		X:      r.Get("x").Float(),
		Y:      r.Get("y").Float(),
		Width:  r.Get("width").Float(),
		Height: r.Get("height").Float(),
	}
}
