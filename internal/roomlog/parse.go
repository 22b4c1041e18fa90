package roomlog

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/valyala/fastjson"
)

// maxEpochMillis bounds numeric timestamps to what a browser Date accepts.
const maxEpochMillis = 8.64e15

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
}

var parsers fastjson.ParserPool

// ParseOptions controls how malformed lines are treated.
type ParseOptions struct {
	// Lenient skips malformed lines instead of failing the whole load.
	Lenient bool
}

// Result is the outcome of a successful Parse.
type Result struct {
	Records []Record
	Skipped []*ParseError
}

// Problems collects the data-quality issues of every parsed record.
func (r Result) Problems() []error {
	var out []error
	for _, rec := range r.Records {
		out = append(out, rec.Problems()...)
	}
	return out
}

// Decoded is the tagged outcome of decoding a single line: either Err is nil
// and Record is usable, or Err explains why the line was rejected.
type Decoded struct {
	Record Record
	Err    *ParseError
}

// OK reports whether the line decoded into a record.
func (d Decoded) OK() bool { return d.Err == nil }

// Parse splits data into lines, drops blank ones and decodes the rest. In
// strict mode the first malformed line aborts the parse and no records are
// returned.
func Parse(data []byte, opts ParseOptions) (Result, error) {
	var res Result
	lineNo := 0
	rest := data
	for len(rest) > 0 {
		var line []byte
		line, rest, _ = bytes.Cut(rest, []byte{'\n'})
		lineNo++
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		d := DecodeLine(line, lineNo)
		if !d.OK() {
			if !opts.Lenient {
				return Result{}, d.Err
			}
			res.Skipped = append(res.Skipped, d.Err)
			continue
		}
		res.Records = append(res.Records, d.Record)
	}
	return res, nil
}

// DecodeLine decodes one trimmed, non-empty line.
func DecodeLine(line []byte, lineNo int) Decoded {
	if err := fastjson.ValidateBytes(line); err != nil {
		return Decoded{Err: &ParseError{Line: lineNo, Err: err}}
	}

	p := parsers.Get()
	defer parsers.Put(p)

	v, err := p.ParseBytes(line)
	if err != nil {
		return Decoded{Err: &ParseError{Line: lineNo, Err: err}}
	}
	obj, err := v.Object()
	if err != nil {
		return Decoded{Err: &ParseError{Line: lineNo, Err: fmt.Errorf("%w, got %s", ErrNotObject, v.Type())}}
	}

	// A repeated key keeps its last value, as JSON.parse does.
	rec := Record{Line: lineNo, members: make([]member, 0, obj.Len())}
	fields := make(map[string]*fastjson.Value, obj.Len())
	obj.Visit(func(key []byte, val *fastjson.Value) {
		k := string(key)
		if _, seen := fields[k]; !seen {
			rec.members = append(rec.members, member{key: k})
		}
		fields[k] = val
	})
	for i := range rec.members {
		rec.members[i].value = fields[rec.members[i].key].MarshalTo(nil)
	}

	rec.RoomID = decodeID(fields["RoomID"])
	rec.ParticipantID = decodeID(fields["ParticipantID"])
	rec.DisplayName = decodeText(fields["DisplayName"])
	rec.Message = decodeText(fields["Message"])
	rec.Speech = decodeText(fields["Speech"])
	rec.AudioFile = decodeText(fields["AudioFile"])
	decodeTime(fields["Time"], &rec)
	return Decoded{Record: rec}
}

func decodeID(v *fastjson.Value) ID {
	if v == nil || v.Type() == fastjson.TypeNull {
		return ID{}
	}
	switch v.Type() {
	case fastjson.TypeString:
		return StringID(string(v.GetStringBytes()))
	case fastjson.TypeNumber:
		return NumberID(v.String())
	default:
		return OtherID(v)
	}
}

// decodeText returns strings as written and any other value as its JSON
// text.
func decodeText(v *fastjson.Value) string {
	if v == nil || v.Type() == fastjson.TypeNull {
		return ""
	}
	if v.Type() == fastjson.TypeString {
		return string(v.GetStringBytes())
	}
	return v.String()
}

func decodeTime(v *fastjson.Value, rec *Record) {
	if v == nil || v.Type() == fastjson.TypeNull {
		rec.TimeErr = &TimeParseError{Line: rec.Line, Err: errMissingTime}
		return
	}

	switch v.Type() {
	case fastjson.TypeNumber:
		rec.RawTime = v.String()
		ms, err := v.Float64()
		if err != nil {
			rec.TimeErr = &TimeParseError{Line: rec.Line, Value: rec.RawTime, Err: err}
			return
		}
		if math.Abs(ms) > maxEpochMillis {
			rec.TimeErr = &TimeParseError{Line: rec.Line, Value: rec.RawTime, Err: errors.New("out of range")}
			return
		}
		rec.Time = time.UnixMilli(int64(ms)).UTC()
	case fastjson.TypeString:
		rec.RawTime = string(v.GetStringBytes())
		t, err := ParseTime(rec.RawTime)
		if err != nil {
			rec.TimeErr = &TimeParseError{Line: rec.Line, Value: rec.RawTime, Err: err}
			return
		}
		rec.Time = t
	default:
		rec.RawTime = v.String()
		rec.TimeErr = &TimeParseError{Line: rec.Line, Value: rec.RawTime, Err: fmt.Errorf("unexpected %s", v.Type())}
	}
}

// ParseTime parses the timestamp layouts found in room logs. Layouts without
// a zone are read as UTC.
func ParseTime(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, errMissingTime
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.New("unrecognized time format")
}
