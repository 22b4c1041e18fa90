package roomlog

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"
)

const sampleLog = `{"RoomID":"r1","ParticipantID":"p1","DisplayName":"Ann","Message":"joined","Time":"2024-01-01T00:00:02Z"}
{"RoomID":"r1","ParticipantID":"p1","DisplayName":"Ann","Message":"left","Time":"2024-01-01T00:00:01Z"}
`

func TestParse_SampleLog(t *testing.T) {
	res, err := Parse([]byte(sampleLog), ParseOptions{})
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if len(res.Records) != 2 {
		t.Fatalf("len(Records) = %d, want 2", len(res.Records))
	}
	first := res.Records[0]
	if first.RoomID.String() != "r1" || first.ParticipantID.String() != "p1" {
		t.Fatalf("ids = %q/%q, want r1/p1", first.RoomID, first.ParticipantID)
	}
	if first.Message != "joined" || first.DisplayName != "Ann" {
		t.Fatalf("record = %#v", first)
	}
	want := time.Date(2024, 1, 1, 0, 0, 2, 0, time.UTC)
	if !first.Time.Equal(want) || !first.HasTime() {
		t.Fatalf("Time = %v (err %v), want %v", first.Time, first.TimeErr, want)
	}
	if first.Line != 1 || res.Records[1].Line != 2 {
		t.Fatalf("lines = %d,%d, want 1,2", first.Line, res.Records[1].Line)
	}
}

func TestParse_BlankInput(t *testing.T) {
	for _, input := range []string{"", "\n", "   \n\t\n\r\n"} {
		res, err := Parse([]byte(input), ParseOptions{})
		if err != nil {
			t.Fatalf("Parse(%q) error = %v", input, err)
		}
		if len(res.Records) != 0 || len(res.Skipped) != 0 {
			t.Fatalf("Parse(%q) = %#v, want empty", input, res)
		}
	}
}

func TestParse_TrimsAndCountsPhysicalLines(t *testing.T) {
	input := "\n   {\"RoomID\":1,\"Time\":\"2024-01-01T00:00:00Z\"}  \r\n\n{\"RoomID\":2,\"Time\":\"2024-01-01T00:00:00Z\"}"
	res, err := Parse([]byte(input), ParseOptions{})
	if err != nil {
		t.Fatalf("Parse error = %v", err)
	}
	if len(res.Records) != 2 {
		t.Fatalf("len(Records) = %d, want 2", len(res.Records))
	}
	if res.Records[0].Line != 2 || res.Records[1].Line != 4 {
		t.Fatalf("lines = %d,%d, want 2,4", res.Records[0].Line, res.Records[1].Line)
	}
}

func TestParse_StrictAbortsOnMalformedLine(t *testing.T) {
	input := sampleLog + "not-json\n" + sampleLog
	res, err := Parse([]byte(input), ParseOptions{})
	if err == nil {
		t.Fatal("Parse returned nil error for malformed line")
	}
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("error = %T, want *ParseError", err)
	}
	if perr.Line != 3 {
		t.Fatalf("ParseError.Line = %d, want 3", perr.Line)
	}
	if len(res.Records) != 0 {
		t.Fatalf("strict parse returned %d records, want 0", len(res.Records))
	}
}

func TestParse_LenientSkipsMalformedLines(t *testing.T) {
	input := "not-json\n" + sampleLog + "[1,2]\n{\"RoomID\":\n"
	res, err := Parse([]byte(input), ParseOptions{Lenient: true})
	if err != nil {
		t.Fatalf("Parse error = %v", err)
	}
	if len(res.Records) != 2 {
		t.Fatalf("len(Records) = %d, want 2", len(res.Records))
	}
	if len(res.Skipped) != 3 {
		t.Fatalf("len(Skipped) = %d, want 3", len(res.Skipped))
	}
	lines := []int{res.Skipped[0].Line, res.Skipped[1].Line, res.Skipped[2].Line}
	if !reflect.DeepEqual(lines, []int{1, 4, 5}) {
		t.Fatalf("skipped lines = %v, want [1 4 5]", lines)
	}
	if !errors.Is(res.Skipped[1], ErrNotObject) {
		t.Fatalf("Skipped[1] = %v, want ErrNotObject", res.Skipped[1])
	}
}

func TestDecodeLine_RejectsNonObjects(t *testing.T) {
	for _, line := range []string{`5`, `"room"`, `null`, `[]`} {
		d := DecodeLine([]byte(line), 7)
		if d.OK() {
			t.Fatalf("DecodeLine(%s) OK, want error", line)
		}
		if !errors.Is(d.Err, ErrNotObject) || d.Err.Line != 7 {
			t.Fatalf("DecodeLine(%s) err = %v", line, d.Err)
		}
	}
}

func TestDecodeLine_RejectsInvalidEscapes(t *testing.T) {
	d := DecodeLine([]byte(`{"RoomID":"a\x"}`), 1)
	if d.OK() {
		t.Fatal("DecodeLine accepted an invalid escape")
	}
}

func TestDecodeLine_Identifiers(t *testing.T) {
	d := DecodeLine([]byte(`{"RoomID":1234,"ParticipantID":"p-9","Time":"2024-01-01T00:00:00Z"}`), 1)
	if !d.OK() {
		t.Fatalf("DecodeLine error = %v", d.Err)
	}
	if d.Record.RoomID.Kind() != KindNumber || d.Record.RoomID.String() != "1234" {
		t.Fatalf("RoomID = %#v", d.Record.RoomID)
	}
	if d.Record.ParticipantID.Kind() != KindString || d.Record.ParticipantID.String() != "p-9" {
		t.Fatalf("ParticipantID = %#v", d.Record.ParticipantID)
	}

	d = DecodeLine([]byte(`{"RoomID":true,"ParticipantID":{"a":1}}`), 2)
	if !d.OK() {
		t.Fatalf("DecodeLine error = %v", d.Err)
	}
	if d.Record.RoomID.Kind() != KindOther || d.Record.RoomID.String() != "true" {
		t.Fatalf("RoomID = %#v, want other kind", d.Record.RoomID)
	}
	if d.Record.RoomID.Key() == StringID("true").Key() {
		t.Fatalf("RoomID true and \"true\" share key %q", d.Record.RoomID.Key())
	}
	if d.Record.ParticipantID.Kind() != KindOther || d.Record.ParticipantID.String() != `{"a":1}` {
		t.Fatalf("ParticipantID = %#v, want other kind", d.Record.ParticipantID)
	}
}

func TestDecodeLine_Times(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    time.Time
		wantErr bool
	}{
		{
			name: "rfc3339 nano with offset",
			line: `{"RoomID":1,"Time":"2024-03-05T10:11:12.345678+03:00"}`,
			want: time.Date(2024, 3, 5, 7, 11, 12, 345678000, time.UTC),
		},
		{
			name: "epoch millis",
			line: `{"RoomID":1,"Time":1704067201500}`,
			want: time.Date(2024, 1, 1, 0, 0, 1, 500000000, time.UTC),
		},
		{
			name: "space separated without zone",
			line: `{"RoomID":1,"Time":"2024-01-01 00:00:03"}`,
			want: time.Date(2024, 1, 1, 0, 0, 3, 0, time.UTC),
		},
		{name: "garbage", line: `{"RoomID":1,"Time":"yesterday"}`, wantErr: true},
		{name: "missing", line: `{"RoomID":1}`, wantErr: true},
		{name: "boolean", line: `{"RoomID":1,"Time":true}`, wantErr: true},
		{name: "out of range", line: `{"RoomID":1,"Time":1e20}`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := DecodeLine([]byte(tt.line), 3)
			if !d.OK() {
				t.Fatalf("DecodeLine error = %v", d.Err)
			}
			rec := d.Record
			if tt.wantErr {
				var terr *TimeParseError
				if !errors.As(rec.TimeErr, &terr) {
					t.Fatalf("TimeErr = %v, want *TimeParseError", rec.TimeErr)
				}
				if terr.Line != 3 {
					t.Fatalf("TimeParseError.Line = %d, want 3", terr.Line)
				}
				return
			}
			if rec.TimeErr != nil {
				t.Fatalf("TimeErr = %v", rec.TimeErr)
			}
			if !rec.Time.Equal(tt.want) {
				t.Fatalf("Time = %v, want %v", rec.Time, tt.want)
			}
		})
	}
}

func TestRecord_Text(t *testing.T) {
	if got := (Record{Message: "speech", Speech: "hello"}).Text(); got != "hello" {
		t.Fatalf("Text = %q, want hello", got)
	}
	if got := (Record{Message: "left"}).Text(); got != "left" {
		t.Fatalf("Text = %q, want left", got)
	}
}

func TestRecord_Problems(t *testing.T) {
	d := DecodeLine([]byte(`{"ParticipantID":3,"Time":"soon"}`), 9)
	problems := d.Record.Problems()
	if len(problems) != 2 {
		t.Fatalf("Problems = %v, want 2", problems)
	}
	var mk *MissingKeyError
	if !errors.As(problems[0], &mk) || mk.Key != "RoomID" || mk.Line != 9 {
		t.Fatalf("Problems[0] = %v, want missing RoomID on line 9", problems[0])
	}
	var te *TimeParseError
	if !errors.As(problems[1], &te) || te.Value != "soon" {
		t.Fatalf("Problems[1] = %v, want time error", problems[1])
	}
}

func TestRecord_ProblemsMissingParticipant(t *testing.T) {
	d := DecodeLine([]byte(`{"RoomID":1,"Time":"2024-01-01T00:00:00Z"}`), 4)
	problems := d.Record.Problems()
	if len(problems) != 1 {
		t.Fatalf("Problems = %v, want 1", problems)
	}
	var mk *MissingKeyError
	if !errors.As(problems[0], &mk) || mk.Key != "ParticipantID" || mk.Line != 4 {
		t.Fatalf("Problems[0] = %v, want missing ParticipantID on line 4", problems[0])
	}

	d = DecodeLine([]byte(`{"Time":"2024-01-01T00:00:00Z"}`), 5)
	if got := len(d.Record.Problems()); got != 2 {
		t.Fatalf("Problems without ids = %d, want 2", got)
	}
}

func TestRecord_MarshalRoundTrip(t *testing.T) {
	lines := []string{
		`{"RoomID":"r1","ParticipantID":"p1","DisplayName":"Ann","Message":"joined","Time":"2024-01-01T00:00:02Z"}`,
		`{"RoomID":1234,"ParticipantID":42,"DisplayName":"Bob","Time":"2024-01-01T00:00:02.123456789+03:00","Message":"speech","AudioFile":"a/b.ogg","Speech":"hi \"there\"\n"}`,
		`{"RoomID":1.5e3,"Time":1704067201500,"Message":"every one left"}`,
		`{"RoomID":"ü","DisplayName":"","Message":"left","Time":"bad"}`,
		`{"RoomID":"r1","ParticipantID":"p1","Message":5,"DisplayName":["a",1],"Time":"2024-01-01T00:00:02Z"}`,
		`{"RoomID":true,"ParticipantID":{"id":7},"Time":false,"Message":null}`,
		`{"RoomID":"r1","Time":"2024-01-01T00:00:02Z","Extra":1,"Nested":{"a":[true,null,"x"]}}`,
		`{"RoomID":"r1","Message":"first","Message":"second"}`,
		`{}`,
	}
	for _, line := range lines {
		d := DecodeLine([]byte(line), 1)
		if !d.OK() {
			t.Fatalf("DecodeLine(%s) error = %v", line, d.Err)
		}
		out, err := json.Marshal(d.Record)
		if err != nil {
			t.Fatalf("Marshal error = %v", err)
		}
		var want, got map[string]any
		if err := json.Unmarshal([]byte(line), &want); err != nil {
			t.Fatalf("Unmarshal input: %v", err)
		}
		if err := json.Unmarshal(out, &got); err != nil {
			t.Fatalf("Unmarshal output %s: %v", out, err)
		}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("round trip mismatch:\n got %s\nwant %s", out, line)
		}
	}
}

func TestRecord_MarshalBuiltRecord(t *testing.T) {
	rec := Record{
		RoomID:      NumberID("3"),
		DisplayName: "Ann",
		Message:     "joined",
		Time:        time.Date(2024, 1, 1, 0, 0, 1, 0, time.UTC),
	}
	out, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("Marshal error = %v", err)
	}
	var got map[string]any
	if err := json.Unmarshal(out, &got); err != nil {
		t.Fatalf("Unmarshal output %s: %v", out, err)
	}
	want := map[string]any{"RoomID": 3.0, "DisplayName": "Ann", "Message": "joined", "Time": "2024-01-01T00:00:01Z"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Marshal = %s, want %v", out, want)
	}
}

func TestDecodeLine_RepeatedKeyKeepsLast(t *testing.T) {
	d := DecodeLine([]byte(`{"RoomID":1,"Message":"first","Message":"second"}`), 1)
	if !d.OK() {
		t.Fatalf("DecodeLine error = %v", d.Err)
	}
	if d.Record.Message != "second" {
		t.Fatalf("Message = %q, want second", d.Record.Message)
	}
}

func TestDecodeLine_NonStringText(t *testing.T) {
	d := DecodeLine([]byte(`{"RoomID":1,"Message":5,"DisplayName":true}`), 1)
	if !d.OK() {
		t.Fatalf("DecodeLine error = %v", d.Err)
	}
	if d.Record.Message != "5" || d.Record.DisplayName != "true" {
		t.Fatalf("Message/DisplayName = %q/%q, want 5/true", d.Record.Message, d.Record.DisplayName)
	}
}

func TestParseError_Message(t *testing.T) {
	_, err := Parse([]byte("{}\n{"), ParseOptions{})
	if err == nil || !strings.HasPrefix(err.Error(), "line 2: ") {
		t.Fatalf("error = %v, want line 2 prefix", err)
	}
}
