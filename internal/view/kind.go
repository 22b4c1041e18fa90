package view

import "strings"

// EventKind groups the recorder's message vocabulary.
type EventKind int

const (
	KindOther EventKind = iota
	KindJoin
	KindLeave
	KindCamera
	KindEmpty
	KindSpeech
)

var eventKinds = map[string]EventKind{
	"joined with camera":    KindJoin,
	"joined without camera": KindJoin,
	"joined":                KindJoin,
	"left":                  KindLeave,
	"enable camera":         KindCamera,
	"disable camera":        KindCamera,
	"every one left":        KindEmpty,
	"speech":                KindSpeech,
}

// Classify maps a message to its event kind.
func Classify(message string) EventKind {
	if kind, ok := eventKinds[strings.ToLower(strings.TrimSpace(message))]; ok {
		return kind
	}
	return KindOther
}
