package models

// SelectionItem is one normalized entry of the operator-provided override
// ordering: a content name plus how many consecutive times it plays. Name may
// reference a video filename or a presentation filename/stem; resolution
// happens later, against the enumerated content.
//
// The raw selection file is duck-typed (bare strings or objects with loose
// repeat values); the content package normalizes it into this shape before it
// reaches the playlist builder. Repeats is always >= 1 here.
type SelectionItem struct {
	Name    string
	Repeats int
}
