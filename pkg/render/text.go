// Package render lays out catalog groups as channel messages.
package render

import (
	"strings"
	"unicode/utf16"
)

// Length returns the length of s in UTF-16 code units, the unit Telegram
// uses for its message size limit.
func Length(s string) int {
	n := 0
	for _, r := range s {
		if w := utf16.RuneLen(r); w > 0 {
			n += w
		} else {
			n++
		}
	}
	return n
}

// markdownV2Special lists the characters Telegram requires escaped in
// MarkdownV2 text outside of entities.
const markdownV2Special = "\\_*[]()~`>#+-=|{}.!"

// EscapeMarkdownV2 escapes every MarkdownV2 special character in text.
func EscapeMarkdownV2(text string) string {
	var b strings.Builder
	b.Grow(len(text) + len(text)/8)
	for _, r := range text {
		if strings.ContainsRune(markdownV2Special, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
