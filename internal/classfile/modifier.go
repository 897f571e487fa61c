package classfile

import (
	"fmt"
	"strings"
)

// Modifier is a set of access flags. Bit values follow the dex/class-file
// access_flags encoding.
type Modifier uint32

const (
	Public    Modifier = 0x0001
	Private   Modifier = 0x0002
	Protected Modifier = 0x0004
	Static    Modifier = 0x0008
	Final     Modifier = 0x0010
	Native    Modifier = 0x0100
	Interface Modifier = 0x0200
	Abstract  Modifier = 0x0400
)

// modifierWords is in source order.
var modifierWords = []struct {
	bit  Modifier
	word string
}{
	{Public, "public"},
	{Private, "private"},
	{Protected, "protected"},
	{Abstract, "abstract"},
	{Static, "static"},
	{Final, "final"},
	{Native, "native"},
	{Interface, "interface"},
}

// Has reports whether every bit of flag is set.
func (m Modifier) Has(flag Modifier) bool {
	return m&flag == flag
}

// Clear returns m with flag removed.
func (m Modifier) Clear(flag Modifier) Modifier {
	return m &^ flag
}

func (m Modifier) String() string {
	var words []string
	for _, w := range modifierWords {
		if m.Has(w.bit) {
			words = append(words, w.word)
		}
	}
	return strings.Join(words, " ")
}

// ParseModifiers converts modifier words ("public", "final", ...) to a set.
func ParseModifiers(words []string) (Modifier, error) {
	var m Modifier
	for _, word := range words {
		found := false
		for _, w := range modifierWords {
			if w.word == word {
				m |= w.bit
				found = true
				break
			}
		}
		if !found {
			return 0, fmt.Errorf("unknown modifier %q", word)
		}
	}
	return m, nil
}
