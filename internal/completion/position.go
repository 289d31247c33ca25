package completion

import (
	"regexp"
	"unicode/utf8"

	"github.com/NikitaCOEUR/clangx/internal/textenc"
)

// InputPattern matches member access and scope resolution right before the
// cursor. Hosts with their own trigger logic can reuse it.
const InputPattern = `\.[a-zA-Z0-9_?!]*|[a-zA-Z]\w*::\w*|->\w*`

var (
	trailingWord = regexp.MustCompile(`[a-zA-Z0-9_]*$`)

	triggerPattern = regexp.MustCompile(`(` + InputPattern + `)$`)
)

// LocatePosition returns the character offset where the identifier ending
// at the end of input starts, or -1 for empty input. "foo.ba" gives 4 and
// "foo." gives 4: completion starts at the cursor.
func LocatePosition(input string) int {
	if input == "" {
		return -1
	}
	loc := trailingWord.FindStringIndex(input)
	if loc == nil {
		return -1
	}
	return utf8.RuneCountInString(input[:loc[0]])
}

// ShouldTrigger reports whether input ends in a context where completion
// should pop up on its own (after ".", "->" or "::")
func ShouldTrigger(input string) bool {
	return triggerPattern.MatchString(input)
}

// encodedColumn converts a character offset within line into clang's 1-based
// byte column, counted in the bytes clang reads once line is encoded
func encodedColumn(encoding, line string, charOffset int) (int, error) {
	prefix := line
	n := 0
	for i := range line {
		if n == charOffset {
			prefix = line[:i]
			break
		}
		n++
	}

	b, err := textenc.Encode(encoding, prefix)
	if err != nil {
		return 0, err
	}
	return len(b) + 1, nil
}
