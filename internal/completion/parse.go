package completion

import (
	"bufio"
	"regexp"
	"strings"
)

var (
	withSignature    = regexp.MustCompile(`^COMPLETION:\s+(.*?) : (.*)$`)
	withoutSignature = regexp.MustCompile(`^COMPLETION:\s+(.*)$`)

	// clang placeholder markup: [#result#], <#placeholder#>, {#optional#}.
	// "#]" closes a result type and becomes a space before the name.
	markup = strings.NewReplacer(
		"[#", "",
		"#]", " ",
		"<#", "",
		"#>", "",
		"{#", "",
		"#}", "",
	)
)

// noisePrefix marks clang's internal function-pointer typedef completions
const noisePrefix = "PFNG"

// StripMarkup removes clang's placeholder markup from a signature
func StripMarkup(signature string) string {
	return markup.Replace(signature)
}

// ParseLine parses one line of clang output. ok is false for lines that are
// not completions and for completions that are filtered out.
func ParseLine(line string) (c Candidate, ok bool) {
	if m := withSignature.FindStringSubmatch(line); m != nil {
		word := m[1]
		if strings.HasPrefix(word, noisePrefix) {
			return Candidate{}, false
		}

		c = Candidate{Word: word, Dup: 1}
		if menu := StripMarkup(m[2]); menu != word {
			c.Menu = menu
			c.Info = menu
		}
		return c, true
	}

	if m := withoutSignature.FindStringSubmatch(line); m != nil {
		return Candidate{Word: m[1]}, true
	}

	return Candidate{}, false
}

// ParseOutput parses a whole clang report
func ParseOutput(output string) []Candidate {
	candidates := []Candidate{}

	scanner := bufio.NewScanner(strings.NewReader(output))
	scanner.Buffer(make([]byte, 0, 64*1024), MaxOutputSize)
	for scanner.Scan() {
		if c, ok := ParseLine(strings.TrimSuffix(scanner.Text(), "\r")); ok {
			candidates = append(candidates, c)
		}
	}

	return candidates
}
