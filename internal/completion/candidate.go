// Package completion turns clang's code-completion report into editor
// completion candidates.
//
// The flow for one request is: locate the start of the word under the
// cursor, run clang with the buffer on stdin and
// -code-completion-at=-:<line>:<column>, then parse every
// "COMPLETION: <word> : <signature>" line of its output.
package completion

// Source metadata advertised to completion frameworks
const (
	SourceName = "clangx"
	SourceMark = "[clangx]"
	SourceRank = 500
)

// Filetypes are the editor filetypes this source completes
var Filetypes = []string{"c", "cpp", "objc", "objcpp"}

// Candidate is one completion suggestion, shaped like a vim complete-item
type Candidate struct {
	Word string `json:"word"`
	// Dup is 1 for entries with a signature column: overloads share a word
	// and must all be kept
	Dup  int    `json:"dup,omitempty"`
	Menu string `json:"menu,omitempty"`
	Info string `json:"info,omitempty"`
}
