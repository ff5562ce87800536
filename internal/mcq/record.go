// Package mcq defines the multiple-choice question record and the pieces
// that turn raw model text into records: sanitizing, shape checking and the
// record invariants.
package mcq

// OptionCount is the number of options every record carries.
const OptionCount = 4

// Record is one multiple-choice question.
type Record struct {
	Question    string   `json:"question" yaml:"question"`
	Options     []string `json:"options" yaml:"options"`
	Answer      string   `json:"answer" yaml:"answer"`
	Explanation string   `json:"explanation" yaml:"explanation"`
}
