// Package key defines the key presses the traversal engine consumes.
//
// Hosts translate native input into Event values: the terminal UI converts
// tcell events, and the replay command parses a script with ParseSequence.
// A script is a string of bare characters and bracketed names:
//
//	"Hi<Space>there<BS><CR>"
//	"<Tab><C-p><Left>"
//
// Event.Text reports what a press types. Type units are matched against
// it, so the space bar types " " and Enter types "\n".
package key
