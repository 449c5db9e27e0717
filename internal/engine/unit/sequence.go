package unit

import "fmt"

// Section is a run of tokens sharing one modality.
type Section struct {
	Modality Modality `yaml:"modality" toml:"modality"`
	Tokens   []string `yaml:"tokens" toml:"tokens"`
}

// Sequence is the arena of units for one exercise load.
type Sequence struct {
	units []Unit
	marks []Mark

	// owner is the word index each Listen unit belongs to, or None.
	owner []int

	// starts maps a word index to the id of the unit that opens the word.
	starts []int
}

// Build allocates one unit per token, walking sections and tokens in order.
//
// Listen tokens that start a word (previous token in the section absent or
// blank, current token beginning with a letter or digit) are stamped with the
// next value of a sequence-wide word counter. Tokens that do not match get no
// index; the remaining units of a word, and the blanks after it, belong to the
// word that precedes them.
func Build(sections []Section) (*Sequence, error) {
	n := 0
	for i, sec := range sections {
		if !sec.Modality.Valid() {
			return nil, fmt.Errorf("section %d: %w: %d", i, ErrUnknownModality, sec.Modality)
		}
		n += len(sec.Tokens)
	}

	s := &Sequence{
		units: make([]Unit, 0, n),
		marks: make([]Mark, n),
		owner: make([]int, 0, n),
	}

	word := 0
	for _, sec := range sections {
		prevTok := ""
		current := None
		for _, tok := range sec.Tokens {
			id := len(s.units)
			u := Unit{
				ID:        id,
				Content:   tok,
				Modality:  sec.Modality,
				WordIndex: None,
				Prev:      None,
				Next:      None,
			}
			if id > 0 {
				u.Prev = id - 1
				s.units[id-1].Next = id
			}

			owner := None
			if sec.Modality == Listen {
				if (prevTok == "" || isBlank(prevTok)) && startsWord(tok) {
					u.WordIndex = word
					s.starts = append(s.starts, id)
					current = word
					word++
				}
				owner = current
			}

			s.units = append(s.units, u)
			s.owner = append(s.owner, owner)
			prevTok = tok
		}
	}
	return s, nil
}

// Len returns the number of units.
func (s *Sequence) Len() int {
	return len(s.units)
}

// Valid reports whether id addresses a unit.
func (s *Sequence) Valid(id int) bool {
	return id >= 0 && id < len(s.units)
}

// Unit returns the unit with the given id.
func (s *Sequence) Unit(id int) (Unit, bool) {
	if !s.Valid(id) {
		return Unit{}, false
	}
	return s.units[id], true
}

// At returns the unit with the given id. It panics if id is out of range.
func (s *Sequence) At(id int) Unit {
	return s.units[id]
}

// Units returns a copy of all units.
func (s *Sequence) Units() []Unit {
	out := make([]Unit, len(s.units))
	copy(out, s.units)
	return out
}

// First returns the first navigable unit id, or None.
func (s *Sequence) First() int {
	if len(s.units) == 0 {
		return None
	}
	if s.units[0].Navigable() {
		return 0
	}
	return s.NextNavigable(0)
}

// Last returns the last navigable unit id, or None.
func (s *Sequence) Last() int {
	n := len(s.units)
	if n == 0 {
		return None
	}
	if s.units[n-1].Navigable() {
		return n - 1
	}
	return s.PrevNavigable(n - 1)
}

// NextNavigable follows Next links from id, skipping Diagram units.
// Returns None at the end of the sequence.
func (s *Sequence) NextNavigable(id int) int {
	if !s.Valid(id) {
		return None
	}
	for next := s.units[id].Next; next != None; next = s.units[next].Next {
		if s.units[next].Navigable() {
			return next
		}
	}
	return None
}

// PrevNavigable follows Prev links from id, skipping Diagram units.
// Returns None at the start of the sequence.
func (s *Sequence) PrevNavigable(id int) int {
	if !s.Valid(id) {
		return None
	}
	for prev := s.units[id].Prev; prev != None; prev = s.units[prev].Prev {
		if s.units[prev].Navigable() {
			return prev
		}
	}
	return None
}

// Seek returns the first navigable unit at or after id, or None.
func (s *Sequence) Seek(id int) int {
	if !s.Valid(id) {
		return None
	}
	if s.units[id].Navigable() {
		return id
	}
	return s.NextNavigable(id)
}

// OwningWord returns the word index a Listen unit belongs to.
func (s *Sequence) OwningWord(id int) (int, bool) {
	if !s.Valid(id) || s.owner[id] == None {
		return None, false
	}
	return s.owner[id], true
}

// WordStart returns the id of the unit that opens word.
func (s *Sequence) WordStart(word int) (int, bool) {
	if word < 0 || word >= len(s.starts) {
		return None, false
	}
	return s.starts[word], true
}

// WordCount returns the number of word indices assigned.
func (s *Sequence) WordCount() int {
	return len(s.starts)
}

// Mark returns the commit state of a unit.
func (s *Sequence) Mark(id int) Mark {
	if !s.Valid(id) {
		return Mark{}
	}
	return s.marks[id]
}

// Commit marks a unit as acted upon.
func (s *Sequence) Commit(id int, correct bool) {
	if !s.Valid(id) {
		return
	}
	s.marks[id].Committed = true
	s.marks[id].Correct = correct
}

// Uncommit clears the commit state of a unit.
func (s *Sequence) Uncommit(id int) {
	if !s.Valid(id) {
		return
	}
	s.marks[id].Committed = false
	s.marks[id].Correct = false
}

// SetActive sets the cursor decoration of a unit.
func (s *Sequence) SetActive(id int, active bool) {
	if !s.Valid(id) {
		return
	}
	s.marks[id].Active = active
}

// Text concatenates the content of all units.
func (s *Sequence) Text() string {
	n := 0
	for _, u := range s.units {
		n += len(u.Content)
	}
	buf := make([]byte, 0, n)
	for _, u := range s.units {
		buf = append(buf, u.Content...)
	}
	return string(buf)
}
