package cfg

// Instruction is one disassembled operation inside a basic block.
type Instruction struct {
	Offset     Address `json:"offset,omitempty"`
	Bytes      string  `json:"bytes,omitempty"`
	Text       string  `json:"text"`
	Size       int     `json:"size,omitempty"`
	Type       string  `json:"type,omitempty"`
	Class      Class   `json:"class"`
	JumpTarget Address `json:"jump,omitempty"`
	Comment    string  `json:"comment,omitempty"`
}

// String formats the instruction as "offset  text", the way a block card
// lists it.
func (i Instruction) String() string {
	if i.Offset == "" {
		return i.Text
	}
	return string(i.Offset) + "  " + i.Text
}

// BasicBlock is a normalized node candidate. Taken is the jump target (or
// the branch target when a condition holds); Fallthrough is sequential
// continuation. The empty Address marks either as absent. Size is zero when
// the backend did not report it.
type BasicBlock struct {
	Address      Address       `json:"address"`
	Size         int           `json:"size,omitempty"`
	Taken        Address       `json:"taken,omitempty"`
	Fallthrough  Address       `json:"fallthrough,omitempty"`
	Instructions []Instruction `json:"instructions"`
}

// Preview returns the text of the first instruction, or "".
func (b BasicBlock) Preview() string {
	if len(b.Instructions) == 0 {
		return ""
	}
	return b.Instructions[0].Text
}
