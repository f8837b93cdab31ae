package cfg

import "strings"

// Class is a coarse instruction category used for display colouring. It has
// no effect on graph structure.
type Class string

const (
	ClassCall  Class = "call"
	ClassUJump Class = "ujump"
	ClassCJump Class = "cjump"
	ClassRet   Class = "ret"
	ClassPush  Class = "push"
	ClassPop   Class = "pop"
	ClassMov   Class = "mov"
	ClassCmp   Class = "cmp"
	ClassNop   Class = "nop"
	ClassOther Class = "other"
)

// Classes lists every class in display order.
var Classes = []Class{
	ClassCall, ClassUJump, ClassCJump, ClassRet, ClassPush,
	ClassPop, ClassMov, ClassCmp, ClassNop, ClassOther,
}

var mnemonicClass = map[string]Class{
	"call": ClassCall, "callq": ClassCall, "bl": ClassCall, "blr": ClassCall,
	"bx": ClassUJump, "jmp": ClassUJump, "jmpq": ClassUJump, "ljmp": ClassUJump,
	"b": ClassUJump, "br": ClassUJump,
	"ret": ClassRet, "retq": ClassRet, "retn": ClassRet, "retf": ClassRet,
	"iret": ClassRet, "iretq": ClassRet,
	"push": ClassPush, "pushq": ClassPush, "pushl": ClassPush, "pushf": ClassPush,
	"pushfq": ClassPush, "stp": ClassPush,
	"pop": ClassPop, "popq": ClassPop, "popl": ClassPop, "popf": ClassPop,
	"popfq": ClassPop, "ldp": ClassPop,
	"lea": ClassMov, "movabs": ClassMov, "xchg": ClassMov, "ldr": ClassMov,
	"str": ClassMov, "adr": ClassMov, "adrp": ClassMov,
	"cmp": ClassCmp, "cmpq": ClassCmp, "cmpl": ClassCmp, "cmpb": ClassCmp,
	"test": ClassCmp, "testq": ClassCmp, "testl": ClassCmp, "testb": ClassCmp,
	"cmn": ClassCmp, "tst": ClassCmp, "ucomisd": ClassCmp, "comisd": ClassCmp,
	"nop": ClassNop, "nopw": ClassNop, "nopl": ClassNop, "endbr64": ClassNop,
	"endbr32": ClassNop,
}

// Backend instruction types, used when the mnemonic is unknown.
var typeClass = map[string]Class{
	"call": ClassCall, "ucall": ClassCall, "rcall": ClassCall, "ircall": ClassCall,
	"jmp": ClassUJump, "ujmp": ClassUJump, "rjmp": ClassUJump, "ijmp": ClassUJump,
	"irjmp": ClassUJump, "cjmp": ClassCJump, "ucjmp": ClassCJump,
	"ret": ClassRet, "cret": ClassRet,
	"push": ClassPush, "upush": ClassPush, "rpush": ClassPush,
	"pop": ClassPop,
	"mov": ClassMov, "lea": ClassMov, "load": ClassMov, "store": ClassMov,
	"cmp": ClassCmp, "acmp": ClassCmp,
	"nop": ClassNop,
}

var prefixes = map[string]bool{
	"rep": true, "repz": true, "repe": true, "repne": true, "repnz": true,
	"lock": true, "bnd": true, "notrack": true,
}

// Classify returns the class of an instruction from its text. Only the
// mnemonic (first word, ignoring rep/lock/bnd/notrack prefixes) is
// inspected. Unknown mnemonics are ClassOther.
func Classify(text string) Class {
	m := Mnemonic(text)
	if m == "" {
		return ClassOther
	}
	if m == "bx" && operand(text) == "lr" {
		return ClassRet
	}
	if c, ok := mnemonicClass[m]; ok {
		return c
	}
	switch {
	case strings.HasPrefix(m, "j"):
		return ClassCJump
	case strings.HasPrefix(m, "b.") || m == "cbz" || m == "cbnz" || m == "tbz" || m == "tbnz":
		return ClassCJump
	case strings.HasPrefix(m, "mov") || strings.HasPrefix(m, "cmov"):
		return ClassMov
	case strings.HasPrefix(m, "set") && len(m) > 3:
		return ClassMov
	}
	return ClassOther
}

// ClassifyType maps a backend instruction type ("cjmp", "ucall", ...) to a
// class. Unknown types are ClassOther.
func ClassifyType(typ string) Class {
	if c, ok := typeClass[strings.ToLower(strings.TrimSpace(typ))]; ok {
		return c
	}
	return ClassOther
}

// operand returns the lower-cased first operand of an instruction.
func operand(text string) string {
	seen := false
	for _, f := range strings.Fields(text) {
		f = strings.ToLower(f)
		if !seen {
			if prefixes[f] {
				continue
			}
			seen = true
			continue
		}
		return strings.TrimSuffix(f, ",")
	}
	return ""
}

// Mnemonic returns the lower-cased first word of an instruction's text,
// skipping instruction prefixes.
func Mnemonic(text string) string {
	for _, f := range strings.Fields(text) {
		f = strings.ToLower(f)
		if prefixes[f] {
			continue
		}
		return f
	}
	return ""
}
