package compiler

import (
	"fmt"
	"strings"
)

// stackDepth follows the operand-stack height of one method as instructions
// are emitted. Code is generated in structured order, so a linear walk plus
// the height recorded at each branch target is enough to find the maximum.
type stackDepth struct {
	depth   int
	max     int
	targets map[string]int
	err     error
}

func newStackDepth() stackDepth {
	return stackDepth{targets: make(map[string]int)}
}

// apply accounts for one emitted instruction.
func (s *stackDepth) apply(instr string) {
	if s.err != nil {
		return
	}
	effect, err := stackEffect(instr)
	if err != nil {
		s.err = err
		return
	}
	s.depth += effect
	if s.depth < 0 {
		s.err = fmt.Errorf("operand stack underflow at %q", instr)
		return
	}
	if s.depth > s.max {
		s.max = s.depth
	}
	if target, ok := branchTarget(instr); ok {
		s.targets[target] = s.depth
	}
}

// place resets the height to the one recorded by a branch to label, if any.
func (s *stackDepth) place(label string) {
	if d, ok := s.targets[label]; ok {
		s.depth = d
	}
}

// limit is the value written as `.limit stack`; floor is a configured
// minimum.
func (s *stackDepth) limit(floor int) int {
	if s.max > floor {
		return s.max
	}
	return floor
}

var fixedEffects = map[string]int{
	"aconst_null": 1, "iconst_m1": 1, "iconst_0": 1, "iconst_1": 1,
	"iconst_2": 1, "iconst_3": 1, "iconst_4": 1, "iconst_5": 1,
	"bipush": 1, "sipush": 1, "ldc": 1, "new": 1, "getstatic": 1,
	"iload": 1, "aload": 1, "aload_0": 1, "dup": 1,
	"istore": -1, "astore": -1, "pop": -1,
	"iadd": -1, "isub": -1, "imul": -1, "idiv": -1,
	"iaload": -1, "aaload": -1, "iastore": -3, "aastore": -3,
	"ifeq": -1, "ifne": -1, "iflt": -1, "ifle": -1, "ifgt": -1, "ifge": -1,
	"if_icmpeq": -2, "if_icmpne": -2, "if_icmplt": -2,
	"if_icmple": -2, "if_icmpgt": -2, "if_icmpge": -2,
	"if_acmpeq": -2, "if_acmpne": -2,
	"goto": 0, "iinc": 0, "swap": 0, "checkcast": 0,
	"newarray": 0, "anewarray": 0,
	"return": 0, "ireturn": -1, "areturn": -1,
}

// stackEffect returns the number of slots instr pushes minus the number it
// pops. A trailing `; comment` is ignored.
func stackEffect(instr string) (int, error) {
	if i := strings.Index(instr, " ;"); i >= 0 {
		instr = instr[:i]
	}
	fields := strings.Fields(instr)
	if len(fields) == 0 {
		return 0, nil
	}
	op := fields[0]
	switch op {
	case "invokestatic", "invokevirtual", "invokespecial":
		if len(fields) < 2 {
			return 0, fmt.Errorf("%s without a method", op)
		}
		args, result, err := descriptorSlots(fields[1])
		if err != nil {
			return 0, err
		}
		if op != "invokestatic" {
			args++
		}
		return result - args, nil
	}
	if effect, ok := fixedEffects[op]; ok {
		return effect, nil
	}
	return 0, fmt.Errorf("no stack effect known for %q", op)
}

// descriptorSlots counts the argument slots and result slots of a method
// reference such as `Prog/f$0_0(I[ILjava/lang/String;)I`. Tiger values are
// all one slot wide.
func descriptorSlots(method string) (args, result int, err error) {
	open := strings.IndexByte(method, '(')
	closing := strings.LastIndexByte(method, ')')
	if open < 0 || closing < open {
		return 0, 0, fmt.Errorf("malformed method descriptor %q", method)
	}
	params := method[open+1 : closing]
	for i := 0; i < len(params); i++ {
		for i < len(params) && params[i] == '[' {
			i++
		}
		if i == len(params) {
			return 0, 0, fmt.Errorf("malformed method descriptor %q", method)
		}
		if params[i] == 'L' {
			end := strings.IndexByte(params[i:], ';')
			if end < 0 {
				return 0, 0, fmt.Errorf("malformed method descriptor %q", method)
			}
			i += end
		}
		args++
	}
	if method[closing+1:] != "V" {
		result = 1
	}
	return args, result, nil
}

func branchTarget(instr string) (string, bool) {
	fields := strings.Fields(instr)
	if len(fields) != 2 {
		return "", false
	}
	if fields[0] == "goto" || strings.HasPrefix(fields[0], "if") {
		return fields[1], true
	}
	return "", false
}
