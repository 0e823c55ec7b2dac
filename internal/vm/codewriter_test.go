package vm

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bklein/n2t/internal/asm"
)

// --- a tiny Hack CPU simulator, built on internal/asm's own parser, used
// to actually execute the assembly CodeWriter emits for eq/lt/gt rather
// than just eyeballing the generated text. ---

type simulator struct {
	ram    map[int16]int16
	a, d   int16
	pc     int
	instrs []asm.Command
	labels map[string]int
}

func newSimulator(program string) *simulator {
	commands, err := asm.Parse(strings.NewReader(program), "sim.asm")
	if err != nil {
		panic(err)
	}
	labels := map[string]int{}
	var instrs []asm.Command
	for _, cmd := range commands {
		if l, ok := cmd.(asm.LabelDecl); ok {
			labels[l.Name] = len(instrs)
			continue
		}
		instrs = append(instrs, cmd)
	}
	return &simulator{ram: map[int16]int16{}, instrs: instrs, labels: labels}
}

func (s *simulator) resolve(value string) int16 {
	switch value {
	case "SP":
		return 0
	case "R13":
		return 13
	case "R14":
		return 14
	}
	if n, err := strconv.Atoi(value); err == nil {
		return int16(n)
	}
	if addr, ok := s.labels[value]; ok {
		return int16(addr)
	}
	panic("unresolved symbol " + value)
}

func (s *simulator) run(maxSteps int) {
	for steps := 0; s.pc < len(s.instrs) && steps < maxSteps; steps++ {
		switch v := s.instrs[s.pc].(type) {
		case asm.AInstruction:
			s.a = s.resolve(v.Value)
			s.pc++
		case asm.CInstruction:
			oldA, oldD, m := s.a, s.d, s.ram[s.a]
			val := evalComp(v.Comp, oldA, oldD, m)
			jump := v.Jump != "" && checkJump(v.Jump, val)
			if strings.ContainsRune(v.Dest, 'M') {
				s.ram[oldA] = val
			}
			if strings.ContainsRune(v.Dest, 'A') {
				s.a = val
			}
			if strings.ContainsRune(v.Dest, 'D') {
				s.d = val
			}
			if jump {
				s.pc = int(oldA)
			} else {
				s.pc++
			}
		}
	}
}

func evalComp(comp string, a, d, m int16) int16 {
	switch comp {
	case "0":
		return 0
	case "1":
		return 1
	case "-1":
		return -1
	case "D":
		return d
	case "A":
		return a
	case "M":
		return m
	case "!D":
		return ^d
	case "!A":
		return ^a
	case "!M":
		return ^m
	case "-D":
		return -d
	case "-A":
		return -a
	case "-M":
		return -m
	case "D+1":
		return d + 1
	case "A+1":
		return a + 1
	case "M+1":
		return m + 1
	case "D-1":
		return d - 1
	case "A-1":
		return a - 1
	case "M-1":
		return m - 1
	case "D+A":
		return d + a
	case "D-A":
		return d - a
	case "A-D":
		return a - d
	case "D+M":
		return d + m
	case "D-M":
		return d - m
	case "M-D":
		return m - d
	case "D&A":
		return d & a
	case "D&M":
		return d & m
	case "D|A":
		return d | a
	case "D|M":
		return d | m
	}
	panic("unknown comp " + comp)
}

func checkJump(jump string, val int16) bool {
	switch jump {
	case "JGT":
		return val > 0
	case "JEQ":
		return val == 0
	case "JGE":
		return val >= 0
	case "JLT":
		return val < 0
	case "JNE":
		return val != 0
	case "JLE":
		return val <= 0
	case "JMP":
		return true
	}
	return false
}

// runComparison pushes x then y onto a stack based at 300, executes op,
// and returns the boolean result left on top of the stack (-1 or 0).
func runComparison(t *testing.T, op ArithOp, x, y int16) int16 {
	t.Helper()
	var out strings.Builder
	w := NewCodeWriter(&out)
	require.NoError(t, w.Write(Arithmetic{Op: op}))

	sim := newSimulator(out.String())
	sim.ram[0] = 302 // SP
	sim.ram[300] = x
	sim.ram[301] = y
	sim.run(10000)

	sp := sim.ram[0]
	return sim.ram[sp-1]
}

func TestComparisonOverflowSweep(t *testing.T) {
	const minInt16 = int16(-32768)
	const maxInt16 = int16(32767)
	values := []int16{minInt16, -1, 0, 1, maxInt16}

	for _, x := range values {
		for _, y := range values {
			wantEq := int16(0)
			if x == y {
				wantEq = -1
			}
			wantGt := int16(0)
			if x > y {
				wantGt = -1
			}
			wantLt := int16(0)
			if x < y {
				wantLt = -1
			}

			assert.Equal(t, wantEq, runComparison(t, Eq, x, y), "eq(%d,%d)", x, y)
			assert.Equal(t, wantGt, runComparison(t, Gt, x, y), "gt(%d,%d)", x, y)
			assert.Equal(t, wantLt, runComparison(t, Lt, x, y), "lt(%d,%d)", x, y)
		}
	}
}

func TestArithmeticBasic(t *testing.T) {
	cases := []struct {
		op   ArithOp
		x, y int16
		want int16
	}{
		{Add, 2, 3, 5},
		{Sub, 5, 3, 2},
		{And, 0b1100, 0b1010, 0b1000},
		{Or, 0b1100, 0b1010, 0b1110},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, runComparison(t, c.op, c.x, c.y), "%s(%d,%d)", c.op, c.x, c.y)
	}
}

func TestWriteBootstrapEmitsSPAndSysInitCall(t *testing.T) {
	var out strings.Builder
	w := NewCodeWriter(&out)
	w.WriteBootstrap()

	text := out.String()
	assert.True(t, strings.HasPrefix(text, "@256\nD=A\n@SP\nM=D\n"))
	assert.Contains(t, text, "@Sys.init")
}

func TestWritePushPopAcceptsEverySegment(t *testing.T) {
	segments := []Segment{Local, Argument, This, That, Temp, Pointer, Static}
	for _, seg := range segments {
		var out strings.Builder
		w := NewCodeWriter(&out)
		w.SetFileName("Test")
		require.NoError(t, w.Write(Push{Segment: Constant, Index: 42}))
		require.NoError(t, w.Write(Pop{Segment: seg, Index: 0}))
		require.NoError(t, w.Write(Push{Segment: seg, Index: 0}))
		assert.NotEmpty(t, out.String())
	}
}

func TestWriteStaticSymbolsAreUniquePerFile(t *testing.T) {
	var out strings.Builder
	w := NewCodeWriter(&out)

	w.SetFileName("A")
	require.NoError(t, w.Write(Push{Segment: Constant, Index: 1}))
	require.NoError(t, w.Write(Pop{Segment: Static, Index: 0}))

	w.SetFileName("B")
	require.NoError(t, w.Write(Push{Segment: Constant, Index: 2}))
	require.NoError(t, w.Write(Pop{Segment: Static, Index: 0}))

	text := out.String()
	assert.Contains(t, text, "@A.0")
	assert.Contains(t, text, "@B.0")
}

func TestFunctionAndReturnEmitEntryLabelAndFramePointers(t *testing.T) {
	var out strings.Builder
	w := NewCodeWriter(&out)
	require.NoError(t, w.Write(Function{Name: "Main.helper", NLocals: 0}))
	require.NoError(t, w.Write(Return{}))
	text := out.String()
	assert.Contains(t, text, "(Main.helper)")
	assert.Contains(t, text, "@LCL")
	assert.Contains(t, text, "@ARG")
}
