package display

// OpType identifies a recorded sink operation.
type OpType string

const (
	OpClear     OpType = "CLEAR"
	OpSetCursor OpType = "SET_CURSOR"
	OpPrint     OpType = "PRINT"
)

// Op is one recorded sink call.
type Op struct {
	Type OpType
	Col  int
	Row  int
	Text string
}

// Fake is a Sink that records every call for test assertions.
type Fake struct {
	Ops []Op
}

// NewFake creates a Fake sink.
func NewFake() *Fake {
	return &Fake{}
}

// Clear records a clear.
func (f *Fake) Clear() {
	f.Ops = append(f.Ops, Op{Type: OpClear})
}

// SetCursor records a cursor move.
func (f *Fake) SetCursor(col, row int) {
	f.Ops = append(f.Ops, Op{Type: OpSetCursor, Col: col, Row: row})
}

// Print records a print.
func (f *Fake) Print(text string) {
	f.Ops = append(f.Ops, Op{Type: OpPrint, Text: text})
}

// Printed returns all printed strings in order.
func (f *Fake) Printed() []string {
	var out []string
	for _, op := range f.Ops {
		if op.Type == OpPrint {
			out = append(out, op.Text)
		}
	}
	return out
}

// Reset clears recorded ops.
func (f *Fake) Reset() {
	f.Ops = nil
}
