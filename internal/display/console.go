package display

import "log"

// Console is a Sink that mirrors the display into the daemon log, one line
// per row on change. Used when no physical display is attached.
type Console struct {
	rows [Rows]string
	col  int
	row  int
}

// NewConsole creates a Console sink.
func NewConsole() *Console {
	return &Console{}
}

// Clear blanks both rows.
func (c *Console) Clear() {
	for i := range c.rows {
		c.rows[i] = ""
	}
	c.col, c.row = 0, 0
}

// SetCursor moves the cursor. Out-of-range positions are clamped.
func (c *Console) SetCursor(col, row int) {
	if col < 0 {
		col = 0
	}
	if col >= Cols {
		col = Cols - 1
	}
	if row < 0 {
		row = 0
	}
	if row >= Rows {
		row = Rows - 1
	}
	c.col, c.row = col, row
}

// Print writes text at the cursor and logs the updated row.
func (c *Console) Print(text string) {
	row := []rune(padTo(c.rows[c.row], c.col))
	runes := []rune(text)
	for i, r := range runes {
		pos := c.col + i
		if pos >= Cols {
			break
		}
		for len(row) <= pos {
			row = append(row, ' ')
		}
		row[pos] = r
	}
	c.rows[c.row] = string(row)
	log.Printf("display[%d]: %s", c.row, c.rows[c.row])
	c.col += len(runes)
}

func padTo(s string, n int) string {
	for len([]rune(s)) < n {
		s += " "
	}
	return s
}
