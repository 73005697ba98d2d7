package value

// Matrix is a two-dimensional numeric array stored in row-major order.
// Every cell is a Real or a Complex.
type Matrix struct {
	rows, cols int
	cells      []Value
}

func (*Matrix) Kind() Kind { return KindMatrix }

// NewMatrix creates a rows×cols matrix from row-major cells. Booleans are
// stored as 0 or 1. It returns nil if the cell count does not match the
// shape or a cell is not numeric.
func NewMatrix(rows, cols int, cells []Value) *Matrix {
	if rows < 0 || cols < 0 || len(cells) != rows*cols {
		return nil
	}
	m := &Matrix{rows: rows, cols: cols, cells: make([]Value, len(cells))}
	for i, c := range cells {
		switch x := c.(type) {
		case Real, Complex:
			m.cells[i] = x
		case Bool:
			r, _ := AsReal(x)
			m.cells[i] = Real(r)
		default:
			return nil
		}
	}
	return m
}

// RowVector creates a 1×n matrix, or nil if a cell is not numeric.
func RowVector(cells ...Value) *Matrix {
	return NewMatrix(1, len(cells), cells)
}

// Reals creates a rows×cols matrix of real cells.
func Reals(rows, cols int, data ...float64) *Matrix {
	cells := make([]Value, len(data))
	for i, d := range data {
		cells[i] = Real(d)
	}
	return NewMatrix(rows, cols, cells)
}

// Rows returns the number of rows.
func (m *Matrix) Rows() int { return m.rows }

// Cols returns the number of columns.
func (m *Matrix) Cols() int { return m.cols }

// Len returns the number of cells.
func (m *Matrix) Len() int { return len(m.cells) }

// At returns the cell at (r, c), zero-based. ok is false when the position is
// out of bounds.
func (m *Matrix) At(r, c int) (Value, bool) {
	if r < 0 || c < 0 || r >= m.rows || c >= m.cols {
		return nil, false
	}
	return m.cells[r*m.cols+c], true
}

// Index returns the i-th cell in row-major order.
func (m *Matrix) Index(i int) (Value, bool) {
	if i < 0 || i >= len(m.cells) {
		return nil, false
	}
	return m.cells[i], true
}

// Cells returns a copy of the cells in row-major order.
func (m *Matrix) Cells() []Value {
	out := make([]Value, len(m.cells))
	copy(out, m.cells)
	return out
}

// SameShape reports whether m and o have identical dimensions.
func (m *Matrix) SameShape(o *Matrix) bool {
	return m.rows == o.rows && m.cols == o.cols
}

// IsComplex reports whether any cell is complex.
func (m *Matrix) IsComplex() bool {
	for _, c := range m.cells {
		if _, ok := c.(Complex); ok {
			return true
		}
	}
	return false
}

// Map applies f to every cell, preserving shape. It returns nil if f yields
// a non-numeric result for any cell.
func (m *Matrix) Map(f func(Value) Value) *Matrix {
	cells := make([]Value, len(m.cells))
	for i, c := range m.cells {
		cells[i] = f(c)
	}
	return NewMatrix(m.rows, m.cols, cells)
}

// Transpose returns the cols×rows transpose of m.
func (m *Matrix) Transpose() *Matrix {
	cells := make([]Value, len(m.cells))
	for r := 0; r < m.rows; r++ {
		for c := 0; c < m.cols; c++ {
			cells[c*m.rows+r] = m.cells[r*m.cols+c]
		}
	}
	return &Matrix{rows: m.cols, cols: m.rows, cells: cells}
}
