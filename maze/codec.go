package maze

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
)

const codecVersion byte = 1

var (
	ErrMalformedGrid = errors.New("malformed grid payload")
)

// MarshalBinary encodes the grid as version, width, height, seed and one byte per cell.
func (g *Grid) MarshalBinary() ([]byte, error) {
	buf := make([]byte, 1+4+4+8, 1+4+4+8+len(g.cells))
	buf[0] = codecVersion
	binary.BigEndian.PutUint32(buf[1:5], uint32(g.width))
	binary.BigEndian.PutUint32(buf[5:9], uint32(g.height))
	binary.BigEndian.PutUint64(buf[9:17], uint64(g.seed))
	for _, c := range g.cells {
		buf = append(buf, byte(c))
	}
	return buf, nil
}

// UnmarshalBinary decodes a payload produced by MarshalBinary. Payloads whose
// dimensions Generate would reject, or that break the border and corner
// invariants, are refused.
func (g *Grid) UnmarshalBinary(data []byte) error {
	if len(data) < 17 || data[0] != codecVersion {
		return ErrMalformedGrid
	}
	width := int(binary.BigEndian.Uint32(data[1:5]))
	height := int(binary.BigEndian.Uint32(data[5:9]))
	if err := (Config{Width: width, Height: height}).Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedGrid, err)
	}
	if len(data)-17 != width*height {
		return fmt.Errorf("%w: %dx%d with %d cells", ErrMalformedGrid, width, height, len(data)-17)
	}

	decoded := newGrid(width, height, int64(binary.BigEndian.Uint64(data[9:17])))
	for i, b := range data[17:] {
		if Cell(b) != Wall && Cell(b) != Floor {
			return fmt.Errorf("%w: unknown cell state %d", ErrMalformedGrid, b)
		}
		decoded.cells[i] = Cell(b)
	}
	if err := decoded.checkInvariants(); err != nil {
		return err
	}

	*g = *decoded
	return nil
}

// checkInvariants verifies the wall border and the two open corners.
func (g *Grid) checkInvariants() error {
	for x := 0; x < g.width; x++ {
		if g.At(x, 0) != Wall || g.At(x, g.height-1) != Wall {
			return fmt.Errorf("%w: floor on the border at column %d", ErrMalformedGrid, x)
		}
	}
	for y := 0; y < g.height; y++ {
		if g.At(0, y) != Wall || g.At(g.width-1, y) != Wall {
			return fmt.Errorf("%w: floor on the border at row %d", ErrMalformedGrid, y)
		}
	}
	if g.At(1, 1) != Floor || g.At(g.width-2, g.height-2) != Floor {
		return fmt.Errorf("%w: corner cells must be floor", ErrMalformedGrid)
	}
	return nil
}

// Parse builds a grid from rows of '#' (wall) and any other rune (floor),
// top row first, the same orientation String produces. The border invariant is
// not enforced, which lets tests describe arbitrary layouts.
func Parse(rows []string) (*Grid, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("%w: empty layout", ErrMalformedGrid)
	}

	height, width := len(rows), len(rows[0])
	g := newGrid(width, height, 0)
	for i, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("%w: row %d has length %d, want %d", ErrMalformedGrid, i, len(row), width)
		}
		y := height - 1 - i
		for x, r := range row {
			if r != '#' {
				g.set(x, y, Floor)
			}
		}
	}
	return g, nil
}

// MustParse is like Parse but panics on malformed input.
func MustParse(layout string) *Grid {
	g, err := Parse(strings.Split(strings.Trim(layout, "\n"), "\n"))
	if err != nil {
		panic(err)
	}
	return g
}
