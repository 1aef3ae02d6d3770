package cell_test

import (
	"testing"

	"github.com/eak1mov/go-pzmap/cell"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

type coord struct {
	Block, X, Y, Layer int
}

func TestKeyBounds(t *testing.T) {
	for _, c := range []coord{
		{0, 0, 0, -32},    // layer min
		{1023, 7, 7, 31},  // everything max
		{512, 3, 4, -5},   // neutral
		{0, 0, 0, 31},     // layer max, rest min
		{1023, 0, 0, -32}, // block max, layer min
		{0, 7, 7, 0},      // x/y max
		{1023, 7, 7, -32}, // max/min combo
		{0, 0, 0, 0},
	} {
		require.True(t, cell.ValidKey(c.Block, c.X, c.Y, c.Layer))
		key := cell.NewKey(c.Block, c.X, c.Y, c.Layer)

		var got coord
		got.Block, got.X, got.Y, got.Layer = key.Unpack()
		if diff := cmp.Diff(c, got); diff != "" {
			t.Errorf("Unpack(NewKey(%v)) mismatch (-want+got):\n%v", c, diff)
		}
		require.Equal(t, c.Block, key.Block())
		require.Equal(t, c.X, key.X())
		require.Equal(t, c.Y, key.Y())
		require.Equal(t, c.Layer, key.Layer())
	}
}

func TestKeyRoundTrip(t *testing.T) {
	seen := make(map[cell.Key]coord)
	for _, block := range []int{0, 1, 31, 32, 511, 1022, 1023} {
		for x := range cell.BlockSizeInSquares {
			for y := range cell.BlockSizeInSquares {
				for layer := cell.MinLayer; layer < cell.MaxLayer; layer++ {
					want := coord{block, x, y, layer}
					key := cell.NewKey(block, x, y, layer)
					if prev, dup := seen[key]; dup {
						t.Fatalf("NewKey(%v) collides with %v", want, prev)
					}
					seen[key] = want

					var got coord
					got.Block, got.X, got.Y, got.Layer = key.Unpack()
					if got != want {
						t.Fatalf("Unpack(NewKey(%v)) = %v", want, got)
					}
				}
			}
		}
	}
}

func TestValidKey(t *testing.T) {
	for _, c := range []coord{
		{-1, 0, 0, 0},
		{1024, 0, 0, 0},
		{0, 8, 0, 0},
		{0, 0, -1, 0},
		{0, 0, 0, -33},
		{0, 0, 0, 32},
	} {
		require.Falsef(t, cell.ValidKey(c.Block, c.X, c.Y, c.Layer), "%v", c)
	}
}

func TestPositionCode(t *testing.T) {
	codes := make(map[uint32]cell.Position)
	for _, p := range []cell.Position{
		{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}, {X: 27, Y: 38}, {X: 1023, Y: 1023}, {X: 512, Y: 3},
	} {
		code, err := p.Code()
		require.NoError(t, err)
		_, dup := codes[code]
		require.False(t, dup)
		codes[code] = p

		decoded, err := cell.PositionFromCode(code)
		require.NoError(t, err)
		require.Equal(t, p, decoded)
	}

	_, err := cell.Position{X: -1, Y: 0}.Code()
	require.ErrorIs(t, err, cell.ErrOutOfRange)
	_, err = cell.Position{X: 0, Y: cell.MaxCellsSize}.Code()
	require.ErrorIs(t, err, cell.ErrOutOfRange)
	_, err = cell.PositionFromCode(cell.MaxCellsSize * cell.MaxCellsSize)
	require.ErrorIs(t, err, cell.ErrOutOfRange)
}

func TestPositionHash(t *testing.T) {
	a := cell.Position{X: 27, Y: 38}
	b := cell.Position{X: 38, Y: 27}
	require.Equal(t, a.Hash(), cell.Position{X: 27, Y: 38}.Hash())
	require.NotEqual(t, a.Hash(), b.Hash())
	require.Equal(t, "27_38", a.String())
}
