package lot

import (
	"cmp"
	"errors"
	"fmt"
	"iter"
	"maps"
	"os"
	"slices"

	"github.com/eak1mov/go-pzmap/cell"
	"github.com/eak1mov/go-pzmap/cursor"
)

var (
	ErrInvalidPack        = errors.New("pzmap: invalid cell grid")
	ErrInvalidSquareCount = errors.New("pzmap: invalid square entry count")
	ErrInvalidTileIndex   = errors.New("pzmap: tile index out of range")
)

const (
	blockTableStride = 8 // int32 offset + int32 padding
	skipMarker       = -1
)

// SquareData holds the content of one square: the room it belongs to and the
// tile-name indices stacked on it.
type SquareData struct {
	RoomID int32
	Tiles  []int32
}

// Pack is the decoded .lotpack of one cell.
//
// Tile indices are only meaningful together with the Header the pack was
// decoded against; Pack keeps a reference to it but does not own it.
type Pack struct {
	Magic   string
	Version int32
	Header  *Header

	BlocksCount int
	Squares     map[cell.Key]SquareData
}

// ReadPack reads and decodes a grid file using a previously decoded header.
func ReadPack(filePath string, header *Header) (*Pack, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	pack, err := DecodePack(data, header)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filePath, err)
	}
	return pack, nil
}

// DecodePack decodes a whole grid buffer. The header provides the layer range
// of every block.
func DecodePack(data []byte, header *Header) (*Pack, error) {
	c := cursor.New(data)
	p := Pack{Header: header}

	var err error
	if p.Magic, err = c.ReadFixedChars(4); err != nil {
		return nil, err
	}
	if p.Magic != PackMagic {
		return nil, fmt.Errorf("%w: magic %q", ErrInvalidPack, p.Magic)
	}
	if p.Version, err = c.ReadInt32(); err != nil {
		return nil, err
	}
	if err := p.readSquareMap(c); err != nil {
		return nil, err
	}

	if err := c.EnsureEnd(); err != nil {
		return nil, err
	}
	return &p, nil
}

func (p *Pack) readSquareMap(c *cursor.Cursor) error {
	blocksCount, err := c.ReadCount()
	if err != nil {
		return err
	}
	if blocksCount > cell.BlocksPerCell {
		return fmt.Errorf("%w: %d blocks", ErrInvalidPack, blocksCount)
	}
	p.BlocksCount = blocksCount
	p.Squares = make(map[cell.Key]SquareData)

	tableOffset := c.Offset()
	for block := range blocksCount {
		blockOffset, err := c.ReadInt32At(tableOffset + block*blockTableStride)
		if err != nil {
			return err
		}
		if err := c.Seek(int(blockOffset)); err != nil {
			return fmt.Errorf("%w: block %d: %w", ErrInvalidPack, block, err)
		}
		if err := p.readBlockSquares(c, block); err != nil {
			return fmt.Errorf("block %d: %w", block, err)
		}
	}
	return nil
}

// readBlockSquares walks the squares of one block layer by layer, then by x,
// then by y. A -1 count starts a run of empty squares that includes the
// current one; the run may span rows and layers.
func (p *Pack) readBlockSquares(c *cursor.Cursor, block int) error {
	skip := 0
	for z := range p.Header.Layers() {
		if skip >= cell.SquaresPerBlock {
			skip -= cell.SquaresPerBlock
			continue
		}
		for x := range cell.BlockSizeInSquares {
			if skip >= cell.BlockSizeInSquares {
				skip -= cell.BlockSizeInSquares
				continue
			}
			for y := range cell.BlockSizeInSquares {
				if skip > 0 {
					skip--
					continue
				}

				count, err := c.ReadInt32()
				if err != nil {
					return err
				}

				switch {
				case count == skipMarker:
					n, err := c.ReadInt32()
					if err != nil {
						return err
					}
					skip = max(int(n)-1, 0)
				case count > 1:
					square, err := readSquare(c, int(count-1))
					if err != nil {
						return err
					}
					layer := int(p.Header.MinLayer) + z
					p.Squares[cell.NewKey(block, x, y, layer)] = square
				default:
					return fmt.Errorf("%w: %d at offset %d", ErrInvalidSquareCount, count, c.Offset()-4)
				}
			}
		}
	}
	return nil
}

func readSquare(c *cursor.Cursor, tilesCount int) (SquareData, error) {
	roomID, err := c.ReadInt32()
	if err != nil {
		return SquareData{}, err
	}
	square := SquareData{
		RoomID: roomID,
		Tiles:  make([]int32, 0, capacity(c, tilesCount, 4)),
	}
	for range tilesCount {
		tile, err := c.ReadInt32()
		if err != nil {
			return SquareData{}, err
		}
		square.Tiles = append(square.Tiles, tile)
	}
	return square, nil
}

func (p *Pack) Square(key cell.Key) (SquareData, bool) {
	square, ok := p.Squares[key]
	return square, ok
}

// Keys returns the keys of all non-empty squares in ascending order.
func (p *Pack) Keys() []cell.Key {
	return slices.SortedFunc(maps.Keys(p.Squares), func(a, b cell.Key) int {
		return cmp.Compare(a, b)
	})
}

// VisitSquares calls visitor for every non-empty square in ascending key order.
func (p *Pack) VisitSquares(visitor func(cell.Key, SquareData) error) error {
	for _, key := range p.Keys() {
		if err := visitor(key, p.Squares[key]); err != nil {
			return err
		}
	}
	return nil
}

// All returns an iterator over all non-empty squares in ascending key order.
func (p *Pack) All() iter.Seq2[cell.Key, SquareData] {
	return func(yield func(cell.Key, SquareData) bool) {
		for _, key := range p.Keys() {
			if !yield(key, p.Squares[key]) {
				return
			}
		}
	}
}

// TileNames resolves the tile indices of a square through the header.
func (p *Pack) TileNames(square SquareData) ([]string, error) {
	names := make([]string, 0, len(square.Tiles))
	for _, index := range square.Tiles {
		name, ok := p.Header.TileName(index)
		if !ok {
			return nil, fmt.Errorf("%w: %d (%d names)", ErrInvalidTileIndex, index, len(p.Header.TileNames))
		}
		names = append(names, name)
	}
	return names, nil
}
