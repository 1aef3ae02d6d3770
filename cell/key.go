package cell

import "fmt"

// Key packs a square coordinate inside a cell: block index, local x/y inside
// the block and the absolute layer. It is comparable and meant as a map key.
//
// Layout (low to high): layer+32 (6 bits), y (3 bits), x (3 bits), block (10 bits).
type Key uint32

const (
	layerBits = 6
	localBits = 3
	blockBits = 10

	layerMask = 1<<layerBits - 1
	localMask = 1<<localBits - 1
	blockMask = 1<<blockBits - 1

	yShift     = layerBits
	xShift     = yShift + localBits
	blockShift = xShift + localBits
)

// NewKey packs the coordinate. Values outside their ranges are masked; use
// ValidKey to check them first.
func NewKey(block, x, y, layer int) Key {
	return Key(uint32(block&blockMask)<<blockShift |
		uint32(x&localMask)<<xShift |
		uint32(y&localMask)<<yShift |
		uint32((layer-MinLayer)&layerMask))
}

// ValidKey reports whether the coordinate fits into a Key without loss.
func ValidKey(block, x, y, layer int) bool {
	return block >= 0 && block < BlocksPerCell &&
		x >= 0 && x < BlockSizeInSquares &&
		y >= 0 && y < BlockSizeInSquares &&
		layer >= MinLayer && layer < MaxLayer
}

func (k Key) Block() int { return int(k>>blockShift) & blockMask }
func (k Key) X() int     { return int(k>>xShift) & localMask }
func (k Key) Y() int     { return int(k>>yShift) & localMask }
func (k Key) Layer() int { return int(k&layerMask) + MinLayer }

func (k Key) Unpack() (block, x, y, layer int) {
	return k.Block(), k.X(), k.Y(), k.Layer()
}

func (k Key) String() string {
	return fmt.Sprintf("{%d %d %d %d}", k.Block(), k.X(), k.Y(), k.Layer())
}
