// Package lot decodes map cell files: the cell header (.lotheader) with its
// tile-name table, rooms and buildings, and the cell grid (.lotpack) holding
// the tiles of every square.
package lot

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"

	"github.com/eak1mov/go-pzmap/cell"
	"github.com/eak1mov/go-pzmap/cursor"
)

const (
	HeaderMagic = "LOTH"
	PackMagic   = "LOTP"

	HeaderExt = ".lotheader"
	PackExt   = ".lotpack"
)

var (
	ErrInvalidHeader = errors.New("pzmap: invalid cell header")
	ErrInvalidPath   = errors.New("pzmap: cell position not found in path")
)

type Rectangle struct {
	X      int32
	Y      int32
	Width  int32
	Height int32
}

type RoomObject struct {
	Type int32
	X    int32
	Y    int32
}

type Room struct {
	ID         int32
	Name       string
	Layer      int32
	Area       int32 // sum of rectangle areas
	Rectangles []Rectangle
	Objects    []RoomObject
}

type Building struct {
	ID      int32
	RoomIDs []int32
}

// Header is the decoded .lotheader of one cell.
type Header struct {
	Magic    string
	Version  int32
	Position cell.Position
	Width    int32
	Height   int32
	MinLayer int32
	MaxLayer int32 // exclusive

	TileNames []string
	Rooms     []Room
	Buildings []Building
	Spawns    []byte // one byte per block
}

// Layers returns the number of layers stored per block.
func (h *Header) Layers() int {
	return int(h.MaxLayer - h.MinLayer)
}

// TileName resolves an index of the tile-name table.
func (h *Header) TileName(index int32) (string, bool) {
	if index < 0 || int(index) >= len(h.TileNames) {
		return "", false
	}
	return h.TileNames[index], true
}

var positionPattern = regexp.MustCompile(`(\d+)_(\d+)\` + HeaderExt + `$`)

// PositionFromPath extracts the cell position from a "X_Y.lotheader" file name.
func PositionFromPath(filePath string) (cell.Position, error) {
	matches := positionPattern.FindStringSubmatch(filepath.Base(filePath))
	if matches == nil {
		return cell.Position{}, fmt.Errorf("%w: %q", ErrInvalidPath, filePath)
	}
	x, errX := strconv.ParseInt(matches[1], 10, 32)
	y, errY := strconv.ParseInt(matches[2], 10, 32)
	if err := errors.Join(errX, errY); err != nil {
		return cell.Position{}, fmt.Errorf("%w: %w", ErrInvalidPath, err)
	}
	return cell.Position{X: int32(x), Y: int32(y)}, nil
}

// ReadHeader reads and decodes a header file; the position comes from the file name.
func ReadHeader(filePath string) (*Header, error) {
	position, err := PositionFromPath(filePath)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	header, err := DecodeHeader(data, position)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filePath, err)
	}
	return header, nil
}

// DecodeHeader decodes a whole header buffer. The buffer must be consumed exactly.
func DecodeHeader(data []byte, position cell.Position) (*Header, error) {
	c := cursor.New(data)
	h := Header{Position: position}

	var err error
	if h.Magic, err = c.ReadFixedChars(4); err != nil {
		return nil, err
	}
	if h.Magic != HeaderMagic {
		return nil, fmt.Errorf("%w: magic %q", ErrInvalidHeader, h.Magic)
	}
	if h.Version, err = c.ReadInt32(); err != nil {
		return nil, err
	}
	if h.TileNames, err = readTileNames(c); err != nil {
		return nil, err
	}
	if h.Width, err = c.ReadInt32(); err != nil {
		return nil, err
	}
	if h.Height, err = c.ReadInt32(); err != nil {
		return nil, err
	}
	if h.MinLayer, err = c.ReadInt32(); err != nil {
		return nil, err
	}
	if h.MaxLayer, err = c.ReadInt32(); err != nil {
		return nil, err
	}
	h.MaxLayer++ // stored inclusive
	if h.MinLayer < cell.MinLayer || h.MaxLayer > cell.MaxLayer || h.MinLayer > h.MaxLayer {
		return nil, fmt.Errorf("%w: layers [%d, %d)", ErrInvalidHeader, h.MinLayer, h.MaxLayer)
	}
	if h.Rooms, err = readRooms(c); err != nil {
		return nil, err
	}
	if h.Buildings, err = readBuildings(c); err != nil {
		return nil, err
	}
	if h.Spawns, err = c.ReadExact(cell.BlocksPerCell); err != nil {
		return nil, err
	}

	if err := c.EnsureEnd(); err != nil {
		return nil, err
	}
	return &h, nil
}

// capacity bounds preallocation by what the remaining bytes could hold.
func capacity(c *cursor.Cursor, count, minSize int) int {
	return min(count, c.Remaining()/minSize)
}

func readTileNames(c *cursor.Cursor) ([]string, error) {
	count, err := c.ReadCount()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, capacity(c, count, 1))
	for range count {
		name, err := c.ReadLineTrimmed()
		if err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, nil
}

func readRooms(c *cursor.Cursor) ([]Room, error) {
	count, err := c.ReadCount()
	if err != nil {
		return nil, err
	}
	rooms := make([]Room, 0, capacity(c, count, 13))
	for i := range count {
		room := Room{ID: int32(i)}
		if room.Name, err = c.ReadLineTrimmed(); err != nil {
			return nil, err
		}
		if room.Layer, err = c.ReadInt32(); err != nil {
			return nil, err
		}
		if room.Rectangles, err = readRectangles(c); err != nil {
			return nil, err
		}
		if room.Objects, err = readRoomObjects(c); err != nil {
			return nil, err
		}
		for _, rect := range room.Rectangles {
			room.Area += rect.Width * rect.Height
		}
		rooms = append(rooms, room)
	}
	return rooms, nil
}

func readInt32s(c *cursor.Cursor, values ...*int32) error {
	for _, v := range values {
		var err error
		if *v, err = c.ReadInt32(); err != nil {
			return err
		}
	}
	return nil
}

func readRectangles(c *cursor.Cursor) ([]Rectangle, error) {
	count, err := c.ReadCount()
	if err != nil {
		return nil, err
	}
	rects := make([]Rectangle, 0, capacity(c, count, 16))
	for range count {
		var r Rectangle
		if err := readInt32s(c, &r.X, &r.Y, &r.Width, &r.Height); err != nil {
			return nil, err
		}
		rects = append(rects, r)
	}
	return rects, nil
}

func readRoomObjects(c *cursor.Cursor) ([]RoomObject, error) {
	count, err := c.ReadCount()
	if err != nil {
		return nil, err
	}
	objects := make([]RoomObject, 0, capacity(c, count, 12))
	for range count {
		var o RoomObject
		if err := readInt32s(c, &o.Type, &o.X, &o.Y); err != nil {
			return nil, err
		}
		objects = append(objects, o)
	}
	return objects, nil
}

func readBuildings(c *cursor.Cursor) ([]Building, error) {
	count, err := c.ReadCount()
	if err != nil {
		return nil, err
	}
	buildings := make([]Building, 0, capacity(c, count, 4))
	for i := range count {
		roomsCount, err := c.ReadCount()
		if err != nil {
			return nil, err
		}
		building := Building{ID: int32(i), RoomIDs: make([]int32, 0, capacity(c, roomsCount, 4))}
		for range roomsCount {
			id, err := c.ReadInt32()
			if err != nil {
				return nil, err
			}
			building.RoomIDs = append(building.RoomIDs, id)
		}
		buildings = append(buildings, building)
	}
	return buildings, nil
}
