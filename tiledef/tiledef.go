// Package tiledef decodes tile-sheet definition files (.tiles): per-sheet tile
// size and, for every tile, a free-form string property map.
package tiledef

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/eak1mov/go-pzmap/cursor"
)

const (
	Magic = "tdef"
	Ext   = ".tiles"

	// NoSpriteID marks tiles decoded without a sprite id generator.
	NoSpriteID int32 = -1
)

var ErrInvalidDefinition = errors.New("pzmap: invalid tile definition")

type TileData struct {
	Name       string // "<sheet>_<ordinal>"
	SpriteID   int32
	Properties map[string]string
}

type TileSheet struct {
	Name       string
	ImageName  string
	TileWidth  int32
	TileHeight int32
	Number     int32
	Tiles      []TileData
}

type Set struct {
	Name    string
	Magic   string
	Version int32
	Sheets  []TileSheet
}

func (s *Set) Sheet(name string) (*TileSheet, bool) {
	for i := range s.Sheets {
		if s.Sheets[i].Name == name {
			return &s.Sheets[i], true
		}
	}
	return nil, false
}

// Tile looks a tile up by its synthesized "<sheet>_<ordinal>" name.
func (s *Set) Tile(name string) (*TileData, bool) {
	for i := range s.Sheets {
		sheet := &s.Sheets[i]
		if len(name) <= len(sheet.Name)+1 || name[:len(sheet.Name)] != sheet.Name || name[len(sheet.Name)] != '_' {
			continue
		}
		ordinal, err := strconv.Atoi(name[len(sheet.Name)+1:])
		if err != nil || ordinal < 0 || ordinal >= len(sheet.Tiles) {
			continue
		}
		return &sheet.Tiles[ordinal], true
	}
	return nil, false
}

// SpriteIDFunc allocates a sprite id for every decoded tile, in file order.
type SpriteIDFunc func(sheet *TileSheet, ordinal int) int32

type decodeConfig struct {
	SpriteID SpriteIDFunc
}

type DecodeOption func(*decodeConfig)

// WithSpriteIDs assigns tile sprite ids with the given generator instead of NoSpriteID.
func WithSpriteIDs(f SpriteIDFunc) DecodeOption {
	return func(c *decodeConfig) { c.SpriteID = f }
}

// ReadFile reads and decodes a definition file; its name is the file name.
func ReadFile(filePath string, opts ...DecodeOption) (*Set, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	set, err := Decode(filepath.Base(filePath), data, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filePath, err)
	}
	return set, nil
}

// Decode decodes a whole definition buffer. The buffer must be consumed exactly.
func Decode(name string, data []byte, opts ...DecodeOption) (*Set, error) {
	config := decodeConfig{
		SpriteID: func(*TileSheet, int) int32 { return NoSpriteID },
	}
	for _, opt := range opts {
		opt(&config)
	}

	c := cursor.New(data)
	s := Set{Name: name}

	var err error
	if s.Magic, err = c.ReadFixedChars(4); err != nil {
		return nil, err
	}
	if s.Magic != Magic {
		return nil, fmt.Errorf("%w: magic %q", ErrInvalidDefinition, s.Magic)
	}
	if s.Version, err = c.ReadInt32(); err != nil {
		return nil, err
	}

	count, err := c.ReadCount()
	if err != nil {
		return nil, err
	}
	s.Sheets = make([]TileSheet, 0, min(count, c.Remaining()/18))
	for range count {
		sheet, err := readSheet(c, config.SpriteID)
		if err != nil {
			return nil, err
		}
		s.Sheets = append(s.Sheets, sheet)
	}

	if err := c.EnsureEnd(); err != nil {
		return nil, err
	}
	return &s, nil
}

func readSheet(c *cursor.Cursor, spriteID SpriteIDFunc) (TileSheet, error) {
	var sheet TileSheet
	var err error
	if sheet.Name, err = c.ReadLineTrimmed(); err != nil {
		return TileSheet{}, err
	}
	if sheet.ImageName, err = c.ReadLineTrimmed(); err != nil {
		return TileSheet{}, fmt.Errorf("sheet %q: %w", sheet.Name, err)
	}
	for _, v := range []*int32{&sheet.TileWidth, &sheet.TileHeight, &sheet.Number} {
		if *v, err = c.ReadInt32(); err != nil {
			return TileSheet{}, fmt.Errorf("sheet %q: %w", sheet.Name, err)
		}
	}
	tilesCount, err := c.ReadCount()
	if err != nil {
		return TileSheet{}, fmt.Errorf("sheet %q: %w", sheet.Name, err)
	}

	sheet.Tiles = make([]TileData, 0, min(tilesCount, c.Remaining()/4))
	for i := range tilesCount {
		properties, err := readProperties(c)
		if err != nil {
			return TileSheet{}, fmt.Errorf("sheet %q tile %d: %w", sheet.Name, i, err)
		}
		sheet.Tiles = append(sheet.Tiles, TileData{
			Name:       sheet.Name + "_" + strconv.Itoa(i),
			Properties: properties,
		})
	}
	for i := range sheet.Tiles {
		sheet.Tiles[i].SpriteID = spriteID(&sheet, i)
	}
	return sheet, nil
}

func readProperties(c *cursor.Cursor) (map[string]string, error) {
	count, err := c.ReadCount()
	if err != nil {
		return nil, err
	}
	properties := make(map[string]string, min(count, c.Remaining()/2))
	for range count {
		key, err := c.ReadLineTrimmed()
		if err != nil {
			return nil, err
		}
		value, err := c.ReadLineTrimmed()
		if err != nil {
			return nil, err
		}
		properties[key] = value
	}
	return properties, nil
}
