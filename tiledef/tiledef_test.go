package tiledef_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/eak1mov/go-pzmap/cursor"
	"github.com/eak1mov/go-pzmap/internal/testbuf"
	"github.com/eak1mov/go-pzmap/tiledef"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func definitionData() *testbuf.Builder {
	b := new(testbuf.Builder)
	b.Chars(tiledef.Magic).Int32(1).Int32(2)

	b.Line("floors_exterior_natural_01").Line("floors_exterior_natural_01.png")
	b.Int32(128, 256, 1).Int32(2)
	b.Int32(2).Line("solidfloor").Line("").Line("FloorMaterial").Line("Grass")
	b.Int32(0)

	b.Line("walls_01").Line("walls_01.png")
	b.Int32(128, 256, 7).Int32(1)
	b.Int32(1).Line("WallN").Line("")
	return b
}

func TestDecode(t *testing.T) {
	set, err := tiledef.Decode("newtiledefinitions.tiles", definitionData().Bytes())
	require.NoError(t, err)

	want := &tiledef.Set{
		Name:    "newtiledefinitions.tiles",
		Magic:   "tdef",
		Version: 1,
		Sheets: []tiledef.TileSheet{
			{
				Name:       "floors_exterior_natural_01",
				ImageName:  "floors_exterior_natural_01.png",
				TileWidth:  128,
				TileHeight: 256,
				Number:     1,
				Tiles: []tiledef.TileData{
					{
						Name:       "floors_exterior_natural_01_0",
						SpriteID:   tiledef.NoSpriteID,
						Properties: map[string]string{"solidfloor": "", "FloorMaterial": "Grass"},
					},
					{
						Name:       "floors_exterior_natural_01_1",
						SpriteID:   tiledef.NoSpriteID,
						Properties: map[string]string{},
					},
				},
			},
			{
				Name:       "walls_01",
				ImageName:  "walls_01.png",
				TileWidth:  128,
				TileHeight: 256,
				Number:     7,
				Tiles: []tiledef.TileData{
					{Name: "walls_01_0", SpriteID: tiledef.NoSpriteID, Properties: map[string]string{"WallN": ""}},
				},
			},
		},
	}
	if diff := cmp.Diff(want, set); diff != "" {
		t.Errorf("Decode mismatch (-want+got):\n%v", diff)
	}
}

func TestDecodeSpriteIDs(t *testing.T) {
	next := int32(100)
	set, err := tiledef.Decode("defs", definitionData().Bytes(), tiledef.WithSpriteIDs(
		func(sheet *tiledef.TileSheet, ordinal int) int32 {
			next++
			return next
		}))
	require.NoError(t, err)

	var ids []int32
	for _, sheet := range set.Sheets {
		for _, tile := range sheet.Tiles {
			ids = append(ids, tile.SpriteID)
		}
	}
	require.Equal(t, []int32{101, 102, 103}, ids)

	set, err = tiledef.Decode("defs", definitionData().Bytes(), tiledef.WithSpriteIDs(
		func(sheet *tiledef.TileSheet, ordinal int) int32 {
			return sheet.Number*1000 + int32(ordinal)
		}))
	require.NoError(t, err)
	require.Equal(t, int32(1001), set.Sheets[0].Tiles[1].SpriteID)
	require.Equal(t, int32(7000), set.Sheets[1].Tiles[0].SpriteID)
}

func TestLookups(t *testing.T) {
	set, err := tiledef.Decode("defs", definitionData().Bytes())
	require.NoError(t, err)

	sheet, ok := set.Sheet("walls_01")
	require.True(t, ok)
	require.Equal(t, int32(7), sheet.Number)
	_, ok = set.Sheet("walls_02")
	require.False(t, ok)

	tile, ok := set.Tile("floors_exterior_natural_01_0")
	require.True(t, ok)
	require.Equal(t, "Grass", tile.Properties["FloorMaterial"])

	tile, ok = set.Tile("walls_01_0")
	require.True(t, ok)
	require.Contains(t, tile.Properties, "WallN")

	for _, name := range []string{"walls_01_1", "walls_01_", "walls_01", "walls_01_x", "walls_01_-1", "roofs_0"} {
		_, ok := set.Tile(name)
		require.Falsef(t, ok, "%q", name)
	}
}

func TestDecodeErrors(t *testing.T) {
	valid := definitionData().Bytes()

	for _, tc := range []struct {
		Name string
		Data []byte
		Err  error
	}{
		{Name: "Magic", Data: append([]byte("tdex"), valid[4:]...), Err: tiledef.ErrInvalidDefinition},
		{Name: "Trailing", Data: append(definitionData().Bytes(), '\n'), Err: cursor.ErrTrailingBytes},
		{Name: "Truncated", Data: valid[:len(valid)-1], Err: cursor.ErrDelimiterNotFound},
		{Name: "NoTiles", Data: new(testbuf.Builder).Chars(tiledef.Magic).Int32(1, 1).Line("a").Line("a.png").Int32(1, 1).Bytes(), Err: cursor.ErrBufferUnderrun},
		{Name: "NegativeTiles", Data: new(testbuf.Builder).Chars(tiledef.Magic).Int32(1, 1).Line("a").Line("a.png").Int32(1, 1, 0, -1).Bytes(), Err: cursor.ErrInvalidCount},
	} {
		t.Run(tc.Name, func(t *testing.T) {
			set, err := tiledef.Decode(tc.Name, tc.Data)
			require.ErrorIs(t, err, tc.Err)
			require.Nil(t, set)
		})
	}
}

func TestReadFile(t *testing.T) {
	filePath := filepath.Join(t.TempDir(), "tiledefinitions.tiles")
	require.NoError(t, os.WriteFile(filePath, definitionData().Bytes(), 0644))

	set, err := tiledef.ReadFile(filePath)
	require.NoError(t, err)
	require.Equal(t, "tiledefinitions.tiles", set.Name)
	require.Len(t, set.Sheets, 2)
}
