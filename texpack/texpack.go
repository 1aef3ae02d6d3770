// Package texpack decodes texture atlas packs (.pack): pages of named sub-textures
// with the page image kept as opaque encoded bytes.
package texpack

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/eak1mov/go-pzmap/cursor"
	"github.com/eak1mov/go-pzmap/fnvhash"
)

const (
	Magic = "PZPK"
	Ext   = ".pack"

	// Version0 packs have no magic/version prefix and end every page image with imageEndMarker.
	Version0 = 0
	// Version1 packs store page images length-prefixed.
	Version1 = 1
)

var imageEndMarker = []byte{0xEF, 0xBE, 0xAD, 0xDE}

var ErrUnsupportedVersion = errors.New("pzmap: unsupported texture pack version")

type Texture struct {
	Name string

	// source rectangle inside the page image
	X      int32
	Y      int32
	Width  int32
	Height int32

	// placement of the trimmed rectangle inside the original sprite
	OX int32
	OY int32
	OW int32
	OH int32
}

// Hash is the FNV-1a hash of the texture name.
func (t *Texture) Hash() uint32 {
	return fnvhash.String(t.Name)
}

type Page struct {
	Name     string
	HasAlpha bool
	Textures []Texture
	Image    []byte // encoded image (PNG), not decoded
}

// Texture looks a texture up by name with a linear scan; use Index for repeated lookups.
func (p *Page) Texture(name string) (*Texture, bool) {
	for i := range p.Textures {
		if p.Textures[i].Name == name {
			return &p.Textures[i], true
		}
	}
	return nil, false
}

type Pack struct {
	Name    string
	Magic   string // empty for version 0 packs
	Version int32
	Pages   []Page
}

func (p *Pack) Page(name string) (*Page, bool) {
	for i := range p.Pages {
		if p.Pages[i].Name == name {
			return &p.Pages[i], true
		}
	}
	return nil, false
}

// ReadFile reads and decodes a pack; its name is the file name.
func ReadFile(filePath string) (*Pack, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	pack, err := Decode(filepath.Base(filePath), data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filePath, err)
	}
	return pack, nil
}

// Decode decodes a whole pack buffer. The buffer must be consumed exactly.
func Decode(name string, data []byte) (*Pack, error) {
	c := cursor.New(data)
	p := Pack{Name: name}

	magic, err := c.ReadFixedChars(4)
	if err != nil {
		return nil, err
	}
	if magic == Magic {
		p.Magic = magic
		if p.Version, err = c.ReadInt32(); err != nil {
			return nil, err
		}
	} else {
		// legacy layout: the page table starts at the first byte
		if err := c.Seek(0); err != nil {
			return nil, err
		}
		p.Version = Version0
	}
	if p.Version != Version0 && p.Version != Version1 {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, p.Version)
	}

	if p.Pages, err = readPages(c, p.Version); err != nil {
		return nil, err
	}

	if err := c.EnsureEnd(); err != nil {
		return nil, err
	}
	return &p, nil
}

func readPages(c *cursor.Cursor, version int32) ([]Page, error) {
	count, err := c.ReadCount()
	if err != nil {
		return nil, err
	}
	pages := make([]Page, 0, min(count, c.Remaining()/12))
	for i := range count {
		var page Page
		if page.Name, err = c.ReadLengthPrefixedString(); err != nil {
			return nil, fmt.Errorf("page %d: %w", i, err)
		}
		if page.Textures, page.HasAlpha, err = readTextures(c); err != nil {
			return nil, fmt.Errorf("page %q: %w", page.Name, err)
		}
		if page.Image, err = readImage(c, version); err != nil {
			return nil, fmt.Errorf("page %q: %w", page.Name, err)
		}
		pages = append(pages, page)
	}
	return pages, nil
}

func readTextures(c *cursor.Cursor) ([]Texture, bool, error) {
	count, err := c.ReadCount()
	if err != nil {
		return nil, false, err
	}
	hasAlpha, err := c.ReadInt32()
	if err != nil {
		return nil, false, err
	}
	textures := make([]Texture, 0, min(count, c.Remaining()/36))
	for range count {
		var t Texture
		if t.Name, err = c.ReadLengthPrefixedString(); err != nil {
			return nil, false, err
		}
		for _, v := range []*int32{&t.X, &t.Y, &t.Width, &t.Height, &t.OX, &t.OY, &t.OW, &t.OH} {
			if *v, err = c.ReadInt32(); err != nil {
				return nil, false, err
			}
		}
		textures = append(textures, t)
	}
	return textures, hasAlpha != 0, nil
}

func readImage(c *cursor.Cursor, version int32) ([]byte, error) {
	switch version {
	case Version0:
		return c.ReadUntilMarker(imageEndMarker)
	case Version1:
		return c.ReadLengthPrefixedBytes()
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}
}
