package texpack

// Location addresses a texture inside a set of packs.
type Location struct {
	Pack    int
	Page    int
	Texture int
}

// Index provides name lookups over several decoded packs. When names repeat,
// the first pack added wins.
type Index struct {
	packs    []*Pack
	pages    map[string]Location
	textures map[string]Location
}

func NewIndex(packs ...*Pack) *Index {
	idx := &Index{
		pages:    make(map[string]Location),
		textures: make(map[string]Location),
	}
	for _, pack := range packs {
		idx.Add(pack)
	}
	return idx
}

func (idx *Index) Add(pack *Pack) {
	packIdx := len(idx.packs)
	idx.packs = append(idx.packs, pack)
	for pageIdx, page := range pack.Pages {
		if _, exists := idx.pages[page.Name]; !exists {
			idx.pages[page.Name] = Location{Pack: packIdx, Page: pageIdx, Texture: -1}
		}
		for textureIdx, texture := range page.Textures {
			if _, exists := idx.textures[texture.Name]; !exists {
				idx.textures[texture.Name] = Location{Pack: packIdx, Page: pageIdx, Texture: textureIdx}
			}
		}
	}
}

func (idx *Index) PagesCount() int    { return len(idx.pages) }
func (idx *Index) TexturesCount() int { return len(idx.textures) }

func (idx *Index) Page(name string) (*Page, bool) {
	loc, ok := idx.pages[name]
	if !ok {
		return nil, false
	}
	return &idx.packs[loc.Pack].Pages[loc.Page], true
}

func (idx *Index) Texture(name string) (*Texture, bool) {
	loc, ok := idx.textures[name]
	if !ok {
		return nil, false
	}
	return &idx.packs[loc.Pack].Pages[loc.Page].Textures[loc.Texture], true
}

// PageOf returns the page holding the named texture.
func (idx *Index) PageOf(textureName string) (*Page, bool) {
	loc, ok := idx.textures[textureName]
	if !ok {
		return nil, false
	}
	return &idx.packs[loc.Pack].Pages[loc.Page], true
}

// Locate returns where the named texture is stored.
func (idx *Index) Locate(textureName string) (Location, bool) {
	loc, ok := idx.textures[textureName]
	return loc, ok
}
