package spatial

// TileType classifies terrain for movement speed modifiers. Terrain
// generation and tile storage are an external collaborator (spec §1);
// this core only needs to ask "is this tile water" to apply the
// movement speed modifier in §4.5.1.
type TileType int

const (
	TileGround TileType = iota
	TileWater
)

// TileLookup is the minimal interface the movement layer needs from
// the external terrain/tile store.
type TileLookup interface {
	TileAt(x, y float64) TileType
}

// ConstantTileLookup is a trivial TileLookup useful for tests and for
// worlds with no water tiles configured.
type ConstantTileLookup struct {
	Type TileType
}

func (c ConstantTileLookup) TileAt(x, y float64) TileType {
	return c.Type
}
