package entity

import "strings"

// Kind names one of the catalogue tables users can favorite.
type Kind string

const (
	KindCharacter Kind = "character"
	KindPlanet    Kind = "planet"
	KindVehicle   Kind = "vehicle"
)

// Kinds lists every catalogue kind in a stable order.
var Kinds = []Kind{KindCharacter, KindPlanet, KindVehicle}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	switch k {
	case KindCharacter, KindPlanet, KindVehicle:
		return true
	}
	return false
}

// Table is the catalogue table, e.g. "characters".
func (k Kind) Table() string {
	return string(k) + "s"
}

// FavoriteTable is the join table, e.g. "favorite_characters".
func (k Kind) FavoriteTable() string {
	return "favorite_" + k.Table()
}

// ForeignKey is the join table column pointing at the catalogue row.
func (k Kind) ForeignKey() string {
	return string(k) + "_id"
}

// Label is the singular display name used in response messages.
func (k Kind) Label() string {
	return strings.ToUpper(string(k[:1])) + string(k[1:])
}

// Plural is the plural display name used in response messages.
func (k Kind) Plural() string {
	return k.Label() + "s"
}
