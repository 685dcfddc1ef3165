package entity

import "encoding/json"

// Favorite links a user to one catalogue row of the given kind.
type Favorite struct {
	ID       int
	UserID   int
	TargetID int
	Kind     Kind
}

// MarshalJSON names the target column after the kind, e.g. "planet_id".
func (f Favorite) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]int{
		"id":                f.ID,
		"user_id":           f.UserID,
		f.Kind.ForeignKey(): f.TargetID,
	})
}

// FavoriteSet groups a user's favorites by kind.
type FavoriteSet struct {
	Characters []*Favorite `json:"characters"`
	Planets    []*Favorite `json:"planets"`
	Vehicles   []*Favorite `json:"vehicles"`
}

// NewFavoriteSet returns a set with empty, non-nil slices.
func NewFavoriteSet() *FavoriteSet {
	return &FavoriteSet{
		Characters: []*Favorite{},
		Planets:    []*Favorite{},
		Vehicles:   []*Favorite{},
	}
}

// Add appends favorites to the slice for kind.
func (s *FavoriteSet) Add(kind Kind, favorites ...*Favorite) {
	switch kind {
	case KindCharacter:
		s.Characters = append(s.Characters, favorites...)
	case KindPlanet:
		s.Planets = append(s.Planets, favorites...)
	case KindVehicle:
		s.Vehicles = append(s.Vehicles, favorites...)
	}
}

// Empty reports whether the set holds no favorites at all.
func (s *FavoriteSet) Empty() bool {
	return len(s.Characters) == 0 && len(s.Planets) == 0 && len(s.Vehicles) == 0
}
