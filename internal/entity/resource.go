package entity

// Resource is a catalogue row: a character, planet or vehicle.
type Resource struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Kind        Kind    `json:"-"`
}
