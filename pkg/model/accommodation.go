package model

// Accommodation is a bookable unit from the read-only catalog.
//
// Price is kept in its raw stored form: legacy catalog documents carry it as
// a number, a formatted string ("R 1,250.00") or a wrapped {value: ...}
// object. sanitizer.NormalizePrice is the only way to read it.
type Accommodation struct {
	ID          string          `json:"id,omitempty" bson:"_id,omitempty"`
	Name        string          `json:"name" bson:"name"`
	Description string          `json:"description" bson:"description"`
	Category    string          `json:"category" bson:"category"`
	Price       any             `json:"price" bson:"price"`
	MaxGuests   int             `json:"max_guests" bson:"max_guests"`
	Amenities   map[string]bool `json:"amenities" bson:"amenities"`
}

// AccommodationImage is one entry of the sibling image listing keyed by
// accommodation id.
type AccommodationImage struct {
	ID              string `json:"id,omitempty" bson:"_id,omitempty"`
	AccommodationID string `json:"accommodation_id" bson:"accommodation_id"`
	URL             string `json:"url" bson:"url"`
	Position        int    `json:"position" bson:"position"`
}

// AccommodationFilter mirrors the catalog search the front-end performs:
// price range, minimum guest capacity, required amenities, free-text term.
type AccommodationFilter struct {
	PriceMin   *float64 `json:"price_min,omitempty"`
	PriceMax   *float64 `json:"price_max,omitempty"`
	MinGuests  *int     `json:"min_guests,omitempty"`
	Amenities  []string `json:"amenities,omitempty"`
	SearchTerm string   `json:"search_term,omitempty"`
	SortBy     string   `json:"sort_by,omitempty"`
	SortDesc   bool     `json:"sort_desc,omitempty"`
}
