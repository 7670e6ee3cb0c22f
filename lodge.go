package ledger

// GalleryImage is a single image entry in a lodge gallery.
type GalleryImage struct {
	URL   string `json:"url"`
	Label string `json:"label"`
}

// Lodge is a lodging or sanctuary record in the content registry. ID is
// immutable after creation; everything else is editable. A lodge with
// Active=false is hidden from every public listing but stays visible to
// the administrative listing.
type Lodge struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Location    string         `json:"location"`
	Region      string         `json:"region"`
	ImageURL    string         `json:"image_url"`
	Description string         `json:"description"`
	Gallery     []GalleryImage `json:"gallery"`
	Active      bool           `json:"active"`
	Featured    bool           `json:"featured"`
}

// LodgePatch is a partial lodge update. Nil fields are left unchanged.
type LodgePatch struct {
	Name        *string         `json:"name,omitempty"`
	Location    *string         `json:"location,omitempty"`
	Region      *string         `json:"region,omitempty"`
	ImageURL    *string         `json:"image_url,omitempty"`
	Description *string         `json:"description,omitempty"`
	Gallery     *[]GalleryImage `json:"gallery,omitempty"`
	Active      *bool           `json:"active,omitempty"`
	Featured    *bool           `json:"featured,omitempty"`
}
