package googlebooks

// VolumesResponse matches the Google Books volume list shape, returned by
// both search and bookshelf-volume listings.
type VolumesResponse struct {
	Kind       string   `json:"kind"`
	TotalItems int      `json:"totalItems"`
	Items      []Volume `json:"items"`
}

// Volume is a single Google Books item. VolumeInfo is a pointer so a
// structurally missing block can be told apart from an empty one.
type Volume struct {
	ID         string      `json:"id"`
	VolumeInfo *VolumeInfo `json:"volumeInfo"`
	SaleInfo   *SaleInfo   `json:"saleInfo"`
}

// VolumeInfo carries the book metadata of a volume.
type VolumeInfo struct {
	Title               string           `json:"title"`
	Authors             []string         `json:"authors"`
	PublishedDate       string           `json:"publishedDate"`
	Description         string           `json:"description"`
	PageCount           int              `json:"pageCount"`
	Categories          []string         `json:"categories"`
	Language            string           `json:"language"`
	ImageLinks          ImageLinks       `json:"imageLinks"`
	IndustryIdentifiers []WireIdentifier `json:"industryIdentifiers"`
}

// ImageLinks holds the thumbnail URLs of a volume.
type ImageLinks struct {
	Thumbnail      string `json:"thumbnail"`
	SmallThumbnail string `json:"smallThumbnail"`
}

// WireIdentifier is an industry identifier as sent by the provider.
type WireIdentifier struct {
	Type       string `json:"type"`
	Identifier string `json:"identifier"`
}

// SaleInfo carries the sale metadata of a volume.
type SaleInfo struct {
	Saleability string `json:"saleability"`
	IsEbook     bool   `json:"isEbook"`
}

// BookshelfList is the response of the user bookshelf listing endpoint.
type BookshelfList struct {
	Kind  string      `json:"kind"`
	Items []Bookshelf `json:"items"`
}

// Bookshelf is one shelf of a user's library.
type Bookshelf struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	VolumeCount int    `json:"volumeCount"`
}
