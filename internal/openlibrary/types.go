package openlibrary

import "encoding/json"

// SearchResponse matches the /search.json response shape.
type SearchResponse struct {
	Docs     []Doc `json:"docs"`
	NumFound int   `json:"numFound"`
	Start    int   `json:"start"`
}

// Doc is one search result document.
type Doc struct {
	Key              string   `json:"key"`
	Title            string   `json:"title"`
	AuthorName       []string `json:"author_name"`
	FirstPublishYear int      `json:"first_publish_year"`
	CoverID          int      `json:"cover_i"`
	ISBN             []string `json:"isbn"`
	Publisher        []string `json:"publisher"`
	Language         []string `json:"language"`
}

// Work matches the /works/{id}.json response shape.
type Work struct {
	Key              string       `json:"key"`
	Title            string       `json:"title"`
	Description      *Description `json:"description"`
	Authors          []WorkAuthor `json:"authors"`
	FirstPublishDate string       `json:"first_publish_date"`
	Covers           []int        `json:"covers"`
	Subjects         []string     `json:"subjects"`
}

// WorkAuthor is an author reference on a work. Only the key is carried;
// the display name has to be derived from it.
type WorkAuthor struct {
	Author AuthorRef `json:"author"`
}

// AuthorRef holds an author key like "/authors/OL23919A".
type AuthorRef struct {
	Key string `json:"key"`
}

// Description is a union field: Open Library sends either a bare string
// or an object carrying {type, value}.
type Description struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// UnmarshalJSON accepts both encodings of the description field.
func (d *Description) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		d.Value = s
		return nil
	}

	type plain Description
	var obj plain
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*d = Description(obj)
	return nil
}

// Text resolves the description per the display rules: prefer the value,
// fall back to naming the type tag, otherwise a fixed placeholder.
func (d *Description) Text() string {
	switch {
	case d != nil && d.Value != "":
		return d.Value
	case d != nil && d.Type != "":
		return "Description type: " + d.Type
	default:
		return "No description available"
	}
}
