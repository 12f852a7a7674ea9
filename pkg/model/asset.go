package model

import "time"

type AssetKind string

const (
	AssetKindBook  AssetKind = "Book"
	AssetKindVideo AssetKind = "Video"
)

// UnknownAuthorOrDirector is reported for assets that carry no creator.
const UnknownAuthorOrDirector = "Unknown"

type Branch struct {
	ID   string `json:"id" bson:"id" validate:"required,max=64"`
	Name string `json:"name" bson:"name" validate:"required,min=2,max=100"`
}

type BookDetails struct {
	Author     string `json:"author" bson:"author" validate:"required,min=1,max=200"`
	ISBN       string `json:"isbn" bson:"isbn" validate:"required,isbn"`
	DeweyIndex string `json:"dewey_index" bson:"dewey_index" validate:"required,max=20,dewey"`
}

type VideoDetails struct {
	Director string `json:"director" bson:"director" validate:"omitempty,max=200"`
}

// Asset is a circulating item. Exactly one of Book and Video is set,
// matching Kind.
type Asset struct {
	ID        string        `json:"id,omitempty" bson:"_id,omitempty"`
	Title     string        `json:"title" bson:"title" validate:"required,min=1,max=300"`
	Kind      AssetKind     `json:"kind" bson:"kind" validate:"required,oneof=Book Video"`
	Status    string        `json:"status" bson:"status"`
	Year      int           `json:"year,omitempty" bson:"year" validate:"omitempty,min=0,max=9999"`
	Cost      float64       `json:"cost,omitempty" bson:"cost" validate:"omitempty,min=0"`
	ImageURL  string        `json:"image_url,omitempty" bson:"image_url,omitempty" validate:"omitempty,url"`
	Location  Branch        `json:"location" bson:"location"`
	Book      *BookDetails  `json:"book,omitempty" bson:"book,omitempty"`
	Video     *VideoDetails `json:"video,omitempty" bson:"video,omitempty"`
	Revision  int64         `json:"-" bson:"revision"`
	CreatedAt time.Time     `json:"created_at" bson:"created_at"`
}

func (a *Asset) AuthorOrDirector() string {
	switch a.Kind {
	case AssetKindBook:
		if a.Book != nil && a.Book.Author != "" {
			return a.Book.Author
		}
	case AssetKindVideo:
		if a.Video != nil && a.Video.Director != "" {
			return a.Video.Director
		}
	}
	return UnknownAuthorOrDirector
}

// DeweyIndex is empty for anything but books.
func (a *Asset) DeweyIndex() string {
	if a.Kind == AssetKindBook && a.Book != nil {
		return a.Book.DeweyIndex
	}
	return ""
}

func (a *Asset) ISBN() string {
	if a.Kind == AssetKindBook && a.Book != nil {
		return a.Book.ISBN
	}
	return ""
}
