//go:build integration

package testutil

import "circulation/pkg/model"

type AssetBuilder struct {
	asset model.Asset
}

func NewBookBuilder() *AssetBuilder {
	return &AssetBuilder{
		asset: model.Asset{
			Title:    "Emma",
			Kind:     model.AssetKindBook,
			Year:     1815,
			Cost:     12.5,
			Location: model.Branch{ID: "main", Name: "Main Branch"},
			Book: &model.BookDetails{
				Author:     "Jane Austen",
				ISBN:       "9780141439587",
				DeweyIndex: "823.7",
			},
		},
	}
}

func NewVideoBuilder() *AssetBuilder {
	return &AssetBuilder{
		asset: model.Asset{
			Title:    "Metropolis",
			Kind:     model.AssetKindVideo,
			Year:     1927,
			Location: model.Branch{ID: "east", Name: "East Branch"},
			Video:    &model.VideoDetails{Director: "Fritz Lang"},
		},
	}
}

func (b *AssetBuilder) WithTitle(title string) *AssetBuilder {
	b.asset.Title = title
	return b
}

func (b *AssetBuilder) WithLocation(id, name string) *AssetBuilder {
	b.asset.Location = model.Branch{ID: id, Name: name}
	return b
}

func (b *AssetBuilder) WithoutCreator() *AssetBuilder {
	if b.asset.Video != nil {
		b.asset.Video.Director = ""
	}
	return b
}

func (b *AssetBuilder) Build() model.Asset {
	return b.asset
}

func ValidBook() model.Asset {
	return NewBookBuilder().Build()
}

func ValidVideo() model.Asset {
	return NewVideoBuilder().Build()
}

// BookWithVideoDetails carries both variants and must be rejected.
func BookWithVideoDetails() model.Asset {
	a := NewBookBuilder().Build()
	a.Video = &model.VideoDetails{Director: "Someone"}
	return a
}

func CardRequest(cardID string) model.CardRequest {
	return model.CardRequest{CardID: cardID}
}
