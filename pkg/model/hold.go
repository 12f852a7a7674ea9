package model

import (
	"sort"
	"time"
)

type Hold struct {
	ID      string    `json:"id,omitempty" bson:"_id,omitempty"`
	AssetID string    `json:"asset_id" bson:"asset_id"`
	CardID  string    `json:"card_id" bson:"card_id"`
	Placed  time.Time `json:"placed" bson:"placed"`
}

func NewHold(assetID, cardID string, now time.Time) *Hold {
	return &Hold{
		AssetID: assetID,
		CardID:  cardID,
		Placed:  now,
	}
}

// SortHolds orders holds first-come first-served. Holds placed at the same
// instant fall back to id order so the queue is total.
func SortHolds(holds []*Hold) {
	sort.SliceStable(holds, func(i, j int) bool {
		if !holds[i].Placed.Equal(holds[j].Placed) {
			return holds[i].Placed.Before(holds[j].Placed)
		}
		return holds[i].ID < holds[j].ID
	})
}

// EarliestHold returns the hold at the head of the queue, or nil.
func EarliestHold(holds []*Hold) *Hold {
	if len(holds) == 0 {
		return nil
	}
	ordered := make([]*Hold, len(holds))
	copy(ordered, holds)
	SortHolds(ordered)
	return ordered[0]
}
