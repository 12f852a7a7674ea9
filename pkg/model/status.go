package model

const (
	StatusAvailable  = "Available"
	StatusCheckedOut = "Checked Out"
	StatusOnHold     = "On Hold"
	StatusLost       = "Lost"
)

// Status is a registry entry. Transitions look statuses up by Name and fail
// when the registry does not carry the entry.
type Status struct {
	ID          string `json:"id,omitempty" bson:"_id,omitempty"`
	Name        string `json:"name" bson:"name"`
	Description string `json:"description" bson:"description"`
}

// DefaultStatuses seeds the registry on migration.
var DefaultStatuses = []Status{
	{Name: StatusAvailable, Description: "The item is available for loan"},
	{Name: StatusCheckedOut, Description: "The item is checked out by a patron"},
	{Name: StatusOnHold, Description: "The item is waiting for a patron with a hold"},
	{Name: StatusLost, Description: "The item has been reported lost"},
}

func IsKnownStatus(name string) bool {
	for _, s := range DefaultStatuses {
		if s.Name == name {
			return true
		}
	}
	return false
}
