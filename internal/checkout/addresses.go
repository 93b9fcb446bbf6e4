package checkout

import (
	"strings"

	"github.com/samber/lo"
)

// SavedAddress is a preset delivery address offered while typing.
type SavedAddress struct {
	Label   string `json:"label"`
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip"`
}

const (
	addressMinQuery    = 2
	addressSuggestions = 4
)

var savedAddresses = []SavedAddress{
	{Label: "Bandra Kurla Complex, Mumbai", Address: "Unit 301, Maker Maxity", City: "Mumbai", State: "Maharashtra", Zip: "400051"},
	{Label: "Koramangala, Bengaluru", Address: "55 7th Block, Koramangala", City: "Bengaluru", State: "Karnataka", Zip: "560095"},
	{Label: "Cyber City, Gurugram", Address: "Tower C, DLF Cyber City", City: "Gurugram", State: "Haryana", Zip: "122002"},
	{Label: "Hitech City, Hyderabad", Address: "Plot 92, Madhapur", City: "Hyderabad", State: "Telangana", Zip: "500081"},
}

// SuggestAddresses matches query against address, city and state. Queries
// shorter than two characters return nothing.
func SuggestAddresses(query string) []SavedAddress {
	q := strings.ToLower(strings.TrimSpace(query))
	if len([]rune(q)) < addressMinQuery {
		return []SavedAddress{}
	}
	matches := lo.Filter(savedAddresses, func(a SavedAddress, _ int) bool {
		return strings.Contains(strings.ToLower(a.Address+" "+a.City+" "+a.State), q)
	})
	return lo.Slice(matches, 0, addressSuggestions)
}
