// Package parser maps Overpass elements to shop records.
package parser

import (
	"strings"

	"github.com/ippon1/Reparaturbonus/models"
)

// ShopFromTags extracts the dataset fields from an element's tag map.
// Missing tags default to empty strings; no record is dropped.
//
// The coordinate columns read the lattude and longitude tag keys. OSM tagging
// does not carry those keys, so both columns usually stay empty. The
// published dataset format expects the columns regardless, so they are kept.
func ShopFromTags(tags map[string]string) *models.Shop {
	return &models.Shop{
		Name:    tags["name"],
		Website: tags["website"],
		Lats:    tags["lattude"],
		Lons:    tags["longitude"],
		Address: ComposeAddress(
			tags["addr:street"],
			tags["addr:housenumber"],
			tags["addr:postcode"],
			tags["addr:city"],
		),
	}
}

// ComposeAddress joins street, house number, postcode, and city into a single
// display address, trimming the separators left behind by absent parts.
func ComposeAddress(street, housenumber, postcode, city string) string {
	address := street + " " + housenumber + ", " + postcode + " " + city
	address = strings.Trim(address, ", ")
	return strings.TrimSpace(address)
}
