package parser

import "testing"

func TestShopFromTags(t *testing.T) {
	tags := map[string]string{
		"name":             "Radhaus Wien",
		"website":          "https://radhaus.example",
		"addr:street":      "Lerchenfelder Gürtel",
		"addr:housenumber": "43",
		"addr:postcode":    "1160",
		"addr:city":        "Wien",
		"shop":             "bicycle",
	}

	shop := ShopFromTags(tags)
	if shop.Name != "Radhaus Wien" {
		t.Errorf("name = %q, want %q", shop.Name, "Radhaus Wien")
	}
	if shop.Website != "https://radhaus.example" {
		t.Errorf("website = %q, want %q", shop.Website, "https://radhaus.example")
	}
	if want := "Lerchenfelder Gürtel 43, 1160 Wien"; shop.Address != want {
		t.Errorf("address = %q, want %q", shop.Address, want)
	}
	if shop.Lats != "" || shop.Lons != "" {
		t.Errorf("coordinates = %q/%q, want empty", shop.Lats, shop.Lons)
	}
}

func TestShopFromTagsEmpty(t *testing.T) {
	shop := ShopFromTags(map[string]string{})
	if shop.Name != "" || shop.Website != "" || shop.Address != "" {
		t.Errorf("empty tags produced %+v, want zero fields", shop)
	}
}

func TestShopFromTagsCoordinateKeys(t *testing.T) {
	tags := map[string]string{
		"lattude":   "48.2082",
		"longitude": "16.3738",
		"lat":       "ignored",
		"lon":       "ignored",
	}

	shop := ShopFromTags(tags)
	if shop.Lats != "48.2082" {
		t.Errorf("lats = %q, want 48.2082", shop.Lats)
	}
	if shop.Lons != "16.3738" {
		t.Errorf("lons = %q, want 16.3738", shop.Lons)
	}
}

func TestComposeAddress(t *testing.T) {
	tests := []struct {
		name        string
		street      string
		housenumber string
		postcode    string
		city        string
		want        string
	}{
		{
			name:        "full address",
			street:      "Favoritenstraße",
			housenumber: "12",
			postcode:    "1040",
			city:        "Wien",
			want:        "Favoritenstraße 12, 1040 Wien",
		},
		{
			name:   "street only",
			street: "Hauptstraße",
			want:   "Hauptstraße",
		},
		{
			name: "city only",
			city: "Wien",
			want: "Wien",
		},
		{
			name:     "postcode only",
			postcode: "1010",
			want:     "1010",
		},
		{
			name:        "no postcode or city",
			street:      "Mariahilfer Straße",
			housenumber: "77",
			want:        "Mariahilfer Straße 77",
		},
		{
			name: "all empty",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComposeAddress(tt.street, tt.housenumber, tt.postcode, tt.city)
			if got != tt.want {
				t.Errorf("ComposeAddress() = %q, want %q", got, tt.want)
			}
		})
	}
}
