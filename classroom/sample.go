package classroom

import (
	"catmigrate/schema"
	"catmigrate/storage"
)

// sampleColumns defines the seeded movies table. Everything is TEXT in the
// legacy source, including the numeric columns; the walkthrough's whole
// point is casting these during the copy.
func sampleColumns() []schema.Column {
	return []schema.Column{
		{Name: "idx", Type: schema.TypeText},
		{Name: "title", Type: schema.TypeText},
		{Name: "year", Type: schema.TypeText},
		{Name: "budget", Type: schema.TypeText},
		{Name: "rating", Type: schema.TypeText},
	}
}

// sampleRows returns the seeded movie rows. A few budgets carry the "NA"
// sentinel the transform step maps to zero.
func sampleRows() []storage.Row {
	seed := [][5]string{
		{"1", "The Shawshank Redemption", "1994", "25000000", "9.3"},
		{"2", "The Godfather", "1972", "6000000", "9.2"},
		{"3", "The Dark Knight", "2008", "185000000", "9.0"},
		{"4", "12 Angry Men", "1957", "NA", "9.0"},
		{"5", "Schindler's List", "1993", "22000000", "8.9"},
		{"6", "Pulp Fiction", "1994", "8000000", "8.9"},
		{"7", "Casablanca", "1942", "950000", "8.5"},
		{"8", "Seven Samurai", "1954", "NA", "8.6"},
		{"9", "Parasite", "2019", "11400000", "8.5"},
		{"10", "The Matrix", "1999", "63000000", "8.7"},
		{"11", "City Lights", "1931", "NA", "8.5"},
		{"12", "Spirited Away", "2001", "19000000", "8.6"},
	}

	rows := make([]storage.Row, len(seed))
	for i, s := range seed {
		rows[i] = storage.Row{
			"idx":    s[0],
			"title":  s[1],
			"year":   s[2],
			"budget": s[3],
			"rating": s[4],
		}
	}
	return rows
}
