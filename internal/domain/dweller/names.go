package dweller

import "math/rand/v2"

var maleFirstNames = []string{
	"James", "Henry", "Marcus", "Elias", "Victor", "Nate", "Owen", "Silas",
	"Ezra", "Cole", "Dominic", "Harlan", "Joaquin", "Boris", "Theo",
}

var femaleFirstNames = []string{
	"Lucy", "Nora", "Marlene", "Ada", "Vera", "June", "Piper", "Cait",
	"Rosa", "Maya", "Irma", "Sable", "Willow", "Edith", "Greta",
}

var lastNames = []string{
	"Abernathy", "Whitfield", "Marsh", "Calloway", "Drummond", "Ferris",
	"Greaves", "Holloway", "Ives", "Kessler", "Langley", "Mercer",
	"Nakamura", "Oakes", "Pembroke", "Quill", "Rourke", "Sutton",
}

// RandomName generates a wastelander-flavored full name for the gender.
func RandomName(g Gender) string {
	first := maleFirstNames
	if g == GenderFemale {
		first = femaleFirstNames
	}
	return first[rand.IntN(len(first))] + " " + lastNames[rand.IntN(len(lastNames))]
}

// RandomGender picks male or female with even odds.
func RandomGender() Gender {
	if rand.IntN(2) == 0 {
		return GenderMale
	}
	return GenderFemale
}
