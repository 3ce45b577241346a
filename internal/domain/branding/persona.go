package branding

// Persona is a fixed category of end customer used to select branding
// guidelines for the AI assistant.
type Persona struct {
	Name        string
	Description string
	MustHave    []string
	NiceToHave  []string
}

const (
	PersonaCulturalFoodTraveler = "Cultural Food Traveler"
	PersonaFoodDrivenTraveler   = "Food-Driven Traveler"
	PersonaLeisureTraveler      = "Leisure Traveler"
)

// Dimensions of the branding assessment, in questionnaire order.
var Dimensions = []string{
	"Ingredients",
	"Visual Appearance",
	"Cultural & Local Experiences",
	"Servicescape",
}

var personas = map[string]Persona{
	PersonaCulturalFoodTraveler: {
		Name:        PersonaCulturalFoodTraveler,
		Description: "Seeks deep cultural immersion through food and authenticity.",
		MustHave: []string{
			"Use authentic Thai ingredients sourced from Thailand",
			"Traditional dish presentation e.g. banana leaves",
			"Menu design using Thai language and Thai-style fonts",
			"Staff interaction offering dish recommendations and sharing Thai culinary culture",
			"Showcase Thai chefs preparing Thai dishes",
		},
		NiceToHave: []string{
			"Thai traditional music or calming ambient soundscapes",
			"Cultural activities like Thai dessert wrapping",
		},
	},
	PersonaFoodDrivenTraveler: {
		Name:        PersonaFoodDrivenTraveler,
		Description: "Prioritizes exceptional culinary experiences and quality.",
		MustHave: []string{
			"Use traditional Thai ingredients such as fish sauce, shrimp paste and galangal",
			"Storytelling on the menu about the origin and cultural background of dishes",
			"Staff interaction offering dish recommendations and sharing Thai culinary culture",
			"Thai-style exterior with carved wood, bamboo, or traditional signage",
		},
		NiceToHave: []string{
			"Cultural storytelling via placemats or QR codes",
			"Open kitchen or chef's counter to showcase cooking techniques",
		},
	},
	PersonaLeisureTraveler: {
		Name:        PersonaLeisureTraveler,
		Description: "Enjoys relaxed, comfortable environments with familiar food.",
		MustHave: []string{
			"Use fresh Thai herbs and vegetables",
			"Menu design using Thai language and Thai-style fonts",
			"Staff interaction offering dish recommendations and sharing Thai culinary culture",
			"Welcome guests with a traditional Thai greeting",
		},
		NiceToHave: []string{
			"Showcase Thai chefs preparing Thai dishes",
			"Demonstrate traditional Thai methods like mortar and pestle or clay pot",
		},
	},
}

// PersonaByName looks up one of the fixed personas.
func PersonaByName(name string) (Persona, bool) {
	p, ok := personas[name]
	return p, ok
}

// PersonaNames returns the configured persona labels.
func PersonaNames() []string {
	return []string{
		PersonaCulturalFoodTraveler,
		PersonaFoodDrivenTraveler,
		PersonaLeisureTraveler,
	}
}
