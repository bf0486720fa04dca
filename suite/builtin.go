package suite

import "sort"

var builtins = map[string]func() *Suite{
	"smoke":   smokeSuite,
	"catalog": catalogSuite,
}

// Builtin returns a fresh copy of the named built-in suite.
func Builtin(name string) (*Suite, bool) {
	build, ok := builtins[name]
	if !ok {
		return nil, false
	}
	return build(), true
}

func BuiltinNames() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// smokeSuite walks the full battle flow: seed the kitchen, look meals up
// by name and id, prep two combatants, battle them, and read the
// leaderboard. A deleted meal must never resurface on the leaderboard.
func smokeSuite() *Suite {
	return &Suite{
		Name:        "smoke",
		Description: "End to end battle flow against a running meal service",
		Checks: []Check{
			{
				Name:    "health",
				Request: Request{Method: "GET", Path: "/health"},
				Tests:   []Test{statusIs(200), jsonEq(".status", "healthy")},
			},
			{
				Name:    "db-check",
				Request: Request{Method: "GET", Path: "/db-check"},
				Tests:   []Test{jsonEq(".database_status", "healthy")},
			},
			{
				Name:    "clear-meals",
				Request: Request{Method: "DELETE", Path: "/clear-meals"},
				Tests:   []Test{jsonEq(".status", "success")},
			},
			createMeal("Spaghetti Carbonara", "Italian", 15.5, "MED"),
			createMeal("Pad Thai", "Thai", 12.25, "LOW"),
			createMeal("Beef Wellington", "British", 32.0, "HIGH"),
			createMeal("Tacos al Pastor", "Mexican", 9.75, "LOW"),
			createMeal("Miso Ramen", "Japanese", 11.5, "MED"),
			{
				Name:     "get-meal-by-name spaghetti",
				Request:  Request{Method: "GET", Path: "/get-meal-from-database-by-name/Spaghetti Carbonara"},
				Tests:    []Test{jsonEq(".status", "success"), bodyHas("Spaghetti Carbonara")},
				Captures: []Capture{{Name: "spaghetti_id", Path: "meal.id"}},
				EchoJSON: true,
			},
			{
				Name:    "delete-meal spaghetti",
				Request: Request{Method: "DELETE", Path: "/delete-meal/${spaghetti_id}"},
				Tests:   []Test{jsonEq(".status", "success")},
			},
			{
				Name:     "get-meal-by-name pad thai",
				Request:  Request{Method: "GET", Path: "/get-meal-from-database-by-name/Pad Thai"},
				Tests:    []Test{jsonEq(".status", "success")},
				Captures: []Capture{{Name: "pad_thai_id", Path: "meal.id"}},
			},
			{
				Name:     "get-meal-by-id pad thai",
				Request:  Request{Method: "GET", Path: "/get-meal-from-database-by-id/${pad_thai_id}"},
				Tests:    []Test{jsonEq(".status", "success"), jsonEq(".meal.meal", "Pad Thai")},
				EchoJSON: true,
			},
			{
				Name:    "clear-combatants",
				Request: Request{Method: "DELETE", Path: "/clear-combatants"},
				Tests:   []Test{jsonEq(".status", "success")},
			},
			{
				Name: "prep-combatant pad thai",
				Request: Request{
					Method:   "POST",
					Path:     "/prep-combatant",
					BodyJSON: map[string]any{"meal": "Pad Thai"},
				},
				Tests: []Test{jsonEq(".status", "success")},
			},
			{
				Name: "prep-combatant ramen",
				Request: Request{
					Method:   "POST",
					Path:     "/prep-combatant",
					BodyJSON: map[string]any{"meal": "Miso Ramen"},
				},
				Tests: []Test{jsonEq(".status", "success")},
			},
			{
				Name:     "get-combatants",
				Request:  Request{Method: "GET", Path: "/get-combatants"},
				Tests:    []Test{jsonEq(".status", "success"), jsonGt(".combatants | length", 1)},
				EchoJSON: true,
			},
			{
				Name:    "start-battle",
				Request: Request{Method: "POST", Path: "/start-battle"},
				Tests:   []Test{jsonEq(".status", "success"), bodyHas("winner")},
			},
			{
				Name: "leaderboard",
				Request: Request{
					Method: "GET",
					Path:   "/get-all-meals-from-leaderboard",
					Query:  map[string]string{"sort": "wins"},
				},
				Tests: []Test{
					jsonEq(".status", "success"),
					jsonGt(".leaderboard | length", 0),
					bodyLacks("Spaghetti Carbonara"),
				},
				EchoJSON: true,
			},
		},
	}
}

// catalogSuite is the shorter variant built around the clear-catalog
// reset endpoint. It preps one combatant by name and one by id.
func catalogSuite() *Suite {
	return &Suite{
		Name:        "catalog",
		Description: "Catalog reset and combatant prep against a running meal service",
		Checks: []Check{
			{
				Name:    "health",
				Request: Request{Method: "GET", Path: "/health"},
				Tests:   []Test{statusIs(200), jsonEq(".status", "healthy")},
			},
			{
				Name:    "db-check",
				Request: Request{Method: "GET", Path: "/db-check"},
				Tests:   []Test{jsonEq(".database_status", "healthy")},
			},
			{
				Name:    "clear-catalog",
				Request: Request{Method: "DELETE", Path: "/clear-catalog"},
				Tests:   []Test{jsonEq(".status", "success")},
			},
			createMeal("Chicken Tikka Masala", "Indian", 13.0, "MED"),
			createMeal("Sushi Platter", "Japanese", 28.5, "HIGH"),
			createMeal("Falafel Wrap", "Middle Eastern", 8.25, "LOW"),
			{
				Name:     "get-meal-by-name falafel",
				Request:  Request{Method: "GET", Path: "/get-meal-from-database-by-name/Falafel Wrap"},
				Tests:    []Test{jsonEq(".status", "success"), bodyHas("Falafel Wrap")},
				Captures: []Capture{{Name: "falafel_id", Path: "meal.id"}},
				EchoJSON: true,
			},
			{
				Name:     "get-meal-by-name tikka",
				Request:  Request{Method: "GET", Path: "/get-meal-from-database-by-name/Chicken Tikka Masala"},
				Tests:    []Test{jsonEq(".status", "success")},
				Captures: []Capture{{Name: "tikka_id", Path: "meal.id"}},
			},
			{
				Name:     "get-meal-by-id falafel",
				Request:  Request{Method: "GET", Path: "/get-meal-from-database-by-id/${falafel_id}"},
				Tests:    []Test{jsonEq(".status", "success"), jsonEq(".meal.cuisine", "Middle Eastern")},
				EchoJSON: true,
			},
			{
				Name:    "clear-combatants",
				Request: Request{Method: "DELETE", Path: "/clear-combatants"},
				Tests:   []Test{jsonEq(".status", "success")},
			},
			{
				Name: "prep-combatant falafel",
				Request: Request{
					Method:   "POST",
					Path:     "/prep-combatant",
					BodyJSON: map[string]any{"meal": "Falafel Wrap"},
				},
				Tests: []Test{jsonEq(".status", "success")},
			},
			{
				Name:    "prep-combatant tikka by id",
				Request: Request{Method: "POST", Path: "/prep-combatant/${tikka_id}"},
				Tests:   []Test{jsonEq(".status", "success")},
			},
			{
				Name:     "get-combatants",
				Request:  Request{Method: "GET", Path: "/get-combatants"},
				Tests:    []Test{jsonEq(".status", "success"), jsonGt(".combatants | length", 1)},
				EchoJSON: true,
			},
			{
				Name:    "start-battle",
				Request: Request{Method: "POST", Path: "/start-battle"},
				Tests:   []Test{jsonEq(".status", "success"), bodyHas("winner")},
			},
			{
				Name:     "leaderboard",
				Request:  Request{Method: "GET", Path: "/get-all-meals-from-leaderboard"},
				Tests:    []Test{jsonEq(".status", "success"), jsonGt(".leaderboard | length", 0)},
				EchoJSON: true,
			},
		},
	}
}

func createMeal(name string, cuisine string, price float64, difficulty string) Check {
	return Check{
		Name: "create-meal " + name,
		Request: Request{
			Method: "POST",
			Path:   "/create-meal",
			BodyJSON: map[string]any{
				"meal":       name,
				"cuisine":    cuisine,
				"price":      price,
				"difficulty": difficulty,
			},
		},
		Tests: []Test{jsonEq(".status", "success")},
	}
}

func statusIs(code int) Test {
	return Test{StatusCode: &code}
}

func bodyHas(s string) Test {
	return Test{BodyContains: &s}
}

func bodyLacks(s string) Test {
	return Test{BodyContainsNone: &s}
}

func jsonEq(path string, want string) Test {
	return Test{JSONValue: &JSONValueTest{Path: path, Operator: OpEquals, StringValue: &want}}
}

func jsonGt(path string, want int) Test {
	return Test{JSONValue: &JSONValueTest{Path: path, Operator: OpGreaterThan, IntValue: &want}}
}
