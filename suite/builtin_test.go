package suite

import (
	"regexp"
	"strings"
	"testing"
)

func TestBuiltinNames(t *testing.T) {
	names := BuiltinNames()
	if len(names) != 2 || names[0] != "catalog" || names[1] != "smoke" {
		t.Errorf("Expected [catalog smoke], got %v", names)
	}
}

func TestBuiltin_Unknown(t *testing.T) {
	if _, ok := Builtin("brunch"); ok {
		t.Error("Expected no suite for an unknown name")
	}
}

func TestBuiltins_Validate(t *testing.T) {
	for _, name := range BuiltinNames() {
		s, ok := Builtin(name)
		if !ok {
			t.Fatalf("Expected built-in suite %s to exist", name)
		}
		if err := s.Validate(); err != nil {
			t.Errorf("Expected suite %s to validate, got %v", name, err)
		}
	}
}

// Every endpoint of the meal service shows up across the two built-in
// suites, so a passing run really is a full smoke of the deployment.
func TestBuiltins_CoverServiceEndpoints(t *testing.T) {
	endpoints := []string{
		"GET /health",
		"GET /db-check",
		"DELETE /clear-meals",
		"DELETE /clear-catalog",
		"POST /create-meal",
		"DELETE /delete-meal/",
		"GET /get-all-meals-from-leaderboard",
		"GET /get-meal-from-database-by-id/",
		"GET /get-meal-from-database-by-name/",
		"DELETE /clear-combatants",
		"POST /prep-combatant",
		"GET /get-combatants",
		"POST /start-battle",
	}

	var seen []string
	for _, name := range BuiltinNames() {
		s, _ := Builtin(name)
		for _, check := range s.Checks {
			seen = append(seen, check.Request.Method+" "+check.Request.Path)
		}
	}

	for _, endpoint := range endpoints {
		found := false
		for _, line := range seen {
			if strings.HasPrefix(line, endpoint) {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Expected some built-in check to hit %s", endpoint)
		}
	}
}

// A ${var} placeholder is only useful if an earlier check captured it.
func TestBuiltins_PlaceholdersCapturedFirst(t *testing.T) {
	placeholder := regexp.MustCompile(`\$\{([^}]+)\}`)
	for _, name := range BuiltinNames() {
		s, _ := Builtin(name)
		captured := map[string]bool{}
		for i, check := range s.Checks {
			for _, m := range placeholder.FindAllStringSubmatch(check.Request.Path, -1) {
				if !captured[m[1]] {
					t.Errorf("suite %s check %d (%s): ${%s} used before any capture", name, i+1, check.Name, m[1])
				}
			}
			for _, capture := range check.Captures {
				captured[capture.Name] = true
			}
		}
	}
}

func TestSmoke_ReadChecksEchoJSON(t *testing.T) {
	s, _ := Builtin("smoke")
	echoed := 0
	for _, check := range s.Checks {
		if check.EchoJSON {
			echoed++
			if check.Request.Method != "GET" {
				t.Errorf("Expected only read-style checks to echo, got %s on %s", check.Request.Method, check.Name)
			}
		}
	}
	if echoed == 0 {
		t.Error("Expected at least one read-style check to echo its body")
	}
}

func TestSmoke_DeletedMealStaysOffLeaderboard(t *testing.T) {
	s, _ := Builtin("smoke")
	last := s.Checks[len(s.Checks)-1]
	if last.Name != "leaderboard" {
		t.Fatalf("Expected the final check to read the leaderboard, got %s", last.Name)
	}
	found := false
	for _, test := range last.Tests {
		if test.BodyContainsNone != nil && *test.BodyContainsNone == "Spaghetti Carbonara" {
			found = true
		}
	}
	if !found {
		t.Error("Expected the leaderboard check to forbid the deleted meal")
	}
}
