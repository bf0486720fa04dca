package checks

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mealmax/mealsmoke/internal/mealtest"
	"github.com/mealmax/mealsmoke/messages"
	"github.com/mealmax/mealsmoke/suite"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRunner(t *testing.T, target string) *Runner {
	t.Helper()
	return NewRunner(target+"/api", 5*time.Second, "v1.0.1")
}

func drainMessages(ch chan tea.Msg, done chan []tea.Msg) {
	var msgs []tea.Msg
	for msg := range ch {
		msgs = append(msgs, msg)
	}
	done <- msgs
}

func TestRunSuite_SmokePasses(t *testing.T) {
	service := mealtest.New()
	srv := httptest.NewServer(service)
	defer srv.Close()

	s, ok := suite.Builtin("smoke")
	require.True(t, ok)

	runner := newTestRunner(t, srv.URL)
	results, failure := runner.RunSuite(s, nil)

	require.Nil(t, failure)
	require.Len(t, results, len(s.Checks))
	for _, result := range results {
		assert.Empty(t, result.Err, "check %s", result.Check.Name)
	}

	// Captured ids feed later paths: Spaghetti was created first,
	// Pad Thai second.
	byName := map[string]suite.CheckResult{}
	for _, result := range results {
		byName[result.Check.Name] = result
	}
	assert.True(t, strings.HasSuffix(byName["delete-meal spaghetti"].FinalURL, "/delete-meal/1"))
	assert.True(t, strings.HasSuffix(byName["get-meal-by-id pad thai"].FinalURL, "/get-meal-from-database-by-id/2"))

	// Every request of the run carries one shared run id.
	assert.Len(t, service.RunIDs(), 1)
	assert.Len(t, service.Requests(), len(s.Checks))
}

func TestRunSuite_CatalogPasses(t *testing.T) {
	srv := httptest.NewServer(mealtest.New())
	defer srv.Close()

	s, ok := suite.Builtin("catalog")
	require.True(t, ok)

	results, failure := newTestRunner(t, srv.URL).RunSuite(s, nil)
	require.Nil(t, failure)
	assert.Len(t, results, len(s.Checks))
}

func TestRunSuite_FailsFastOnBrokenDB(t *testing.T) {
	service := mealtest.New()
	service.DBDown = true
	srv := httptest.NewServer(service)
	defer srv.Close()

	s, _ := suite.Builtin("smoke")
	results, failure := newTestRunner(t, srv.URL).RunSuite(s, nil)

	require.NotNil(t, failure)
	assert.Equal(t, 1, failure.CheckIndex)
	assert.Equal(t, "db-check", failure.CheckName)
	assert.Contains(t, failure.Reason, "no value found at .database_status")

	// Nothing past the failing check ran.
	assert.Len(t, results, 2)
	requests := service.Requests()
	require.Len(t, requests, 2)
	assert.Equal(t, "GET /api/db-check", requests[1])
}

func TestRunSuite_UnreachableTarget(t *testing.T) {
	service := mealtest.New()
	srv := httptest.NewServer(service)
	target := srv.URL
	srv.Close()

	s, _ := suite.Builtin("smoke")
	results, failure := newTestRunner(t, target).RunSuite(s, nil)

	require.NotNil(t, failure)
	assert.Equal(t, 0, failure.CheckIndex)
	assert.Equal(t, "health", failure.CheckName)
	assert.True(t, strings.HasPrefix(failure.Reason, "Failed to fetch"), failure.Reason)
	assert.Len(t, results, 1)
	assert.Empty(t, service.Requests())
}

func TestRunSuite_TimeoutFailsCheck(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
	}))
	defer srv.Close()

	s := &suite.Suite{
		Name: "slow",
		Checks: []suite.Check{{
			Name:    "health",
			Request: suite.Request{Method: "GET", Path: "/health"},
			Tests:   []suite.Test{{StatusCode: intPtr(200)}},
		}},
	}

	runner := NewRunner(srv.URL+"/api", 10*time.Millisecond, "v1.0.1")
	_, failure := runner.RunSuite(s, nil)

	require.NotNil(t, failure)
	assert.True(t, strings.HasPrefix(failure.Reason, "Failed to fetch"), failure.Reason)
}

func TestRunSuite_MissingCaptureFailsCheck(t *testing.T) {
	srv := httptest.NewServer(mealtest.New())
	defer srv.Close()

	s := &suite.Suite{
		Name: "captures",
		Checks: []suite.Check{{
			Name:     "health",
			Request:  suite.Request{Method: "GET", Path: "/health"},
			Tests:    []suite.Test{{StatusCode: intPtr(200)}},
			Captures: []suite.Capture{{Name: "meal_id", Path: "meal.id"}},
		}},
	}

	_, failure := newTestRunner(t, srv.URL).RunSuite(s, nil)
	require.NotNil(t, failure)
	assert.Contains(t, failure.Reason, "no value found at meal.id for capture meal_id")
}

func TestRunSuite_MessageStream(t *testing.T) {
	srv := httptest.NewServer(mealtest.New())
	defer srv.Close()

	s := &suite.Suite{
		Name: "stream",
		Checks: []suite.Check{{
			Name:    "health",
			Request: suite.Request{Method: "GET", Path: "/health"},
			Tests: []suite.Test{
				{StatusCode: intPtr(200)},
				{BodyContains: strPtr("nope")},
				{BodyContains: strPtr("healthy")},
			},
		}},
	}

	ch := make(chan tea.Msg)
	done := make(chan []tea.Msg)
	go drainMessages(ch, done)

	_, failure := newTestRunner(t, srv.URL).RunSuite(s, ch)
	close(ch)
	msgs := <-done

	require.NotNil(t, failure)

	start, ok := msgs[0].(messages.StartCheckMsg)
	require.True(t, ok, "expected the stream to open with a StartCheckMsg")
	assert.Equal(t, "health", start.Name)
	assert.Equal(t, "GET", start.Method)
	assert.True(t, strings.HasSuffix(start.URL, "/api/health"))

	doneMsg, ok := msgs[len(msgs)-1].(messages.DoneMsg)
	require.True(t, ok, "expected the stream to close with a DoneMsg")
	require.NotNil(t, doneMsg.Failure)
	assert.Equal(t, "health", doneMsg.Failure.CheckName)

	// Tests before the miss pass, the miss fails, the rest stay
	// unresolved.
	var resolved []messages.ResolveTestMsg
	for _, msg := range msgs {
		if m, ok := msg.(messages.ResolveTestMsg); ok {
			resolved = append(resolved, m)
		}
	}
	require.Len(t, resolved, 3)
	require.NotNil(t, resolved[0].Passed)
	assert.True(t, *resolved[0].Passed)
	require.NotNil(t, resolved[1].Passed)
	assert.False(t, *resolved[1].Passed)
	assert.Nil(t, resolved[2].Passed)
}

func TestResolveBaseURL(t *testing.T) {
	t.Cleanup(func() {
		viper.Set("override_base_url", "")
		viper.Set("base_url", "")
	})

	s := &suite.Suite{Name: "demo", BaseURL: "http://suite:1234/api"}
	viper.Set("base_url", "http://default:5001/api")
	viper.Set("override_base_url", "")

	assert.Equal(t, "http://flag:1/api", ResolveBaseURL("http://flag:1/api", s))
	assert.Equal(t, "http://suite:1234/api", ResolveBaseURL("", s))

	viper.Set("override_base_url", "http://override:2/api")
	assert.Equal(t, "http://override:2/api", ResolveBaseURL("", s))

	viper.Set("override_base_url", "")
	s.BaseURL = ""
	assert.Equal(t, "http://default:5001/api", ResolveBaseURL("", s))
	assert.Equal(t, "http://default:5001/api", ResolveBaseURL("", nil))
}
