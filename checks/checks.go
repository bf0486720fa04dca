package checks

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/mealmax/mealsmoke/internal/runid"
	"github.com/mealmax/mealsmoke/suite"
	"github.com/tidwall/gjson"
)

// Runner executes the checks of a suite in order against one target
// service. Every request it sends carries the same X-Smoke-Run id so
// runs can be told apart in the target's logs.
type Runner struct {
	Client    *http.Client
	BaseURL   string
	RunID     string
	UserAgent string
}

func NewRunner(baseURL string, timeout time.Duration, version string) *Runner {
	return &Runner{
		Client:    &http.Client{Timeout: timeout},
		BaseURL:   strings.TrimSuffix(baseURL, "/"),
		RunID:     runid.New(),
		UserAgent: "mealsmoke/" + version,
	}
}

// checkURL builds the full request URL for a check. Path segments are
// interpolated before encoding, so captured values and meal names with
// spaces end up percent-encoded on the wire.
func (r *Runner) checkURL(req suite.Request, variables map[string]string) string {
	u, err := url.Parse(r.BaseURL)
	if err != nil {
		return r.BaseURL + req.Path
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + InterpolateVariables(req.Path, variables)
	if len(req.Query) > 0 {
		q := u.Query()
		for k, v := range req.Query {
			q.Set(k, InterpolateVariables(v, variables))
		}
		u.RawQuery = q.Encode()
	}
	return u.String()
}

func (r *Runner) buildRequest(request suite.Request, variables map[string]string) (*http.Request, error) {
	completeURL := r.checkURL(request, variables)

	var req *http.Request
	if request.BodyJSON != nil {
		dat, err := json.Marshal(request.BodyJSON)
		if err != nil {
			return nil, err
		}
		interpolatedBodyJSONStr := InterpolateVariables(string(dat), variables)
		req, err = http.NewRequest(request.Method, completeURL,
			bytes.NewBuffer([]byte(interpolatedBodyJSONStr)),
		)
		if err != nil {
			return nil, err
		}
		req.Header.Add("Content-Type", "application/json")
	} else {
		var err error
		req, err = http.NewRequest(request.Method, completeURL, nil)
		if err != nil {
			return nil, err
		}
	}

	for k, v := range request.Headers {
		req.Header.Add(k, InterpolateVariables(v, variables))
	}
	req.Header.Set("User-Agent", r.UserAgent)
	req.Header.Set(runid.Header, r.RunID)
	return req, nil
}

func (r *Runner) runCheck(check suite.Check, variables map[string]string) (result suite.CheckResult) {
	result = suite.CheckResult{Check: check, Variables: variables}
	result.FinalURL = r.checkURL(check.Request, variables)

	req, err := r.buildRequest(check.Request, variables)
	if err != nil {
		result.Err = fmt.Sprintf("Failed to create request: %s", err.Error())
		return result
	}

	resp, err := r.Client.Do(req)
	if err != nil {
		result.Err = fmt.Sprintf("Failed to fetch: %s", err.Error())
		return result
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		result.Err = "Failed to read response body"
		return result
	}

	result.StatusCode = resp.StatusCode
	result.BodyString = truncateAndStringifyBody(body)
	return result
}

// truncateAndStringifyBody
// the meal service only ever returns small JSON documents, so anything
// past 100,000 characters is noise and gets cut before display
func truncateAndStringifyBody(body []byte) string {
	bodyString := string(body)
	const maxBodyLength = 100000
	if len(bodyString) > maxBodyLength {
		bodyString = bodyString[:maxBodyLength]
	}
	return bodyString
}

func parseVariables(body string, captures []suite.Capture, variables map[string]string) error {
	for _, capture := range captures {
		val := gjson.Get(body, capture.Path)
		if !val.Exists() {
			return fmt.Errorf("no value found at %s for capture %s", capture.Path, capture.Name)
		}
		variables[capture.Name] = val.String()
	}
	return nil
}

func InterpolateVariables(template string, vars map[string]string) string {
	r := regexp.MustCompile(`\$\{([^}]+)\}`)
	return r.ReplaceAllStringFunc(template, func(m string) string {
		// Extract the key from the match, which is in the form ${key}
		key := strings.TrimSuffix(strings.TrimPrefix(m, "${"), "}")
		if val, ok := vars[key]; ok {
			return val
		}
		return m // return the original placeholder if no substitution found
	})
}
