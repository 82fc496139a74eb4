// internal/judge/judge0.go
package judge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/codeduel-gg/server/internal/models"
)

// languageIDs maps submission languages to Judge0 language ids.
var languageIDs = map[string]int{
	"python":     71,
	"python3":    71,
	"javascript": 63,
	"go":         60,
}

const defaultLanguageID = 71 // Python 3

// Client talks to a Judge0-compatible API: one submission per test case,
// then polling for each verdict.
type Client struct {
	log        *logrus.Logger
	httpClient *http.Client
	apiKey     string
	apiHost    string
	baseURL    string

	pollInterval time.Duration
	maxPolls     int
}

// NewClientFromEnv builds a Client from JUDGE0_API_KEY, JUDGE0_API_HOST and
// JUDGE0_BASE_URL. Returns nil when no API key is configured, which makes
// the Service fall back to the heuristic scorer.
func NewClientFromEnv(log *logrus.Logger) *Client {
	key := os.Getenv("JUDGE0_API_KEY")
	if key == "" {
		return nil
	}
	host := getEnv("JUDGE0_API_HOST", "judge0-ce.p.rapidapi.com")
	base := getEnv("JUDGE0_BASE_URL", "https://judge0-ce.p.rapidapi.com")
	return NewClient(log, key, host, base)
}

// NewClient builds a Client against the given endpoint.
func NewClient(log *logrus.Logger, apiKey, apiHost, baseURL string) *Client {
	return &Client{
		log:          log,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		apiKey:       apiKey,
		apiHost:      apiHost,
		baseURL:      baseURL,
		pollInterval: time.Second,
		maxPolls:     10,
	}
}

type submissionRequest struct {
	LanguageID     int    `json:"language_id"`
	SourceCode     string `json:"source_code"`
	Stdin          string `json:"stdin"`
	ExpectedOutput string `json:"expected_output"`
}

type submissionCreated struct {
	Token string `json:"token"`
}

type submissionResult struct {
	Status struct {
		ID          int    `json:"id"`
		Description string `json:"description"`
	} `json:"status"`
	Stderr        string `json:"stderr"`
	CompileOutput string `json:"compile_output"`
}

// Judge0 status ids: 1 in queue, 2 processing, 3 accepted; everything else
// is a failure with a description.
const (
	statusInQueue    = 1
	statusProcessing = 2
	statusAccepted   = 3
)

// Evaluate submits the code once per test case and polls each submission to
// completion. Per-case failures become error entries in the verdict; a
// transport failure aborts the remaining cases with an API error entry. The
// verdict is always usable, never a crash.
func (c *Client) Evaluate(ctx context.Context, code, language string, cases []models.TestCase) (models.Verdict, error) {
	langID, ok := languageIDs[language]
	if !ok {
		langID = defaultLanguageID
	}

	verdict := models.Verdict{Total: len(cases)}
	for i, tc := range cases {
		passed, caseErr, fatal := c.runCase(ctx, langID, code, tc, i+1)
		if fatal != nil {
			c.log.Warnf("judge0: aborting remaining cases: %v", fatal)
			verdict.Errors = append(verdict.Errors, fmt.Sprintf("API Error: %v", fatal))
			break
		}
		if passed {
			verdict.Passed++
		} else if caseErr != "" {
			verdict.Errors = append(verdict.Errors, caseErr)
		}
	}

	verdict.Completed = verdict.Passed == verdict.Total && verdict.Total > 0
	verdict.RuntimeMS = syntheticRuntime()
	return verdict, nil
}

// runCase submits one test case and polls for its verdict. The returned
// fatal error means the API itself is unreachable and remaining cases should
// be skipped.
func (c *Client) runCase(ctx context.Context, langID int, code string, tc models.TestCase, n int) (passed bool, caseErr string, fatal error) {
	body, err := json.Marshal(submissionRequest{
		LanguageID:     langID,
		SourceCode:     code,
		Stdin:          tc.Input,
		ExpectedOutput: tc.ExpectedOutput,
	})
	if err != nil {
		return false, "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/submissions", bytes.NewReader(body))
	if err != nil {
		return false, "", err
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, "", err
	}
	created := submissionCreated{}
	decodeErr := json.NewDecoder(resp.Body).Decode(&created)
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated || decodeErr != nil || created.Token == "" {
		return false, fmt.Sprintf("Test %d: Submission failed", n), nil
	}

	for poll := 0; poll < c.maxPolls; poll++ {
		select {
		case <-ctx.Done():
			return false, "", ctx.Err()
		case <-time.After(c.pollInterval):
		}

		result, ok := c.fetchResult(ctx, created.Token)
		if !ok {
			continue
		}
		switch result.Status.ID {
		case statusInQueue, statusProcessing:
			continue
		case statusAccepted:
			return true, "", nil
		default:
			return false, caseFailure(n, result), nil
		}
	}
	return false, fmt.Sprintf("Test %d: Timeout waiting for result", n), nil
}

func (c *Client) fetchResult(ctx context.Context, token string) (submissionResult, bool) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/submissions/"+token, nil)
	if err != nil {
		return submissionResult{}, false
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return submissionResult{}, false
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return submissionResult{}, false
	}

	var result submissionResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return submissionResult{}, false
	}
	return result, true
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("X-RapidAPI-Key", c.apiKey)
	req.Header.Set("X-RapidAPI-Host", c.apiHost)
	req.Header.Set("Content-Type", "application/json")
}

func caseFailure(n int, result submissionResult) string {
	desc := result.Status.Description
	if desc == "" {
		desc = "Unknown error"
	}
	switch {
	case result.Stderr != "":
		return fmt.Sprintf("Test %d: %s - %s", n, desc, result.Stderr)
	case result.CompileOutput != "":
		return fmt.Sprintf("Test %d: %s", n, result.CompileOutput)
	default:
		return fmt.Sprintf("Test %d: %s", n, desc)
	}
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}
