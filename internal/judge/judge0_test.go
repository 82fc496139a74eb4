// internal/judge/judge0_test.go
package judge

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeduel-gg/server/internal/models"
)

// fakeJudge0 simulates the Judge0 API: POST /submissions hands out tokens,
// GET /submissions/{token} replays a scripted status sequence per token.
type fakeJudge0 struct {
	mu       sync.Mutex
	next     int
	statuses [][]submissionResult // script for token i
	polls    map[string]int
}

func newFakeJudge0(statuses ...[]submissionResult) *fakeJudge0 {
	return &fakeJudge0{statuses: statuses, polls: map[string]int{}}
}

func (f *fakeJudge0) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()

		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/submissions":
			assert.NotEmpty(t, r.Header.Get("X-RapidAPI-Key"))
			var req submissionRequest
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.NotZero(t, req.LanguageID)

			token := fmt.Sprintf("tok-%d", f.next)
			f.next++
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(submissionCreated{Token: token})

		case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/submissions/"):
			token := strings.TrimPrefix(r.URL.Path, "/submissions/")
			var idx int
			fmt.Sscanf(token, "tok-%d", &idx)
			if !assert.Less(t, idx, len(f.statuses)) {
				w.WriteHeader(http.StatusNotFound)
				return
			}

			script := f.statuses[idx]
			poll := f.polls[token]
			if poll >= len(script) {
				poll = len(script) - 1
			}
			f.polls[token]++
			json.NewEncoder(w).Encode(script[poll])

		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}
}

func status(id int, desc string) submissionResult {
	var r submissionResult
	r.Status.ID = id
	r.Status.Description = desc
	return r
}

func testClient(t *testing.T, baseURL string) *Client {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	c := NewClient(logger, "test-key", "test-host", baseURL)
	c.pollInterval = time.Millisecond
	c.maxPolls = 5
	return c
}

func twoCases() []models.TestCase {
	return []models.TestCase{
		{Input: "[2,7,11,15], 9", ExpectedOutput: "[0, 1]"},
		{Input: "[3,2,4], 6", ExpectedOutput: "[1, 2]"},
	}
}

func TestJudge0AllAccepted(t *testing.T) {
	fake := newFakeJudge0(
		[]submissionResult{status(statusInQueue, "In Queue"), status(statusAccepted, "Accepted")},
		[]submissionResult{status(statusAccepted, "Accepted")},
	)
	srv := httptest.NewServer(fake.handler(t))
	defer srv.Close()

	c := testClient(t, srv.URL)
	v, err := c.Evaluate(context.Background(), "code", "python", twoCases())
	require.NoError(t, err)
	assert.Equal(t, 2, v.Passed)
	assert.Equal(t, 2, v.Total)
	assert.True(t, v.Completed)
	assert.Empty(t, v.Errors)
	assert.False(t, v.Simulated)
	assert.GreaterOrEqual(t, v.RuntimeMS, 50)
}

func TestJudge0WrongAnswer(t *testing.T) {
	wrong := status(4, "Wrong Answer")
	fake := newFakeJudge0(
		[]submissionResult{status(statusAccepted, "Accepted")},
		[]submissionResult{wrong},
	)
	srv := httptest.NewServer(fake.handler(t))
	defer srv.Close()

	c := testClient(t, srv.URL)
	v, err := c.Evaluate(context.Background(), "code", "python", twoCases())
	require.NoError(t, err)
	assert.Equal(t, 1, v.Passed)
	assert.False(t, v.Completed)
	require.Len(t, v.Errors, 1)
	assert.Equal(t, "Test 2: Wrong Answer", v.Errors[0])
}

func TestJudge0RuntimeErrorDetail(t *testing.T) {
	boom := status(11, "Runtime Error (NZEC)")
	boom.Stderr = "IndexError: list index out of range"
	fake := newFakeJudge0([]submissionResult{boom})
	srv := httptest.NewServer(fake.handler(t))
	defer srv.Close()

	c := testClient(t, srv.URL)
	v, err := c.Evaluate(context.Background(), "code", "python", twoCases()[:1])
	require.NoError(t, err)
	assert.Equal(t, 0, v.Passed)
	require.Len(t, v.Errors, 1)
	assert.Equal(t, "Test 1: Runtime Error (NZEC) - IndexError: list index out of range", v.Errors[0])
}

func TestJudge0CompileOutputDetail(t *testing.T) {
	bad := status(6, "Compilation Error")
	bad.CompileOutput = "SyntaxError: invalid syntax"
	fake := newFakeJudge0([]submissionResult{bad})
	srv := httptest.NewServer(fake.handler(t))
	defer srv.Close()

	c := testClient(t, srv.URL)
	v, err := c.Evaluate(context.Background(), "code", "python", twoCases()[:1])
	require.NoError(t, err)
	require.Len(t, v.Errors, 1)
	assert.Equal(t, "Test 1: SyntaxError: invalid syntax", v.Errors[0])
}

func TestJudge0PollTimeout(t *testing.T) {
	fake := newFakeJudge0([]submissionResult{status(statusProcessing, "Processing")})
	srv := httptest.NewServer(fake.handler(t))
	defer srv.Close()

	c := testClient(t, srv.URL)
	v, err := c.Evaluate(context.Background(), "code", "python", twoCases()[:1])
	require.NoError(t, err)
	assert.Equal(t, 0, v.Passed)
	require.Len(t, v.Errors, 1)
	assert.Equal(t, "Test 1: Timeout waiting for result", v.Errors[0])
}

func TestJudge0TransportFailureAborts(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close() // connection refused from here on

	c := testClient(t, srv.URL)
	v, err := c.Evaluate(context.Background(), "code", "python", twoCases())
	require.NoError(t, err, "transport failures degrade to a usable verdict")
	assert.Equal(t, 0, v.Passed)
	assert.False(t, v.Completed)
	require.Len(t, v.Errors, 1, "remaining cases are skipped after the first fatal")
	assert.Contains(t, v.Errors[0], "API Error:")
}

func TestJudge0UnknownLanguageDefaultsToPython(t *testing.T) {
	var gotLang int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			var req submissionRequest
			json.NewDecoder(r.Body).Decode(&req)
			gotLang = req.LanguageID
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(submissionCreated{Token: "tok-0"})
			return
		}
		json.NewEncoder(w).Encode(status(statusAccepted, "Accepted"))
	}))
	defer srv.Close()

	c := testClient(t, srv.URL)
	_, err := c.Evaluate(context.Background(), "code", "brainfuck", twoCases()[:1])
	require.NoError(t, err)
	assert.Equal(t, defaultLanguageID, gotLang)
}
