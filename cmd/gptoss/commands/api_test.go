package commands

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/docker/docker/api/types/image"
	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/project-laplace/gpt-oss-standalone/pkg/ollama"
)

func newOllamaServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/version":
			fmt.Fprint(w, `{"version":"0.12.3"}`)
		case "/api/tags":
			fmt.Fprint(w, `{"models":[{"name":"gpt-oss:20b","modified_at":"2025-08-06T10:00:00Z","size":13780173839,"digest":"aa4295ac10c3a1b2","details":{"parameter_size":"20.9B","quantization_level":"MXFP4"}}]}`)
		case "/api/generate":
			var req ollama.GenerateRequest
			_ = json.NewDecoder(r.Body).Decode(&req)
			fmt.Fprintf(w, "{\"model\":%q,\"response\":\"4\",\"done\":false}\n", req.Model)
			fmt.Fprintf(w, "{\"model\":%q,\"response\":\"\",\"done\":true}\n", req.Model)
		case "/api/pull":
			fmt.Fprintln(w, `{"status":"pulling manifest"}`)
			fmt.Fprintln(w, `{"status":"success"}`)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestListCommand(t *testing.T) {
	isolateEnv(t)
	pointAPIAt(t, newOllamaServer(t))

	res := executeCmd(t, &fakeDocker{}, "", "list")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "gpt-oss:20b")
	assert.Contains(t, res.stdout, "aa4295ac10c3")
	assert.Contains(t, res.stdout, "MXFP4")
}

func TestModelRow(t *testing.T) {
	now := time.Date(2025, 8, 8, 10, 0, 0, 0, time.UTC)
	row := modelRow(ollama.ModelResponse{
		Name:       "gpt-oss:20b",
		Digest:     "aa4295ac10c3a1b2",
		Size:       13_780_173_839,
		ModifiedAt: now.Add(-48 * time.Hour),
		Details:    ollama.ModelDetails{ParameterSize: "20.9B", QuantizationLevel: "MXFP4"},
	}, now)
	assert.Equal(t, []string{"gpt-oss:20b", "aa4295ac10c3", "13.78GB", "20.9B", "MXFP4", "2 days ago"}, row)
}

func TestGenerateCommand(t *testing.T) {
	isolateEnv(t)
	pointAPIAt(t, newOllamaServer(t))

	res := executeCmd(t, &fakeDocker{}, "", "generate", "What", "is", "2+2?")
	require.NoError(t, res.err)
	assert.Equal(t, "4\n", res.stdout)
}

func TestGenerateCommandFilesAndOptions(t *testing.T) {
	isolateEnv(t)
	var got ollama.GenerateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		fmt.Fprintln(w, `{"response":"Paris","done":false}`)
		fmt.Fprintln(w, `{"response":"","done":true}`)
	}))
	t.Cleanup(srv.Close)
	pointAPIAt(t, srv)

	dir := t.TempDir()
	notes := filepath.Join(dir, "notes.md")
	question := filepath.Join(dir, "prompt.txt")
	require.NoError(t, os.WriteFile(notes, []byte("The capital of France is Paris."), 0o600))
	require.NoError(t, os.WriteFile(question, []byte("  What is the capital of France?\n"), 0o600))

	res := executeCmd(t, &fakeDocker{}, "", "generate",
		"--file", notes,
		"--file", filepath.Join(dir, "missing.txt"),
		"--prompt-file", question,
		"--option", "temperature=0.7",
		"--option", "num_ctx=8192",
		"--keep-alive", "0s",
	)
	require.NoError(t, res.err)
	assert.Equal(t, "Paris\n", res.stdout)

	assert.Equal(t, ollama.DefaultModel, got.Model)
	assert.True(t, got.Stream)
	assert.Equal(t, "0s", got.KeepAlive)
	assert.Contains(t, got.Prompt, "File 1: notes.md\n")
	assert.Contains(t, got.Prompt, "The capital of France is Paris.")
	assert.NotContains(t, got.Prompt, "missing.txt")
	assert.Contains(t, got.Prompt, "[Question]\nWhat is the capital of France?\n")
	assert.Equal(t, map[string]interface{}{
		"temperature":    0.7,
		"top_p":          0.9,
		"repeat_penalty": 1.1,
		"num_ctx":        float64(8192),
	}, got.Options)
}

func TestGenerateCommandDefaultOptions(t *testing.T) {
	isolateEnv(t)
	var got ollama.GenerateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		fmt.Fprintln(w, `{"response":"4","done":true}`)
	}))
	t.Cleanup(srv.Close)
	pointAPIAt(t, srv)

	res := executeCmd(t, &fakeDocker{}, "", "generate", "--model", "gpt-oss:120b", "What", "is", "2+2?")
	require.NoError(t, res.err)

	assert.Equal(t, "gpt-oss:120b", got.Model)
	assert.Equal(t, "What is 2+2?", got.Prompt)
	assert.Empty(t, got.KeepAlive)
	assert.Equal(t, map[string]interface{}{"temperature": 0.3, "top_p": 0.9, "repeat_penalty": 1.1}, got.Options)
}

func TestGenerateCommandInvalidInput(t *testing.T) {
	dir := t.TempDir()
	empty := filepath.Join(dir, "empty.txt")
	require.NoError(t, os.WriteFile(empty, []byte(" \n"), 0o600))

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "no prompt", args: []string{"generate"}, wantErr: "requires a PROMPT or --prompt-file"},
		{name: "prompt and file", args: []string{"generate", "--prompt-file", empty, "hi"}, wantErr: "cannot be combined"},
		{name: "empty prompt file", args: []string{"generate", "--prompt-file", empty}, wantErr: "is empty"},
		{name: "missing prompt file", args: []string{"generate", "--prompt-file", filepath.Join(dir, "nope.txt")}, wantErr: "reading prompt file"},
		{name: "bad option", args: []string{"generate", "--option", "temperature", "hi"}, wantErr: "expected key=value"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolateEnv(t)
			res := executeCmd(t, &fakeDocker{}, "", tt.args...)
			require.Error(t, res.err)
			assert.Contains(t, res.err.Error(), tt.wantErr)
		})
	}
}

func TestOllamaHostWithPort(t *testing.T) {
	isolateEnv(t)
	srv := newOllamaServer(t)
	u, err := url.Parse(srv.URL)
	require.NoError(t, err)
	t.Setenv("OLLAMA_HOST", u.Host)

	res := executeCmd(t, &fakeDocker{}, "", "list")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "gpt-oss:20b")

	t.Setenv("OLLAMA_HOST", srv.URL)
	res = executeCmd(t, &fakeDocker{}, "", "list")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "gpt-oss:20b")
}

func TestGenerateCommandUnreachable(t *testing.T) {
	isolateEnv(t)
	t.Setenv("OLLAMA_PORT", strconv.Itoa(freePort(t)))

	res := executeCmd(t, &fakeDocker{}, "", "generate", "hello")
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "gptoss start")
}

func TestPullCommand(t *testing.T) {
	isolateEnv(t)
	pointAPIAt(t, newOllamaServer(t))

	res := executeCmd(t, &fakeDocker{}, "", "pull", "ollama.com/library/gpt-oss:20b")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Model library/gpt-oss:20b pulled successfully")
}

func TestStatusJSON(t *testing.T) {
	isolateEnv(t)
	srv := newOllamaServer(t)
	pointAPIAt(t, srv)

	res := executeCmd(t, &fakeDocker{running: true}, "", "status", "--json")
	require.NoError(t, res.err)

	var report statusReport
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &report))
	assert.Equal(t, statusReport{
		Container: "ollama",
		State:     "running",
		API:       srv.URL,
		Reachable: true,
		Version:   "0.12.3",
		Models:    1,
	}, report)
}

func TestStatusTextUnreachable(t *testing.T) {
	isolateEnv(t)
	t.Setenv("OLLAMA_PORT", strconv.Itoa(freePort(t)))
	noColor := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = noColor })

	res := executeCmd(t, &fakeDocker{}, "", "status")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Container ollama: exited")
	assert.Contains(t, res.stdout, "unreachable")
}

func TestStartAlreadyRunning(t *testing.T) {
	isolateEnv(t)
	fake := &fakeDocker{running: true}

	res := executeCmd(t, fake, "", "start")
	require.NoError(t, res.err)
	assert.Empty(t, fake.started)
	assert.Contains(t, res.stdout, "already running")
}

func TestStartWaitsForAPI(t *testing.T) {
	isolateEnv(t)
	pointAPIAt(t, newOllamaServer(t))
	fake := &fakeDocker{}

	res := executeCmd(t, fake, "", "start", "--timeout", "5s")
	require.NoError(t, res.err)
	assert.Equal(t, []string{"ollama"}, fake.started)
	assert.Contains(t, res.stdout, "Ollama 0.12.3 is ready")
}

func TestStopCommand(t *testing.T) {
	isolateEnv(t)
	fake := &fakeDocker{}

	res := executeCmd(t, fake, "", "--container", "gpt-oss", "stop", "-t", "0")
	require.NoError(t, res.err)
	assert.Equal(t, []string{"gpt-oss"}, fake.stopped)
}

func TestSetupCreatesContainer(t *testing.T) {
	isolateEnv(t)
	port := freePort(t)
	fake := &fakeDocker{images: []image.Summary{{ID: "sha256:1"}}}

	res := executeCmd(t, fake, "", "setup", "--gpu", "none", "--no-start", "--port", strconv.Itoa(port))
	require.NoError(t, res.err)

	assert.Equal(t, "ollama", fake.createName)
	assert.Equal(t, "ollama/ollama:latest", fake.createCfg.Image)
	assert.Equal(t, []string{"ollama"}, fake.createdVol)
	assert.Empty(t, fake.createHost.DeviceRequests)
	assert.Empty(t, fake.started)
	assert.Contains(t, res.stdout, "start it with `gptoss start`")
}

func freePort(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())
	return port
}
