package commands

import (
	"fmt"
	"testing"

	cerrdefs "github.com/containerd/errdefs"
	"github.com/docker/docker/api/types/container"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/project-laplace/gpt-oss-standalone/pkg/invoker"
	"github.com/project-laplace/gpt-oss-standalone/pkg/standalone"
)

func TestInstallStartsContainerThenReportsMissingModel(t *testing.T) {
	isolateEnv(t)
	fake := &fakeDocker{containers: []container.Summary{{Names: []string{"/ollama"}, State: "exited"}}}

	res := executeCmd(t, fake, "\n", "install")

	var statusErr *StatusError
	require.ErrorAs(t, res.err, &statusErr)
	assert.Equal(t, 1, statusErr.Code)
	assert.ErrorIs(t, res.err, invoker.ErrMissingModelIdentifier)
	assert.Equal(t, []string{"ollama"}, fake.started)
	assert.Contains(t, res.stderr, invoker.DefaultPrompt)
}

func TestInstallNoPromptWithoutModel(t *testing.T) {
	isolateEnv(t)
	fake := &fakeDocker{containers: []container.Summary{{Names: []string{"/ollama"}, State: "running"}}}

	res := executeCmd(t, fake, "gpt-oss:20b\n", "install", "--no-prompt")

	var statusErr *StatusError
	require.ErrorAs(t, res.err, &statusErr)
	assert.Equal(t, 1, statusErr.Code)
	assert.Empty(t, fake.started)
	assert.NotContains(t, res.stderr, invoker.DefaultPrompt)
}

func TestInstallMissingContainerIsRuntimeError(t *testing.T) {
	isolateEnv(t)
	fake := &fakeDocker{startErr: fmt.Errorf("No such container: gpt: %w", cerrdefs.ErrNotFound)}

	res := executeCmd(t, fake, "", "--container", "gpt", "run", "gpt-oss:20b")

	var statusErr *StatusError
	require.ErrorAs(t, res.err, &statusErr)
	assert.Equal(t, invoker.ExitRuntimeError, statusErr.Code)
	assert.ErrorIs(t, res.err, standalone.ErrContainerNotFound)
}

func TestInstallContainerFromEnv(t *testing.T) {
	isolateEnv(t)
	t.Setenv("GPTOSS_CONTAINER", "gpt-oss")
	fake := &fakeDocker{}

	res := executeCmd(t, fake, "\n", "invoke")

	require.Error(t, res.err)
	assert.Equal(t, []string{"gpt-oss"}, fake.started)
}

func TestInstallInvalidRunFlags(t *testing.T) {
	isolateEnv(t)
	fake := &fakeDocker{}

	res := executeCmd(t, fake, "", "install", "--run-flags", `--format "json`, "gpt-oss:20b")

	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "invalid --run-flags")
	var statusErr *StatusError
	assert.NotErrorAs(t, res.err, &statusErr)
	assert.Empty(t, fake.started)
}
