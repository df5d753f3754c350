package logging

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-headline-sync/internal/workflow"
)

func TestSetup(t *testing.T) {
	defer logrus.SetLevel(logrus.InfoLevel)
	defer logrus.SetOutput(os.Stderr)

	_, err := Setup("chatty", false, "")
	assert.Error(t, err)

	closer, err := Setup("warn", false, "")
	require.NoError(t, err)
	assert.NoError(t, closer.Close())
	assert.Equal(t, logrus.WarnLevel, logrus.GetLevel())

	closer, err = Setup("warn", true, filepath.Join(t.TempDir(), "run.log"))
	require.NoError(t, err)
	defer closer.Close()
	assert.Equal(t, logrus.DebugLevel, logrus.GetLevel())
}

func TestObserver(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	obs := NewObserver(logger)

	obs.Attempt(workflow.StateTextEntered, "type", 2, 3, errors.New("mismatch"))
	last := hook.LastEntry()
	require.NotNil(t, last)
	assert.Equal(t, logrus.WarnLevel, last.Level)
	assert.Equal(t, "🔁 type attempt 2/3 failed", last.Message)
	assert.Equal(t, "text_entered", last.Data["stage"])
	assert.EqualError(t, last.Data[logrus.ErrorKey].(error), "mismatch")

	obs.Warn(workflow.StateAuthenticating, "slow redirect", nil)
	last = hook.LastEntry()
	assert.Equal(t, "⚠️ slow redirect", last.Message)
	assert.NotContains(t, last.Data, logrus.ErrorKey)

	hook.Reset()
	obs.Transition(workflow.StateSaved, workflow.StateClosed)
	require.Len(t, hook.Entries, 2)
	assert.Equal(t, "saved", hook.Entries[0].Data["from"])
	assert.Equal(t, "🧹 Browser session closed", hook.Entries[1].Message)
}

func TestObserver_ImplementsWorkflowObserver(t *testing.T) {
	var _ workflow.Observer = NewObserver(logrus.New())
}
