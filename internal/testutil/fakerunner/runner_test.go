package fakerunner

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFakeRunner(t *testing.T) {
	t.Run("new runner starts empty", func(t *testing.T) {
		runner := New()
		assert.Empty(t, runner.GetCalls())
	})

	t.Run("set and get output", func(t *testing.T) {
		runner := New()
		expectedOutput := []byte("test output")

		runner.SetOutput("systemctl", []string{"cat", "sshd.service"}, expectedOutput)
		output, err := runner.Output(context.Background(), "systemctl", "cat", "sshd.service")

		assert.NoError(t, err)
		assert.Equal(t, expectedOutput, output)
	})

	t.Run("set and get error", func(t *testing.T) {
		runner := New()
		expectedErr := errors.New("test error")

		runner.SetError("failing-command", []string{}, expectedErr)
		output, err := runner.Output(context.Background(), "failing-command")

		assert.Nil(t, output)
		assert.Equal(t, expectedErr, err)
	})

	t.Run("set result returns output and error", func(t *testing.T) {
		runner := New()
		exitErr := errors.New("exit status 3")

		runner.SetResult("systemctl", []string{"is-active", "a.service"}, []byte("inactive\n"), exitErr)
		output, err := runner.Output(context.Background(), "systemctl", "is-active", "a.service")

		assert.Equal(t, "inactive\n", string(output))
		assert.Equal(t, exitErr, err)
	})

	t.Run("captures calls", func(t *testing.T) {
		runner := New()

		_, _ = runner.Output(context.Background(), "journalctl", "-b", "-r", "-u", "sshd.service")
		_, _ = runner.Output(context.Background(), "systemctl", "--version")

		calls := runner.GetCalls()
		assert.Len(t, calls, 2)
		assert.Equal(t, "journalctl -b -r -u sshd.service", calls[0].String())
		assert.Equal(t, []string{"--version"}, calls[1].Args)
	})

	t.Run("reset clears state", func(t *testing.T) {
		runner := New()
		runner.SetOutput("echo", []string{"x"}, []byte("x"))
		_, _ = runner.Output(context.Background(), "echo", "x")

		runner.Reset()

		assert.Empty(t, runner.GetCalls())
		output, err := runner.Output(context.Background(), "echo", "x")
		assert.NoError(t, err)
		assert.Empty(t, output)
	})

	t.Run("concurrent use", func(t *testing.T) {
		runner := New()
		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, _ = runner.Output(context.Background(), "systemctl", "is-active")
			}()
		}
		wg.Wait()
		assert.Len(t, runner.GetCalls(), 8)
	})
}
