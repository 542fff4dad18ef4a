package agent

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/m4xw311/prompter/errors"
	"github.com/m4xw311/prompter/llm"
	"github.com/m4xw311/prompter/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSession(t *testing.T) *session.Session {
	t.Helper()
	old := session.Dir
	session.Dir = filepath.Join(t.TempDir(), "sessions")
	t.Cleanup(func() { session.Dir = old })

	sess, err := session.New("agent-test")
	require.NoError(t, err)
	return sess
}

func TestNewValidates(t *testing.T) {
	_, err := New(nil, &llm.MockLLMClient{}, "")
	assert.Error(t, err)

	_, err = New(newSession(t), nil, "")
	assert.Error(t, err)
}

func TestNewAddsSystemPromptOnce(t *testing.T) {
	sess := newSession(t)
	_, err := New(sess, &llm.MockLLMClient{}, "be brief")
	require.NoError(t, err)
	_, err = New(sess, &llm.MockLLMClient{}, "be brief")
	require.NoError(t, err)

	require.Len(t, sess.Messages, 1)
	assert.Equal(t, session.Message{Role: "system", Content: "be brief"}, sess.Messages[0])
}

func TestProcessUserInput(t *testing.T) {
	sess := newSession(t)
	client := &llm.MockLLMClient{}
	a, err := New(sess, client, "be brief")
	require.NoError(t, err)

	a.RecordCommand(":help", ProcessCallbacks{})

	var replies, warnings []string
	err = a.ProcessUserInput(context.Background(), "hello", ProcessCallbacks{
		OnAssistantMessage: func(m string) { replies = append(replies, m) },
		OnWarning:          func(w string) { warnings = append(warnings, w) },
	})
	require.NoError(t, err)

	require.Len(t, replies, 1)
	assert.Contains(t, replies[0], "hello")
	assert.Empty(t, warnings)

	require.Len(t, client.Calls, 1)
	for _, m := range client.Calls[0] {
		assert.NotEqual(t, "command", m.Role, "commands never reach the LLM")
	}

	roles := make([]string, 0, len(sess.Messages))
	for _, m := range sess.Messages {
		roles = append(roles, m.Role)
	}
	assert.Equal(t, []string{"system", "command", "user", "assistant"}, roles)

	loaded, err := session.Load("agent-test")
	require.NoError(t, err)
	assert.Len(t, loaded.Messages, 4)
}

func TestProcessUserInputLLMError(t *testing.T) {
	client := &llm.MockLLMClient{Err: errors.Sentinel("offline")}
	a, err := New(newSession(t), client, "")
	require.NoError(t, err)

	err = a.ProcessUserInput(context.Background(), "hello", ProcessCallbacks{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LLM chat failed")
	assert.True(t, errors.Is(err, client.Err))
	assert.Empty(t, a.Session.Messages, "failed turn is not kept")
}

func TestProcessUserInputRetryAfterError(t *testing.T) {
	client := &llm.MockLLMClient{Err: errors.Sentinel("offline")}
	a, err := New(newSession(t), client, "be brief")
	require.NoError(t, err)
	ctx := context.Background()

	require.Error(t, a.ProcessUserInput(ctx, "first", ProcessCallbacks{}))
	client.Err = nil
	require.NoError(t, a.ProcessUserInput(ctx, "second", ProcessCallbacks{}))

	roles := make([]string, 0, len(a.Session.Messages))
	for _, m := range a.Session.Messages {
		roles = append(roles, m.Role)
	}
	assert.Equal(t, []string{"system", "user", "assistant"}, roles)
	assert.Equal(t, "second", a.Session.Messages[1].Content)

	last := client.Calls[len(client.Calls)-1]
	require.Len(t, last, 2)
	assert.Equal(t, "second", last[1].Content)
}

func TestSaveFailureIsAWarning(t *testing.T) {
	sess := newSession(t)
	// A directory in place of the session file makes every save fail.
	require.NoError(t, os.Mkdir(sess.Path(), 0755))
	a, err := New(sess, &llm.MockLLMClient{}, "")
	require.NoError(t, err)

	var replies, warnings []string
	err = a.ProcessUserInput(context.Background(), "hello", ProcessCallbacks{
		OnAssistantMessage: func(m string) { replies = append(replies, m) },
		OnWarning:          func(w string) { warnings = append(warnings, w) },
	})
	require.NoError(t, err)
	assert.Len(t, replies, 1)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "failed to save session")
}
