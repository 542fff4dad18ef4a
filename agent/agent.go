package agent

import (
	"context"

	"github.com/m4xw311/prompter/errors"
	"github.com/m4xw311/prompter/llm"
	"github.com/m4xw311/prompter/session"
)

// ProcessCallbacks lets an interaction mode decide how agent events are shown.
type ProcessCallbacks struct {
	OnAssistantMessage func(message string)
	OnWarning          func(warning string)
}

type Agent struct {
	Session   *session.Session
	LLMClient llm.LLMClient
}

// New creates an agent. A non-empty systemPrompt is added to a session that
// has no messages yet.
func New(sess *session.Session, client llm.LLMClient, systemPrompt string) (*Agent, error) {
	if sess == nil {
		return nil, errors.New("agent requires a session")
	}
	if client == nil {
		return nil, errors.New("agent requires an LLM client")
	}
	if systemPrompt != "" && len(sess.Messages) == 0 {
		sess.AddMessage(session.Message{Role: "system", Content: systemPrompt})
	}
	return &Agent{
		Session:   sess,
		LLMClient: client,
	}, nil
}

// ProcessUserInput sends one user message to the LLM and reports the reply.
// If the LLM fails, the message is removed again so the transcript never
// holds two user turns in a row.
func (a *Agent) ProcessUserInput(ctx context.Context, userInput string, callbacks ProcessCallbacks) error {
	n := len(a.Session.Messages)
	a.Session.AddMessage(session.Message{Role: "user", Content: userInput})

	reply, err := a.LLMClient.Chat(ctx, a.Session.Conversation())
	if err != nil {
		a.Session.Messages = a.Session.Messages[:n]
		return errors.Wrapf(err, "LLM chat failed")
	}

	a.Session.AddMessage(*reply)
	if callbacks.OnAssistantMessage != nil {
		callbacks.OnAssistantMessage(reply.Content)
	}

	a.save(callbacks)
	return nil
}

// RecordCommand adds a command line to the transcript without sending it to
// the LLM.
func (a *Agent) RecordCommand(line string, callbacks ProcessCallbacks) {
	a.Session.AddMessage(session.Message{Role: "command", Content: line})
	a.save(callbacks)
}

func (a *Agent) save(callbacks ProcessCallbacks) {
	if err := a.Session.Save(); err != nil && callbacks.OnWarning != nil {
		callbacks.OnWarning("failed to save session: " + err.Error())
	}
}
