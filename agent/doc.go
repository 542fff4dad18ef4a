// Package agent holds the chat logic shared by every way of talking to
// prompter.
//
// An Agent owns a session transcript and an LLM client. Plain-text lines are
// handed to ProcessUserInput, which records the user message, asks the LLM
// for a reply, records that too and saves the session. Command lines never
// reach the LLM; RecordCommand only adds them to the transcript.
//
// # Usage
//
//	a, err := agent.New(sess, client, cfg.SystemPrompt)
//	if err != nil {
//	    // handle error
//	}
//
//	callbacks := agent.ProcessCallbacks{
//	    OnAssistantMessage: func(message string) {
//	        // show the reply
//	    },
//	    OnWarning: func(warning string) {
//	        // show non-fatal problems such as a failed save
//	    },
//	}
//
//	err = a.ProcessUserInput(ctx, "user message", callbacks)
//
// # Subpackages
//
// agent/terminal: the interactive read loop. It classifies each line with
// package prompt and routes commands to package commands and everything else
// to the agent.
package agent
