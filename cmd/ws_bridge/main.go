package main

import (
	"fmt"
	"net/http"
	"os"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/m4xw311/prompter/errors"
	"github.com/m4xw311/prompter/logging"
	"github.com/m4xw311/prompter/prompt"
	"github.com/spf13/cobra"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// reply is sent back for every text frame received.
type reply struct {
	Connection string `json:"connection"`
	Input      string `json:"input"`
	Outcome    string `json:"outcome"`
	Command    bool   `json:"command"`
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %+v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var addr string
	var prefixes []string

	cmd := &cobra.Command{
		Use:          "ws_bridge",
		Short:        "Classify lines received over a WebSocket",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			runes, err := parsePrefixes(prefixes)
			if err != nil {
				return err
			}
			logging.Init("prompter-ws", logging.Options{})
			defer logging.Sync()

			mux := http.NewServeMux()
			mux.HandleFunc("/ws", handleWS(runes))

			fmt.Fprintf(cmd.OutOrStdout(), "WebSocket server running on ws://%s/ws\n", addr)
			return http.ListenAndServe(addr, mux)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "localhost:8080", "Listen address")
	cmd.Flags().StringArrayVar(&prefixes, "prefix", nil, "Command prefix character (repeatable)")
	return cmd
}

func parsePrefixes(prefixes []string) ([]rune, error) {
	var out []rune
	for _, p := range prefixes {
		if utf8.RuneCountInString(p) != 1 {
			return nil, errors.New("command prefix %q must be a single character", p)
		}
		r, _ := utf8.DecodeRuneInString(p)
		out = append(out, r)
	}
	return out, nil
}

func newFactory(prefixes []rune) *prompt.Factory {
	return prompt.NewFactory().
		WithCommandPrefixes(prefixes...).
		WithCommandHandler(func(bool) {})
}

// handleWS gives every connection its own Prompt.
func handleWS(prefixes []rune) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logging.L().Warnw("upgrade failed", "error", err)
			return
		}
		defer conn.Close()

		id := uuid.NewString()
		log := logging.L().With("connection", id)
		p := newFactory(prefixes).
			WithLogHandler(func(text string) { log.Debug(text) }).
			Build()
		log.Infow("connection opened", "remote", r.RemoteAddr)

		for {
			msgType, msg, err := conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					log.Warnw("read failed", "error", err)
				}
				log.Infow("connection closed")
				return
			}
			if msgType != websocket.TextMessage {
				continue
			}

			line := string(msg)
			outcome := p.Evaluate(line)
			if err := conn.WriteJSON(reply{
				Connection: id,
				Input:      line,
				Outcome:    outcome.String(),
				Command:    outcome.IsCommand(),
			}); err != nil {
				log.Warnw("write failed", "error", err)
				return
			}
		}
	}
}
