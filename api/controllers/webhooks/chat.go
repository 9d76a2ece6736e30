package webhooks

import (
	"context"
	"net/http"

	"github.com/craftline/craftline-backend/pkg/logger"
)

type chatService interface {
	HandleMessage(ctx context.Context, from, body string)
}

// ChatVerification answers the channel's webhook-verification handshake: echo
// the challenge when the token matches, 403 otherwise.
func ChatVerification(verifyToken string, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := r.URL.Query().Get("hub.verify_token")
		challenge := r.URL.Query().Get("hub.challenge")

		if token != verifyToken {
			if logg != nil {
				logg.Warn(r.Context(), "chat webhook verification failed")
			}
			http.Error(w, "Invalid verification token", http.StatusForbidden)
			return
		}

		w.WriteHeader(http.StatusOK)
		w.Write([]byte(challenge))
	}
}

// ChatMessage dispatches one inbound channel message. The channel retries on
// non-200, so delivery problems inside the state machine never surface here.
func ChatMessage(svc chatService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if err := r.ParseForm(); err != nil {
			if logg != nil {
				logg.Warn(ctx, "chat webhook form unparseable")
			}
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("OK"))
			return
		}

		from := r.PostFormValue("From")
		body := r.PostFormValue("Body")
		if from != "" && svc != nil {
			svc.HandleMessage(ctx, from, body)
		}

		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}
}
