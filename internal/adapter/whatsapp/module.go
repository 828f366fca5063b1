package whatsapp

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/digistore/internal/config"
)

// Module exposes the WhatsApp messenger to fx graph.
var Module = fx.Provide(newMessenger)

type messengerParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newMessenger(p messengerParams) (Messenger, error) {
	return NewHTTPClient(p.Config.WhatsAppAPIURL, p.Config.UpstreamTimeout, p.Logger)
}
