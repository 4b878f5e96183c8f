package routes

import (
	"github.com/danielgtaylor/huma/v2"

	"github.com/janisto/status-demo/internal/http/status"
	"github.com/janisto/status-demo/internal/platform/config"
)

// Register wires all HTTP routes into the provided API router.
func Register(api huma.API, cfg *config.Config) {
	status.Register(api, cfg.SecretWord)
}
