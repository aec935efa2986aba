package workspace

import (
	"bennypowers.dev/embedfmt/internal/config"
	"bennypowers.dev/embedfmt/internal/log"
	"bennypowers.dev/embedfmt/lsp/types"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// DidChangeConfiguration handles the workspace/didChangeConfiguration notification.
// Settings live under the "embedfmt" section; invalid settings are rejected
// and the previous configuration stays in effect.
func DidChangeConfiguration(req *types.RequestContext, params *protocol.DidChangeConfigurationParams) error {
	values, err := config.SettingsValues(params.Settings)
	if err != nil {
		return err
	}
	if values == nil {
		log.Debug("Configuration changed without %s settings", config.Key)
	}

	if err := req.Server.SetSettings(values); err != nil {
		return err
	}

	cfg := req.Server.Config()
	log.Info("Configuration changed (engine: %s, format on save: %t)", cfg.Engine, cfg.FormatOnSave)
	return nil
}
