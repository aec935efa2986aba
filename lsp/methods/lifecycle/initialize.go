package lifecycle

import (
	"bennypowers.dev/embedfmt/internal/log"
	"bennypowers.dev/embedfmt/internal/uriutil"
	"bennypowers.dev/embedfmt/internal/version"
	"bennypowers.dev/embedfmt/lsp/types"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// Initialize handles the LSP initialize request
func Initialize(req *types.RequestContext, params *protocol.InitializeParams) (any, error) {
	clientName := "unknown"
	if params.ClientInfo != nil {
		clientName = params.ClientInfo.Name
	}
	log.Info("Initializing for client: %s", clientName)

	// Store the workspace root
	if params.RootURI != nil {
		req.Server.SetRootURI(*params.RootURI)
		req.Server.SetRootPath(uriutil.URIToPath(*params.RootURI))
	} else if params.RootPath != nil {
		req.Server.SetRootPath(*params.RootPath)
		req.Server.SetRootURI(uriutil.PathToURI(*params.RootPath))
	}
	if root := req.Server.RootPath(); root != "" {
		log.Info("Workspace root: %s", root)
	}

	// Initialization options carry the same settings as didChangeConfiguration.
	// A broken configuration must not prevent the server from starting.
	var err error
	if options, ok := params.InitializationOptions.(map[string]any); ok && len(options) > 0 {
		err = req.Server.SetSettings(options)
	} else {
		err = req.Server.LoadConfig()
	}
	if err != nil {
		req.AddWarning(err)
	}

	syncKind := protocol.TextDocumentSyncKindFull
	v := version.GetVersion()
	return protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			TextDocumentSync: protocol.TextDocumentSyncOptions{
				OpenClose:         boolPtr(true),
				Change:            &syncKind,
				WillSaveWaitUntil: boolPtr(true),
			},
			DocumentFormattingProvider: true,
		},
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    "embedfmt",
			Version: &v,
		},
	}, nil
}

func boolPtr(b bool) *bool {
	return &b
}
