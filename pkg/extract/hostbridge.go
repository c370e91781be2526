package extract

// HostBridgeBackend delegates to a host-provided PDF engine capability set
// (load document, iterate pages, iterate positioned text items) when one is
// present. Standalone docforge processes never have this capability, so
// this backend always reports BackendUnavailable; it exists so the routing
// algorithm and its preference order are implemented in full even though
// only Native and Legacy are reachable outside an embedding host.
type HostBridgeBackend struct{}

func (HostBridgeBackend) Name() string { return "host_bridge" }

func (HostBridgeBackend) Extract(data []byte) ([]PageContent, error) {
	return nil, newBackendUnavailable("host_bridge")
}
