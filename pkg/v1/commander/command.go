package commander

// ImportCommand is message requesting action on source catalog.
type ImportCommand struct {
	SourceID string `json:"sourceId"`
	Action   string `json:"action"`
}
