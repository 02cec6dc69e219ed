package scope

// ScopeDescriptor is the remote scope's self-description.
type ScopeDescriptor struct {
	Name    string `json:"name"`
	Version string `json:"version,omitempty"`
}

// ListItem is one component as reported by the list verb.
type ListItem struct {
	ID         string   `json:"id"`
	Deprecated bool     `json:"deprecated"`
	Versions   []string `json:"versions,omitempty"`
}

// LogEntry is one version-history record of a component.
type LogEntry struct {
	Version  string `json:"version"`
	Message  string `json:"message"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Date     string `json:"date"`
}

// RemovedResult reports the outcome of a bulk delete.
type RemovedResult struct {
	RemovedIDs    []string `json:"removedIds"`
	MissingIDs    []string `json:"missingIds,omitempty"`
	DependentBits []string `json:"dependentBits,omitempty"`
}
