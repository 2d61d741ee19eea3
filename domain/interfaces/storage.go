package interfaces

import "vote_automation/domain/entities"

// ListSource provides the names and proxies a run iterates over
type ListSource interface {
	// LoadNames loads the names to vote with
	LoadNames() ([]string, error)

	// LoadProxies loads the proxies to rotate through
	LoadProxies() ([]entities.Proxy, error)
}
