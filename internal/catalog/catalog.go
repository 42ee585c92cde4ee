// Package catalog loads the sellable service list from the salon API,
// degrading to a hardcoded fallback so the booking widget always has
// something to offer.
package catalog

import (
	"context"

	"github.com/anasteisha/salon-booking/internal/salonapi"
	"github.com/anasteisha/salon-booking/pkg/logging"
)

// Service is a catalog entry enriched with a description.
type Service = salonapi.Service

// ServicesClient is the part of the salon API the loader needs.
type ServicesClient interface {
	Services(ctx context.Context) ([]salonapi.Service, error)
}

// Loader fetches and enriches the service catalog.
type Loader struct {
	client ServicesClient
	logger *logging.Logger
}

// NewLoader creates a catalog loader.
func NewLoader(client ServicesClient, logger *logging.Logger) *Loader {
	if logger == nil {
		logger = logging.Default()
	}
	return &Loader{client: client, logger: logger.WithComponent("catalog")}
}

// Load returns the current catalog. On upstream failure it logs and falls
// back to the built-in list; the error is swallowed deliberately because an
// empty step 1 is worse than a slightly stale catalog.
func (l *Loader) Load(ctx context.Context) []Service {
	services, err := l.client.Services(ctx)
	if err != nil {
		l.logger.Error("failed to load services, using fallback", "error", err)
		services = fallbackServices()
	}
	return Enrich(services)
}

// Enrich fills in missing descriptions from the static lookup table.
func Enrich(services []Service) []Service {
	out := make([]Service, len(services))
	for i, s := range services {
		if s.Description == "" {
			if desc, ok := serviceDescriptions[s.Name]; ok {
				s.Description = desc
			} else {
				s.Description = defaultDescription
			}
		}
		out[i] = s
	}
	return out
}

// Find returns the service with the given id, or nil.
func Find(services []Service, id int) *Service {
	for i := range services {
		if services[i].ID == id {
			return &services[i]
		}
	}
	return nil
}
