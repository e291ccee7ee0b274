package settings

import (
	"fmt"
	"strings"
)

const (
	defaultEndpointTimeout = 5
	minEndpointTimeout     = 1
	maxEndpointTimeout     = 30
)

// NotificationsConfig carries the outbound notification endpoints a level
// contributes. Endpoints are additive across levels and keyed by URL.
type NotificationsConfig struct {
	OutboundWebhooks []NotificationEndpoint `yaml:"outbound_webhooks,omitempty"`
}

// NotificationEndpoint is one outbound delivery target for repository
// lifecycle events.
type NotificationEndpoint struct {
	URL            string   `yaml:"url"`
	Secret         string   `yaml:"secret"`
	Events         []string `yaml:"events"`
	Active         *bool    `yaml:"active,omitempty"`          // defaults to true
	TimeoutSeconds *int     `yaml:"timeout_seconds,omitempty"` // defaults to 5
	Description    string   `yaml:"description,omitempty"`
}

// IsActive reports whether the endpoint should receive deliveries.
func (e *NotificationEndpoint) IsActive() bool {
	return e.Active == nil || *e.Active
}

// Timeout returns the delivery timeout in seconds with the default applied.
func (e *NotificationEndpoint) Timeout() int {
	if e.TimeoutSeconds == nil {
		return defaultEndpointTimeout
	}
	return *e.TimeoutSeconds
}

// AcceptsEvent reports whether the endpoint subscribes to the event. The
// wildcard "*" subscribes to everything.
func (e *NotificationEndpoint) AcceptsEvent(event string) bool {
	for _, sub := range e.Events {
		if sub == "*" || sub == event {
			return true
		}
	}
	return false
}

// Validate checks the endpoint against delivery policy: HTTPS transport, a
// non-empty secret, at least one event, and a timeout within bounds.
func (e *NotificationEndpoint) Validate() error {
	if !strings.HasPrefix(e.URL, "https://") {
		return fmt.Errorf("notification endpoint %q must use https", e.URL)
	}
	if e.Secret == "" {
		return fmt.Errorf("notification endpoint %q requires a secret", e.URL)
	}
	if len(e.Events) == 0 {
		return fmt.Errorf("notification endpoint %q must subscribe to at least one event", e.URL)
	}
	if t := e.Timeout(); t < minEndpointTimeout || t > maxEndpointTimeout {
		return fmt.Errorf("notification endpoint %q timeout %d outside %d-%d seconds",
			e.URL, t, minEndpointTimeout, maxEndpointTimeout)
	}
	return nil
}

// Validate checks every endpoint in the config.
func (c *NotificationsConfig) Validate() error {
	for i := range c.OutboundWebhooks {
		if err := c.OutboundWebhooks[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}
