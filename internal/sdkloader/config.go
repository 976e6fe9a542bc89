package sdkloader

import (
	"fmt"
	"sync"
)

const (
	DefaultVersion      = "beta"
	AttributionSourceID = "GCP"
	LibraryVersion      = "0.6.11"
)

// Property names a configurable setting of a ConfigElement.
type Property string

const (
	PropertyKey                Property = "key"
	PropertyVersion            Property = "version"
	PropertyLanguage           Property = "language"
	PropertyRegion             Property = "region"
	PropertySolutionChannel    Property = "solutionChannel"
	PropertyAuthReferrerPolicy Property = "authReferrerPolicy"
)

// Config holds the settings of a configuration element. An empty Key means no
// credential has been supplied yet. A nil SolutionChannel selects the default
// attribution tag; an empty one opts out.
type Config struct {
	Key                string
	Version            string
	Language           string
	Region             string
	SolutionChannel    *string
	AuthReferrerPolicy string
}

// Options are the resolved settings handed to the bootstrap.
type Options struct {
	Key                string
	Version            string
	Language           string
	Region             string
	SolutionChannel    string
	AuthReferrerPolicy string
}

func DefaultSolutionChannel() string {
	return fmt.Sprintf("GMP_%s_extended_v%s", AttributionSourceID, LibraryVersion)
}

func (c Config) solutionChannel() string {
	if c.SolutionChannel == nil {
		return DefaultSolutionChannel()
	}
	return *c.SolutionChannel
}

func (c Config) options() Options {
	version := c.Version
	if version == "" {
		version = DefaultVersion
	}
	return Options{
		Key:                c.Key,
		Version:            version,
		Language:           c.Language,
		Region:             c.Region,
		SolutionChannel:    c.solutionChannel(),
		AuthReferrerPolicy: c.AuthReferrerPolicy,
	}
}

// setProperties lists the properties carrying a value, in declaration order.
func (c Config) setProperties() []Property {
	var props []Property
	if c.Key != "" {
		props = append(props, PropertyKey)
	}
	if c.Version != "" {
		props = append(props, PropertyVersion)
	}
	if c.Language != "" {
		props = append(props, PropertyLanguage)
	}
	if c.Region != "" {
		props = append(props, PropertyRegion)
	}
	if c.SolutionChannel != nil {
		props = append(props, PropertySolutionChannel)
	}
	if c.AuthReferrerPolicy != "" {
		props = append(props, PropertyAuthReferrerPolicy)
	}
	return props
}

// ConfigElement is a source of SDK configuration registered with a Loader.
// Only the first connected element is authoritative.
type ConfigElement struct {
	name   string
	loader *Loader

	mu  sync.Mutex
	cfg Config
}

func (e *ConfigElement) Name() string { return e.name }

// Config returns a copy of the element's current settings.
func (e *ConfigElement) Config() Config {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cfg
}

// SetProperty updates one setting. On the active element this retries the
// bootstrap if the SDK is not loaded yet; once it is loaded the change has no
// effect and a warning is logged.
func (e *ConfigElement) SetProperty(p Property, value string) error {
	e.mu.Lock()
	switch p {
	case PropertyKey:
		e.cfg.Key = value
	case PropertyVersion:
		e.cfg.Version = value
	case PropertyLanguage:
		e.cfg.Language = value
	case PropertyRegion:
		e.cfg.Region = value
	case PropertySolutionChannel:
		v := value
		e.cfg.SolutionChannel = &v
	case PropertyAuthReferrerPolicy:
		e.cfg.AuthReferrerPolicy = value
	default:
		e.mu.Unlock()
		return fmt.Errorf("set property: unknown property %q", p)
	}
	e.mu.Unlock()

	e.loader.update(e, []Property{p})
	return nil
}

// Disconnect detaches the element. An active element that has not loaded the
// SDK gives up its role so a later element can configure it.
func (e *ConfigElement) Disconnect() {
	e.loader.disconnect(e)
}
