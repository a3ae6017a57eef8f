// Package di provides dependency injection container
package di

import (
	"github.com/ssargent/valheimsave/pkg/api" //nolint:depguard
	"github.com/ssargent/valheimsave/pkg/snapshot"
)

// StoreOpener opens the snapshot store in a data directory
type StoreOpener func(dataDir string) (*snapshot.Store, error)

// Container holds all the dependencies for the application
type Container struct {
	storeOpener   StoreOpener
	serverFactory api.ServerFactory
}

// NewContainer creates a new dependency injection container
func NewContainer() *Container {
	return &Container{
		storeOpener:   snapshot.Open,
		serverFactory: api.NewServerFactory(),
	}
}

// OpenStore opens the snapshot store in dataDir
func (c *Container) OpenStore(dataDir string) (*snapshot.Store, error) {
	return c.storeOpener(dataDir)
}

// GetServerFactory returns the server factory
func (c *Container) GetServerFactory() api.ServerFactory {
	return c.serverFactory
}

// SetStoreOpener allows overriding how the snapshot store is opened (for testing)
func (c *Container) SetStoreOpener(opener StoreOpener) {
	c.storeOpener = opener
}

// SetServerFactory allows overriding the server factory (for testing)
func (c *Container) SetServerFactory(factory api.ServerFactory) {
	c.serverFactory = factory
}
