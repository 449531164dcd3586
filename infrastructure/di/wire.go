//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"skillmap-backend/infrastructure/config"
)

// InitializeContainer wires the full application graph
func InitializeContainer(cfg *config.Config) (*Container, error) {
	wire.Build(SuperSet)
	return nil, nil
}
