package command

import (
	"fmt"
	"os"

	"github.com/pixil98/go-errors"

	"github.com/tutien/tutien-server/internal/game"
	"github.com/tutien/tutien-server/internal/storage"
)

type StorageConfig struct {
	Players AssetConfig[*game.Player] `json:"players"`
}

func (c *StorageConfig) validate() error {
	el := errors.NewErrorList()
	el.Add(c.Players.Validate("players"))
	return el.Err()
}

func (c *StorageConfig) BuildPlayerStore() (*storage.PlayerStore, error) {
	fs, err := c.Players.BuildFileStore()
	if err != nil {
		return nil, fmt.Errorf("creating player store: %w", err)
	}
	return storage.NewPlayerStore(fs), nil
}

type AssetConfig[T storage.ValidatingSpec] struct {
	Path string `json:"path"`
}

func (c *AssetConfig[T]) Validate(name string) error {
	if c.Path == "" {
		return fmt.Errorf("%s: path is required", name)
	}
	_, err := os.Stat(c.Path)
	if err != nil {
		return fmt.Errorf("%s: invalid path %q: %w", name, c.Path, err)
	}

	return nil
}

func (c *AssetConfig[T]) BuildFileStore() (*storage.FileStore[T], error) {
	return storage.NewFileStore[T](c.Path)
}
