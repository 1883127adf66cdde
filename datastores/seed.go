package datastores

import (
	"context"
	"fmt"
	"io"
	"slices"

	"gopkg.in/yaml.v3"
)

// SeedContact is the YAML form of a contact in a seed file.
type SeedContact struct {
	First    string `yaml:"first"`
	Last     string `yaml:"last"`
	Avatar   string `yaml:"avatar"`
	Twitter  string `yaml:"twitter"`
	Notes    string `yaml:"notes"`
	Favorite bool   `yaml:"favorite"`
}

// LoadSeed decodes a YAML sequence of contacts.
func LoadSeed(r io.Reader) ([]SeedContact, error) {
	var contacts []SeedContact
	err := yaml.NewDecoder(r).Decode(&contacts)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode seed: %w", err)
	}
	return contacts, nil
}

// Seed inserts contacts into store. They are created last to first
// so that listing the store yields them in the given order.
func Seed(ctx context.Context, store ContactsStore, contacts ...SeedContact) error {
	for _, sc := range slices.Backward(contacts) {
		c, err := store.Create(ctx)
		if err != nil {
			return fmt.Errorf("seed: %w", err)
		}
		_, err = store.Update(ctx, c.ID, &ContactPatch{
			First:    &sc.First,
			Last:     &sc.Last,
			Avatar:   &sc.Avatar,
			Twitter:  &sc.Twitter,
			Notes:    &sc.Notes,
			Favorite: &sc.Favorite,
		})
		if err != nil {
			return fmt.Errorf("seed %s: %w", c.ID, err)
		}
	}
	return nil
}
