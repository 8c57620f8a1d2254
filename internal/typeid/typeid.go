// Package typeid mints the prefixed, sortable ids used for users, boards,
// snapshots, collab operations, canvas objects and uploaded assets.
package typeid

import (
	"fmt"

	"go.jetify.com/typeid/v2"
)

const (
	PrefixUser     = "user"
	PrefixBoard    = "board"
	PrefixSnapshot = "snap"
	PrefixOp       = "op"
	PrefixObject   = "obj"
	PrefixAsset    = "asset"
)

func New(prefix string) string {
	id := typeid.MustGenerate(prefix)
	return id.String()
}

func NewUserID() string     { return New(PrefixUser) }
func NewBoardID() string    { return New(PrefixBoard) }
func NewSnapshotID() string { return New(PrefixSnapshot) }
func NewOpID() string       { return New(PrefixOp) }
func NewObjectID() string   { return New(PrefixObject) }
func NewAssetID() string    { return New(PrefixAsset) }

// PrefixOf parses id and returns its prefix.
func PrefixOf(id string) (string, error) {
	parsed, err := typeid.Parse(id)
	if err != nil {
		return "", fmt.Errorf("invalid typeid %q: %w", id, err)
	}
	return parsed.Prefix(), nil
}

// Validate checks that id parses and carries the expected prefix. Asset
// ids double as file names, so this also guards path lookups.
func Validate(id, expectedPrefix string) error {
	prefix, err := PrefixOf(id)
	if err != nil {
		return err
	}
	if prefix != expectedPrefix {
		return fmt.Errorf("expected prefix %q but got %q in id %q", expectedPrefix, prefix, id)
	}
	return nil
}
