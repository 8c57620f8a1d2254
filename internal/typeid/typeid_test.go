package typeid

import (
	"strings"
	"testing"
)

func TestNewAndValidate(t *testing.T) {
	tests := []struct {
		name   string
		gen    func() string
		prefix string
	}{
		{"board", NewBoardID, PrefixBoard},
		{"object", NewObjectID, PrefixObject},
		{"snapshot", NewSnapshotID, PrefixSnapshot},
		{"user", NewUserID, PrefixUser},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := tt.gen()
			if !strings.HasPrefix(id, tt.prefix+"_") {
				t.Errorf("id %q missing prefix %q", id, tt.prefix)
			}
			if err := Validate(id, tt.prefix); err != nil {
				t.Errorf("Validate() error = %v", err)
			}
		})
	}
}

func TestValidateRejects(t *testing.T) {
	if err := Validate(NewBoardID(), PrefixObject); err == nil {
		t.Error("expected prefix mismatch error")
	}
	if err := Validate("not-an-id", PrefixBoard); err == nil {
		t.Error("expected parse error")
	}
}

func TestPrefixOf(t *testing.T) {
	got, err := PrefixOf(NewAssetID())
	if err != nil {
		t.Fatalf("PrefixOf failed: %v", err)
	}
	if got != PrefixAsset {
		t.Errorf("PrefixOf() = %q, want %q", got, PrefixAsset)
	}
	if _, err := PrefixOf("asset_"); err == nil {
		t.Error("expected error for empty suffix")
	}
}
