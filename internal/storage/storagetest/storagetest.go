// Package storagetest provides a conformance suite for storage.Gateway
// implementations.
package storagetest

import (
	"slices"
	"testing"

	"github.com/julianstephens/studystreak/internal/storage"
)

// Run exercises g, which must be initialized and empty.
func Run(t *testing.T, g storage.Gateway) {
	t.Helper()

	t.Run("missing key", func(t *testing.T) {
		v, ok, err := g.Read("absent")
		if err != nil {
			t.Fatalf("Read() error = %v", err)
		}
		if ok || v != nil {
			t.Errorf("Read() = %q, %v, want nothing", v, ok)
		}
	})

	t.Run("write then read", func(t *testing.T) {
		want := []byte(`{"streak":3,"logs":[]}`)
		if err := g.Write("appData", want); err != nil {
			t.Fatalf("Write() error = %v", err)
		}
		got, ok, err := g.Read("appData")
		if err != nil || !ok {
			t.Fatalf("Read() = %v, %v", ok, err)
		}
		if string(got) != string(want) {
			t.Errorf("Read() = %s, want %s", got, want)
		}
	})

	t.Run("overwrite", func(t *testing.T) {
		if err := g.Write("lastCelebratedMilestone", []byte("7")); err != nil {
			t.Fatal(err)
		}
		if err := g.Write("lastCelebratedMilestone", []byte("14")); err != nil {
			t.Fatal(err)
		}
		got, _, err := g.Read("lastCelebratedMilestone")
		if err != nil || string(got) != "14" {
			t.Errorf("Read() = %s, %v, want 14", got, err)
		}
	})

	t.Run("namespaced keys", func(t *testing.T) {
		if err := g.Write("users/alice/appData", []byte(`{"streak":1}`)); err != nil {
			t.Fatalf("Write() error = %v", err)
		}
		keys, err := g.Keys()
		if err != nil {
			t.Fatalf("Keys() error = %v", err)
		}
		for _, k := range []string{"appData", "lastCelebratedMilestone", "users/alice/appData"} {
			if !slices.Contains(keys, k) {
				t.Errorf("Keys() = %v, missing %q", keys, k)
			}
		}
	})

	t.Run("remove", func(t *testing.T) {
		if err := g.Remove("appData"); err != nil {
			t.Fatalf("Remove() error = %v", err)
		}
		if _, ok, _ := g.Read("appData"); ok {
			t.Error("key still present after Remove()")
		}
		if err := g.Remove("appData"); err != nil {
			t.Errorf("Remove() of missing key = %v", err)
		}
	})

	t.Run("empty key", func(t *testing.T) {
		if err := g.Write(" ", []byte("1")); err == nil {
			t.Error("Write() accepted an empty key")
		}
	})
}
