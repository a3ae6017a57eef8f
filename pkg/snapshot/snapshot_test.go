package snapshot

import (
	"math"
	"testing"

	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"
	"github.com/segmentio/ksuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/valheimsave/pkg/itemdata"
)

func openMemStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenWithOptions("", &pebble.Options{FS: vfs.NewMem()})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleInventory() *itemdata.Inventory {
	return &itemdata.Inventory{
		Version: 106,
		Items: []itemdata.Item{
			{Name: "AxeBronze", Stack: 1, Durability: 100, Equipped: true, Quality: 3, CrafterID: 123456789, CrafterName: "Player1"},
			{Name: "Wood", Stack: 50, PosX: 1},
		},
	}
}

func TestStore_CreateGet(t *testing.T) {
	s := openMemStore(t)

	created, err := s.Create("before raid", sampleInventory())
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "before raid", created.Label)

	loaded, err := s.Get(created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, loaded.ID)
	assert.Equal(t, created.Label, loaded.Label)
	assert.True(t, created.CreatedAt.Equal(loaded.CreatedAt))
	assert.Equal(t, *sampleInventory(), loaded.Inventory)
}

func TestStore_NonFiniteDurability(t *testing.T) {
	s := openMemStore(t)

	inv := &itemdata.Inventory{
		Version: 1,
		Items: []itemdata.Item{
			{Name: "SwordIron", Stack: 1, Durability: float32(math.NaN())},
			{Name: "ShieldWood", Stack: 1, Durability: float32(math.Inf(1)), PosX: 1},
			{Name: "Club", Stack: 1, Durability: float32(math.Inf(-1)), PosX: 2},
		},
	}

	created, err := s.Create("odd durability", inv)
	require.NoError(t, err)

	loaded, err := s.Get(created.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Inventory.Items, 3)
	assert.Equal(t, "SwordIron", loaded.Inventory.Items[0].Name)
	assert.True(t, math.IsNaN(float64(loaded.Inventory.Items[0].Durability)))
	assert.Equal(t, inv.Items[1:], loaded.Inventory.Items[1:])
}

func TestStore_GetMissing(t *testing.T) {
	s := openMemStore(t)

	_, err := s.Get(ksuid.New().String())
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.Get("not-a-ksuid")
	assert.ErrorIs(t, err, ErrInvalidID)
}

func TestStore_List(t *testing.T) {
	s := openMemStore(t)

	empty, err := s.List()
	require.NoError(t, err)
	assert.Empty(t, empty)

	ids := make(map[string]bool)
	for _, label := range []string{"one", "two", "three"} {
		snap, err := s.Create(label, sampleInventory())
		require.NoError(t, err)
		ids[snap.ID] = true
	}

	all, err := s.List()
	require.NoError(t, err)
	require.Len(t, all, 3)
	for i, snap := range all {
		assert.True(t, ids[snap.ID])
		if i > 0 {
			assert.Less(t, all[i-1].ID, snap.ID, "listed in id order")
		}
	}
}

func TestStore_Delete(t *testing.T) {
	s := openMemStore(t)

	snap, err := s.Create("temp", sampleInventory())
	require.NoError(t, err)

	require.NoError(t, s.Delete(snap.ID))

	_, err = s.Get(snap.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	err = s.Delete(snap.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	err = s.Delete("bogus")
	assert.ErrorIs(t, err, ErrInvalidID)
}

func TestStore_ReopenOnDisk(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(dir)
	require.NoError(t, err)
	snap, err := s.Create("persisted", sampleInventory())
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(dir)
	require.NoError(t, err)
	defer s.Close()

	loaded, err := s.Get(snap.ID)
	require.NoError(t, err)
	assert.Equal(t, "persisted", loaded.Label)
	assert.Len(t, loaded.Inventory.Items, 2)
}

func TestPrefixEnd(t *testing.T) {
	assert.Equal(t, []byte("snapshot0"), prefixEnd([]byte(keyPrefix)))
}
