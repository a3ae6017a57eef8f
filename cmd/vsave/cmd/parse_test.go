package cmd

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/valheimsave/pkg/itemdata"
	"github.com/ssargent/valheimsave/pkg/savejson"
)

func TestParse_Sources(t *testing.T) {
	env := newTestEnv(t)
	blob := encode(0, axe, wood)

	file := filepath.Join(t.TempDir(), "inventory.b64")
	require.NoError(t, os.WriteFile(file, []byte(blob+"\n"), 0600))

	tests := []struct {
		name  string
		stdin string
		args  []string
	}{
		{"argument", "", []string{"parse", blob}},
		{"file", "", []string{"parse", "--file", file}},
		{"stdin", blob + "\n", []string{"parse"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := env.run(t, tt.stdin, tt.args...)
			require.NoError(t, err)
			assert.Contains(t, out, "Version: 106")
			assert.Contains(t, out, "AxeBronze")
			assert.Contains(t, out, "Ragnar (7)")
			assert.Contains(t, out, "Wood")
		})
	}
}

func TestParse_JSONOutput(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, "", "parse", "-o", "json", encode(0, axe, wood))
	require.NoError(t, err)

	var inv itemdata.Inventory
	require.NoError(t, json.Unmarshal([]byte(out), &inv))
	assert.Equal(t, int32(106), inv.Version)
	assert.Equal(t, []itemdata.Item{axe, wood}, inv.Items)
}

func TestParse_JSONOutputNonFinite(t *testing.T) {
	env := newTestEnv(t)
	sword := itemdata.Item{Name: "SwordIron", Stack: 1, Durability: float32(math.NaN())}
	shield := itemdata.Item{Name: "ShieldWood", Stack: 1, Durability: float32(math.Inf(1)), PosX: 1}

	out, err := env.run(t, "", "parse", "-o", "json", encode(0, sword, shield))
	require.NoError(t, err)
	assert.Contains(t, out, `"durability": "NaN"`)

	var inv itemdata.Inventory
	require.NoError(t, json.Unmarshal([]byte(out), &inv))
	require.Len(t, inv.Items, 2)
	assert.True(t, math.IsNaN(float64(inv.Items[0].Durability)))
	assert.Equal(t, shield, inv.Items[1])
}

func TestParse_Errors(t *testing.T) {
	env := newTestEnv(t)

	t.Run("malformed header", func(t *testing.T) {
		_, err := env.run(t, "", "parse", "AQAAAP////8=")
		assert.ErrorIs(t, err, itemdata.ErrMalformedHeader)
	})

	t.Run("invalid base64", func(t *testing.T) {
		_, err := env.run(t, "", "parse", "not base64!")
		assert.ErrorIs(t, err, itemdata.ErrInvalidEncoding)
	})

	t.Run("no input", func(t *testing.T) {
		_, err := env.run(t, "   \n", "parse")
		assert.ErrorIs(t, err, errNoInput)
	})

	t.Run("invalid output", func(t *testing.T) {
		_, err := env.run(t, "", "parse", "-o", "xml", encode(0))
		assert.Error(t, err)
	})

	t.Run("negative trailer", func(t *testing.T) {
		_, err := env.run(t, "", "parse", "--trailer", "-1", encode(0))
		assert.Error(t, err)
	})
}

func TestParse_Trailer(t *testing.T) {
	env := newTestEnv(t)
	blob := encode(itemdata.ValheimTrailer, axe, wood)

	// without the trailer the second record is read from the wrong offset
	out, err := env.run(t, "", "parse", "-o", "json", blob)
	require.NoError(t, err)
	var misread itemdata.Inventory
	require.NoError(t, json.Unmarshal([]byte(out), &misread))
	require.Len(t, misread.Items, 2)
	assert.NotEqual(t, wood, misread.Items[1])

	out, err = env.run(t, "", "parse", "--trailer", "9", "-o", "json", blob)
	require.NoError(t, err)
	var inv itemdata.Inventory
	require.NoError(t, json.Unmarshal([]byte(out), &inv))
	assert.Equal(t, []itemdata.Item{axe, wood}, inv.Items)
}

func TestParse_BestEffort(t *testing.T) {
	env := newTestEnv(t)

	raw, err := base64.StdEncoding.DecodeString(encode(0, axe, wood))
	require.NoError(t, err)
	truncated := base64.StdEncoding.EncodeToString(raw[:len(raw)-1])

	_, err = env.run(t, "", "parse", truncated)
	var itemErr *itemdata.ItemError
	require.ErrorAs(t, err, &itemErr)
	assert.Equal(t, 1, itemErr.Index)

	out, err := env.run(t, "", "parse", "--best-effort", "-o", "json", truncated)
	require.NoError(t, err)
	var inv itemdata.Inventory
	require.NoError(t, json.Unmarshal([]byte(out), &inv))
	assert.Equal(t, []itemdata.Item{axe}, inv.Items)

	_, err = env.run(t, "", "parse", "--best-effort", "AQAA")
	assert.ErrorIs(t, err, itemdata.ErrBufferExhausted)
}

func TestParse_Document(t *testing.T) {
	env := newTestEnv(t)

	good := fmt.Sprintf(`{"players":[{"inventory":%q},{"inventory":%q}]}`, encode(0, axe), encode(0, wood))
	out, err := env.run(t, good, "parse", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, "== players[0].inventory ==")
	assert.Contains(t, out, "== players[1].inventory ==")

	out, err = env.run(t, good, "parse", "--json", "-o", "json")
	require.NoError(t, err)
	var results []savejson.Result
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 2)
	assert.Equal(t, []itemdata.Item{wood}, results[1].Inventory.Items)

	bad := fmt.Sprintf(`{"chest":{"items":%q},"inventory":%q}`, encode(0, helm), "AQAAAP////8=")
	out, err = env.run(t, bad, "parse", "--json")
	assert.ErrorIs(t, err, itemdata.ErrMalformedHeader)
	assert.Contains(t, out, "error (malformed_header)")

	out, err = env.run(t, bad, "parse", "--json", "--field", "items")
	require.NoError(t, err)
	assert.Contains(t, out, "HelmetLeather")
}

func TestSummary(t *testing.T) {
	env := newTestEnv(t)
	blob := encode(0, axe, wood, helm)

	out, err := env.run(t, "", "summary", blob)
	require.NoError(t, err)
	assert.Contains(t, out, "Items:    3")
	assert.Contains(t, out, "Equipped: 1")
	assert.Contains(t, out, "HelmetLeather at 2,0: 20.0")
	assert.Contains(t, out, "Weapons: 1")

	out, err = env.run(t, "", "summary", "--threshold", "10", "-o", "json", blob)
	require.NoError(t, err)
	var report summaryReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, 3, report.Summary.Total)
	assert.Empty(t, report.Damaged)
	assert.Equal(t, []itemdata.Item{axe}, report.Equipped)
}
