package binding

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample(t *testing.T) map[string]any {
	t.Helper()
	var data map[string]any
	require.NoError(t, json.Unmarshal([]byte(`{
		"item": {"sku": "A-100", "price": 12.5, "qty": 3, "tags": ["new", "sale"]},
		"bins": [{"code": "R1"}, {"code": "R2"}],
		"empty": null
	}`), &data))
	return data
}

func TestInterpolate(t *testing.T) {
	data := sample(t)
	cases := map[string]string{
		"SKU ${item.sku}":                 "SKU A-100",
		"${item.qty} pcs":                 "3 pcs",
		"${ item.price }":                 "12.5",
		"${item.tags[1]}":                 "sale",
		"${bins[0].code}/${bins[1].code}": "R1/R2",
		"${item.missing}":                 "${item.missing}",
		"${item.missing:-n/a}":            "n/a",
		"${item.sku:-n/a}":                "A-100",
		"${empty:-none}":                  "none",
		"${bins[9].code:-}":               "",
		"${item.tags[x]}":                 "${item.tags[x]}",
		"plain":                           "plain",
	}
	for in, want := range cases {
		assert.Equal(t, want, Interpolate(in, data), in)
	}
}

func TestInterpolateNilData(t *testing.T) {
	assert.Equal(t, "${a}", Interpolate("${a}", nil))
	assert.Equal(t, "x", Interpolate("${a:-x}", nil))
}

func TestStringMaps(t *testing.T) {
	data := map[string]any{"env": map[string]string{"site": "HQ"}, "list": []string{"a", "b"}}
	assert.Equal(t, "HQ-b", Interpolate("${env.site}-${list[1]}", data))
}

func TestUnresolved(t *testing.T) {
	assert.Equal(t, []string{"a.b", "c"}, Unresolved("x ${a.b} y ${ c }"))
	assert.Empty(t, Unresolved("nothing"))
}
