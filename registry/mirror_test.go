package registry

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/termgraph/termid/component"
)

func TestRecordJSON(t *testing.T) {
	rec := Record{NID: 3, Ref: component.MustPattern("US Dialect Pattern", usDialect)}

	data, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.JSONEq(t, `{"nid":3,"component":{"kind":"pattern","label":"US Dialect Pattern","uuids":["08f9112c-c041-56d3-b89b-63258f070074"]}}`, string(data))

	var got Record
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, rec.NID, got.NID)
	_, ok := got.Ref.(component.Pattern)
	assert.True(t, ok)

	_, err = json.Marshal(Record{NID: 1})
	assert.Error(t, err)

	err = json.Unmarshal([]byte(`{"nid":1,"component":{"kind":"pattern","label":"x","uuids":[]}}`), &got)
	assert.ErrorIs(t, err, component.ErrNoIdentifiers)
}

func TestEtcdKeyLayout(t *testing.T) {
	m := &EtcdMirror{namespace: "termid"}
	key := component.Key{Kind: component.KindConcept, UUID: englishA}
	assert.Equal(t, "/termid/concept/02018e5a-46ba-5297-92f1-6931b9f98a12", m.buildKey(key))
}

func TestSplitEndpoints(t *testing.T) {
	assert.Equal(t, []string{"a:2379", "b:2379"}, SplitEndpoints(" a:2379, ,b:2379 "))
	assert.Nil(t, SplitEndpoints(""))
}

func TestNewEtcdMirrorRequiresEndpoints(t *testing.T) {
	_, err := NewEtcdMirror(EtcdOptions{})
	assert.Error(t, err)
}

func TestNewEtcdMirrorFromEnvUnset(t *testing.T) {
	t.Setenv("TERMID_ETCD_ENDPOINTS", "")
	m, err := NewEtcdMirrorFromEnv()
	assert.NoError(t, err)
	assert.Nil(t, m)
}

func TestTLSConfig(t *testing.T) {
	var nilCfg *TLSConfig
	cfg, err := nilCfg.ClientConfig()
	assert.NoError(t, err)
	assert.Nil(t, cfg)

	tests := []struct {
		name string
		cfg  TLSConfig
	}{
		{name: "missing cert", cfg: TLSConfig{Enabled: true, KeyFile: "k", CAFile: "ca"}},
		{name: "missing key", cfg: TLSConfig{Enabled: true, CertFile: "c", CAFile: "ca"}},
		{name: "missing ca", cfg: TLSConfig{Enabled: true, CertFile: "c", KeyFile: "k"}},
		{name: "unreadable files", cfg: TLSConfig{Enabled: true, CertFile: "nope.pem", KeyFile: "nope.key", CAFile: "ca.pem"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.cfg.ClientConfig()
			assert.Error(t, err)
		})
	}

	assert.NoError(t, (&TLSConfig{}).Validate())
}
