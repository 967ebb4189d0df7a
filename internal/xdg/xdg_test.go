package xdg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envOf(m map[string]string) Env {
	return func(k string) string { return m[k] }
}

func TestDBPath(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"default", map[string]string{"HOME": "/home/op"}, "/home/op/.local/share/flyby/flyby.db"},
		{"xdg set", map[string]string{"HOME": "/home/op", "XDG_DATA_HOME": "/srv/data"}, "/srv/data/flyby/flyby.db"},
		{"xdg empty", map[string]string{"HOME": "/home/op", "XDG_DATA_HOME": ""}, "/home/op/.local/share/flyby/flyby.db"},
		{"xdg relative", map[string]string{"HOME": "/home/op", "XDG_DATA_HOME": "data"}, "/home/op/.local/share/flyby/flyby.db"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DBPath(envOf(tt.env))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConfigPath(t *testing.T) {
	got, err := ConfigPath(envOf(map[string]string{"HOME": "/home/op"}))
	require.NoError(t, err)
	assert.Equal(t, "/home/op/.config/flyby/flybydb.toml", got)

	got, err = ConfigPath(envOf(map[string]string{"XDG_CONFIG_HOME": "/etc/user"}))
	require.NoError(t, err)
	assert.Equal(t, "/etc/user/flyby/flybydb.toml", got)
}

func TestNoHome(t *testing.T) {
	_, err := DBPath(envOf(nil))
	require.Error(t, err)
}
