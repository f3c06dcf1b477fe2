package unitfile

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleUnit = `[Unit]
Description=Web server

[Install]
WantedBy=multi-user.target default.target
WantedBy=graphical.target
RequiredBy=web.target
`

func TestParse_GetWithFallback(t *testing.T) {
	t.Parallel()
	f, err := Parse(strings.NewReader(sampleUnit))
	require.NoError(t, err)

	assert.Equal(t, "Web server", f.Get("Unit", "Description", ""))
	assert.Equal(t, "fallback", f.Get("Unit", "Documentation", "fallback"))
	assert.Equal(t, "fallback", f.Get("Missing", "Key", "fallback"))
}

func TestParse_HasSection(t *testing.T) {
	t.Parallel()
	f, err := Parse(strings.NewReader(sampleUnit))
	require.NoError(t, err)

	assert.True(t, f.HasSection("Install"))
	assert.False(t, f.HasSection("Service"))
}

func TestParse_ValuesConcatenatesRepeatedKeys(t *testing.T) {
	t.Parallel()
	f, err := Parse(strings.NewReader(sampleUnit))
	require.NoError(t, err)

	assert.Equal(t,
		[]string{"multi-user.target", "default.target", "graphical.target"},
		f.Values("Install", "WantedBy"))
	assert.Equal(t, []string{"web.target"}, f.Values("Install", "RequiredBy"))
	assert.Nil(t, f.Values("Install", "UpheldBy"))
}
