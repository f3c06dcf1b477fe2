package provenance

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rewriteFixture(t *testing.T, content, sourcePath string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "web.service")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	require.NoError(t, Rewrite(path, sourcePath))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestRewrite_ReplacesExistingSourcePath(t *testing.T) {
	t.Parallel()
	got := rewriteFixture(t, `# Automatically generated by multiquadlet-generator from stack.multiquadlet
[Unit]
Description=Web server
SourcePath=/run/multiquadlet-generated/input/web.container
Wants=network-online.target

[Service]
ExecStart=/usr/bin/true
`, "/etc/containers/multiquadlet/stack.multiquadlet")

	assert.Equal(t, `# Automatically generated by multiquadlet-generator from stack.multiquadlet
[Unit]
Description=Web server
SourcePath=/etc/containers/multiquadlet/stack.multiquadlet
Wants=network-online.target

[Service]
ExecStart=/usr/bin/true
`, got)
}

func TestRewrite_InsertsAfterUnitHeader(t *testing.T) {
	t.Parallel()
	got := rewriteFixture(t, `[Unit]
Description=Web server

[Service]
ExecStart=/usr/bin/true
`, "/etc/containers/multiquadlet/web.container")

	assert.Equal(t, `[Unit]
SourcePath=/etc/containers/multiquadlet/web.container
Description=Web server

[Service]
ExecStart=/usr/bin/true
`, got)
}

func TestRewrite_NoUnitSection(t *testing.T) {
	t.Parallel()
	got := rewriteFixture(t, `[Service]
ExecStart=/usr/bin/true
`, "/etc/containers/multiquadlet/web.container")

	assert.True(t, strings.HasPrefix(got, "[Unit]\nSourcePath=/etc/containers/multiquadlet/web.container\n"))
	assert.Contains(t, got, "[Service]\nExecStart=/usr/bin/true\n")
}

func TestRewrite_ExactlyOneSourcePathLine(t *testing.T) {
	t.Parallel()
	got := rewriteFixture(t, `[Unit]
SourcePath=/tmp/staged/web.container
Description=Web server
`, "/etc/containers/multiquadlet/web.container")

	assert.Equal(t, 1, strings.Count(got, "SourcePath="))
	assert.Contains(t, got, "SourcePath=/etc/containers/multiquadlet/web.container\n")
}

func TestRewrite_IgnoresSourcePathOutsideUnitSection(t *testing.T) {
	t.Parallel()
	got := rewriteFixture(t, `[X-Custom]
SourcePath=/somewhere/else

[Unit]
Description=Web server
`, "/etc/containers/multiquadlet/web.container")

	assert.Contains(t, got, "[X-Custom]\nSourcePath=/somewhere/else\n")
	assert.Contains(t, got, "[Unit]\nSourcePath=/etc/containers/multiquadlet/web.container\nDescription=Web server\n")
}

func TestRewrite_MissingFile(t *testing.T) {
	t.Parallel()
	err := Rewrite(filepath.Join(t.TempDir(), "absent.service"), "/etc/x")
	require.Error(t, err)
}
