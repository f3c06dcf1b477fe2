package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExitCode(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 0, ExitCode(nil))
	assert.Equal(t, 1, ExitCode(NewConfigurationError("XDG_RUNTIME_DIR", "not set", nil)))
	assert.Equal(t, 3, ExitCode(NewGeneratorError("/usr/lib/systemd/system-generators/podman-system-generator", 3, "", nil)))
	assert.Equal(t, 1, ExitCode(errors.New("plain")))
}

func TestExitCode_WrappedGeneratorError(t *testing.T) {
	t.Parallel()
	err := fmt.Errorf("run failed: %w", NewGeneratorError("/gen", 7, "", nil))
	assert.Equal(t, 7, ExitCode(err))
}

func TestErrorMessagesNameTheResource(t *testing.T) {
	t.Parallel()
	assert.Contains(t,
		NewConfigurationError("/run/multiquadlet-generated", "cannot purge staging area", nil).Error(),
		"/run/multiquadlet-generated")
	assert.Contains(t,
		NewSourceError("/etc/containers/multiquadlet/stack.multiquadlet", "duplicate segment name", nil).Error(),
		"stack.multiquadlet")
	assert.Contains(t, NewUnitError("web.service", "destination exists", nil).Error(), "web.service")
}

func TestUnwrap(t *testing.T) {
	t.Parallel()
	cause := errors.New("permission denied")
	assert.ErrorIs(t, NewUnitError("web.service", "cannot create symlink", cause), cause)
	assert.ErrorIs(t, NewSourceError("stack.multiquadlet", "cannot read", cause), cause)
	assert.ErrorIs(t, NewGeneratorError("/gen", 1, "", cause), cause)
	assert.ErrorIs(t, NewConfigurationError("/etc", "broken", cause), cause)
}
