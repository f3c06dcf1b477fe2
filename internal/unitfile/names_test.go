package unitfile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDerivedUnitName(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name    string
		derived string
		ok      bool
	}{
		{"web.container", "web.service", true},
		{"stack.pod", "stack-pod.service", true},
		{"app.kube", "app-kube.service", true},
		{"backend.network", "backend-network.service", true},
		{"data.volume", "data-volume.service", true},
		{"base.image", "base-image.service", true},
		{"app.build", "app-build.service", true},
		{"web.target", "web.target", true},
		{"api.socket", "api.socket", true},
		{"job.timer", "job.timer", true},
		{"plain.service", "plain.service", true},
		{"stack.multiquadlet", "", false},
		{"README.md", "", false},
	}

	for _, tc := range cases {
		derived, ok := DerivedUnitName(tc.name)
		assert.Equal(t, tc.ok, ok, tc.name)
		assert.Equal(t, tc.derived, derived, tc.name)
	}
}

func TestClassifiers(t *testing.T) {
	t.Parallel()
	assert.True(t, IsQuadletSource("web.container"))
	assert.True(t, IsQuadletSource("data.volume"))
	assert.False(t, IsQuadletSource("web.target"))

	assert.True(t, IsTopLevelUnit("web.target"))
	assert.True(t, IsTopLevelUnit("job.timer"))
	assert.False(t, IsTopLevelUnit("web.container"))

	assert.True(t, IsComposite("stack.multiquadlet"))
	assert.False(t, IsComposite("web.container"))
}
