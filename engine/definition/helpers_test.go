package definition

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/oxy-anim/engine/pose"
	"github.com/stretchr/testify/require"
)

const hip pose.NodeID = 1

func hipX(t *testing.T, p *pose.AnimationPose) float32 {
	t.Helper()
	n, ok := p.Pose(hip)
	require.True(t, ok, "hip missing from pose")
	require.True(t, n.Has(pose.BindingPosition))
	return n.Position.X()
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// holdYAML is a one second animation holding hip at the given x.
func holdYAML(name, x string) string {
	return `name: ` + name + `
loop_mode: loop
tracks:
  - target: 1
    binding: position
    vectors:
      - {time: 0, value: [` + x + `, 0, 0]}
      - {time: 1, value: [` + x + `, 0, 0]}
`
}
