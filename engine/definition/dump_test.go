package definition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDumpIsDeterministic(t *testing.T) {
	t.Parallel()

	a, err := DecodeMachine([]byte(locomotionYAML))
	require.NoError(t, err)
	b, err := DecodeMachine([]byte(locomotionYAML))
	require.NoError(t, err)

	out := Dump(a)
	assert.Equal(t, out, Dump(b))
	assert.Contains(t, out, "MachineDocument")
	assert.Contains(t, out, `"walking"`)
	assert.NotContains(t, out, "cap=")
	assert.NotRegexp(t, `\(0x[0-9a-f]+\)`, out, "pointer addresses are omitted")
}
