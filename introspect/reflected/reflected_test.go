package reflected

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/livegraph/introspect"
)

func TestClassifyMapOrdersEntriesByKeyDeterministically(t *testing.T) {
	m := map[string]int{"zeta": 1, "alpha": 2, "mike": 3, "bravo": 4}
	ins := New()

	var firstKeys []string
	for i := 0; i < 10; i++ {
		c, err := ins.Classify(Of(m))
		require.NoError(t, err)
		keys := make([]string, len(c.OwnProps))
		for j, p := range c.OwnProps {
			keys[j] = p.Key
		}
		if i == 0 {
			firstKeys = keys
			continue
		}
		assert.Equal(t, firstKeys, keys, "map entry order must be stable across repeated classifications")
	}
	assert.Equal(t, []string{"alpha", "bravo", "mike", "zeta"}, firstKeys)
}

func TestClassifyMapNonStringKeysSortLexicographicallyByFormattedValue(t *testing.T) {
	m := map[int]string{30: "c", 10: "a", 20: "b"}
	ins := New()

	c, err := ins.Classify(Of(m))
	require.NoError(t, err)
	require.Len(t, c.OwnProps, 3)
	assert.Equal(t, []string{"10", "20", "30"}, []string{c.OwnProps[0].Key, c.OwnProps[1].Key, c.OwnProps[2].Key})
}

func TestClassifySequenceReportsEachElement(t *testing.T) {
	ins := New()
	c, err := ins.Classify(Of([]int{7, 8, 9}))
	require.NoError(t, err)
	assert.Equal(t, introspect.KindSequence, c.Kind)
	require.Len(t, c.OwnProps, 3)
	assert.Equal(t, "0", c.OwnProps[0].Key)
	assert.Equal(t, "2", c.OwnProps[2].Key)
}
