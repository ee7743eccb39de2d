package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventTypeValid(t *testing.T) {
	t.Parallel()

	for _, et := range EventTypes {
		assert.True(t, et.Valid(), string(et))
	}
	assert.False(t, EventType("warning_50").Valid())
}

func TestMetadataEnvelope(t *testing.T) {
	t.Parallel()

	b, err := MarshalMetadata(PositionLimitMeta{OpenPositions: 3, MaxConcurrentPositions: 3})
	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":"position_limit","version":1,"data":{"open_positions":3,"max_concurrent_positions":3}}`, string(b))

	m, err := UnmarshalMetadata(b)
	require.NoError(t, err)
	assert.Equal(t, PositionLimitMeta{OpenPositions: 3, MaxConcurrentPositions: 3}, m)
}

func TestMetadataNil(t *testing.T) {
	t.Parallel()

	b, err := MarshalMetadata(nil)
	require.NoError(t, err)
	assert.Equal(t, "null", string(b))

	m, err := UnmarshalMetadata(b)
	require.NoError(t, err)
	assert.Nil(t, m)
}

func TestMetadataRejectsUnknown(t *testing.T) {
	t.Parallel()

	_, err := UnmarshalMetadata([]byte(`{"kind":"mystery","version":1,"data":{}}`))
	assert.Error(t, err)

	_, err = UnmarshalMetadata([]byte(`{"kind":"correlation","version":7,"data":{}}`))
	assert.Error(t, err)
}
