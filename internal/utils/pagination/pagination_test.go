package pagination_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oggyb/linkup/internal/utils/pagination"
)

func TestNewPageNormalizes(t *testing.T) {
	pg := pagination.NewPage(0, -5, 20, 45)
	assert.Equal(t, 1, pg.Page)
	assert.Equal(t, 20, pg.Limit)
	assert.Equal(t, int64(45), pg.Total)
	assert.Equal(t, 3, pg.TotalPages)
	assert.Equal(t, 0, pg.Offset())
}

func TestNewPageExactMultiple(t *testing.T) {
	pg := pagination.NewPage(2, 10, 20, 40)
	assert.Equal(t, 4, pg.TotalPages)
	assert.Equal(t, 10, pg.Offset())
}

func TestNewPageEmptyTotal(t *testing.T) {
	pg := pagination.NewPage(1, 10, 20, 0)
	assert.Equal(t, 0, pg.TotalPages)
}

func TestCursorRoundTrip(t *testing.T) {
	token, err := pagination.Encode(pagination.Cursor{MatchID: 42, UpdatedUnix: 1700000000000})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	cursor, err := pagination.Decode(token)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), cursor.MatchID)
	assert.Equal(t, int64(1700000000000), cursor.UpdatedUnix)
}

func TestDecodeEmptyTokenIsZeroCursor(t *testing.T) {
	cursor, err := pagination.Decode("")
	require.NoError(t, err)
	assert.Zero(t, cursor.MatchID)
}

func TestDecodeGarbageFails(t *testing.T) {
	_, err := pagination.Decode("not-base64!!")
	require.Error(t, err)
}
