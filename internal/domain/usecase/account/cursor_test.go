package account

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/loomapp/credit-ledger/internal/domain/entity"
	errs "github.com/loomapp/credit-ledger/internal/domain/error"
)

func TestCursorRoundTrip(t *testing.T) {
	createdAt := time.Date(2025, 3, 1, 12, 0, 0, 123456789, time.UTC)
	txn := &entity.Transaction{ID: "txn-1", CreatedAt: createdAt}

	cursor := EncodeCursor(txn)
	assert.NotEmpty(t, cursor)

	pos, err := DecodeCursor(cursor)
	assert.NoError(t, err)
	assert.Equal(t, "txn-1", pos.ID)
	assert.True(t, pos.CreatedAt.Equal(createdAt))
}

func TestDecodeCursor(t *testing.T) {
	t.Run("empty cursor means start from the head", func(t *testing.T) {
		pos, err := DecodeCursor("")
		assert.NoError(t, err)
		assert.Nil(t, pos)
	})

	t.Run("rejects malformed base64", func(t *testing.T) {
		_, err := DecodeCursor("not base64!!")
		assert.ErrorIs(t, err, errs.ErrInvalidCursor)
	})

	t.Run("rejects cursor without separator", func(t *testing.T) {
		_, err := DecodeCursor("MTIzNDU2Nzg5")
		assert.ErrorIs(t, err, errs.ErrInvalidCursor)
	})

	t.Run("rejects cursor with non-numeric timestamp", func(t *testing.T) {
		// base64url("abc:txn-1")
		_, err := DecodeCursor("YWJjOnR4bi0x")
		assert.ErrorIs(t, err, errs.ErrInvalidCursor)
	})

	t.Run("rejects cursor with empty id", func(t *testing.T) {
		// base64url("123:")
		_, err := DecodeCursor("MTIzOg")
		assert.ErrorIs(t, err, errs.ErrInvalidCursor)
	})
}
