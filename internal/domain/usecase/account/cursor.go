package account

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/loomapp/credit-ledger/internal/domain/entity"
	errs "github.com/loomapp/credit-ledger/internal/domain/error"
	"github.com/loomapp/credit-ledger/internal/domain/port/persistence"
)

// EncodeCursor derives an opaque page cursor from the last returned
// transaction's (createdAt, id) sort key
func EncodeCursor(txn *entity.Transaction) string {
	raw := fmt.Sprintf("%d:%s", txn.CreatedAt.UnixNano(), txn.ID)
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

// DecodeCursor parses a cursor produced by EncodeCursor. An empty cursor means
// "start from the newest row".
func DecodeCursor(cursor string) (*persistence.HistoryCursor, error) {
	if cursor == "" {
		return nil, nil
	}

	raw, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", errs.ErrInvalidCursor, err.Error())
	}

	nanos, id, ok := strings.Cut(string(raw), ":")
	if !ok || id == "" {
		return nil, errs.ErrInvalidCursor
	}

	n, err := strconv.ParseInt(nanos, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", errs.ErrInvalidCursor, err.Error())
	}

	return &persistence.HistoryCursor{
		CreatedAt: time.Unix(0, n).UTC(),
		ID:        id,
	}, nil
}
