package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError(t *testing.T) {
	t.Run("Should map kinds to status codes", func(t *testing.T) {
		assert.Equal(t, http.StatusBadRequest, Validation("bad").Status())
		assert.Equal(t, http.StatusBadRequest, NotFound("missing").Status())
		assert.Equal(t, http.StatusInternalServerError, Storage("db", errors.New("boom")).Status())
	})

	t.Run("Should keep driver text out of the message", func(t *testing.T) {
		cause := errors.New("SQLITE_BUSY: database is locked")
		err := Storage("Error fetching drugs", cause)
		assert.Equal(t, "Error fetching drugs", err.Message)
		assert.ErrorIs(t, err, cause)
		assert.Contains(t, err.Error(), "database is locked")
	})

	t.Run("Should find wrapped errors", func(t *testing.T) {
		wrapped := fmt.Errorf("issue: %w", NotFound("Drug not found in inventory"))
		e := As(wrapped)
		assert.Equal(t, KindNotFound, e.Kind)
		assert.Equal(t, "Drug not found in inventory", e.Message)
	})

	t.Run("Should treat foreign errors as storage errors", func(t *testing.T) {
		e := As(errors.New("raw"))
		require.Equal(t, KindStorage, e.Kind)
		assert.Equal(t, "Internal Server Error", e.Message)
		assert.Equal(t, Kind(""), KindOf(nil))
	})

	t.Run("Should summarize field errors", func(t *testing.T) {
		e := Validation("", FieldError{Field: "quantity", Error: "must be a whole number"}, FieldError{Field: "price", Error: "is required"})
		assert.Equal(t, "Validation failed: quantity must be a whole number; price is required", e.Message)
		assert.Len(t, e.Fields, 2)
	})
}
