package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teashop/backend/internal/domain/schedule"
)

func TestJSONList_NilIsWrittenAsEmptyArray(t *testing.T) {
	var l JSONList[uuid.UUID]
	v, err := l.Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", v)
}

func TestJSONList_ScanAcceptsBytesAndStrings(t *testing.T) {
	id := uuid.New()
	raw := `[{"id":"` + id.String() + `","type":"清潔","description":"擦桌子"}]`

	var fromBytes JSONList[schedule.Task]
	require.NoError(t, fromBytes.Scan([]byte(raw)))
	require.Len(t, fromBytes, 1)
	assert.Equal(t, id, fromBytes[0].ID)
	assert.Equal(t, schedule.TaskTypeCleaning, fromBytes[0].Type)

	var fromString JSONList[schedule.Task]
	require.NoError(t, fromString.Scan(raw))
	assert.Equal(t, fromBytes, fromString)
}

func TestJSONList_ScanNullAndGarbage(t *testing.T) {
	var l JSONList[string]
	require.NoError(t, l.Scan(nil))
	assert.NotNil(t, l)
	assert.Empty(t, l)

	require.NoError(t, l.Scan("null"))
	assert.Empty(t, l)

	assert.Error(t, l.Scan(42))
	assert.Error(t, l.Scan("{not json"))
}

func TestDateColumnsRoundTrip(t *testing.T) {
	d := schedule.DateOf(mustParse(t, "2024-03-10"))
	assert.Equal(t, "2024-03-10", formatDate(d))
	assert.Equal(t, d, parseDate("2024-03-10"))
	assert.True(t, parseDate("garbage").IsZero())
	assert.Nil(t, parseDatePtr(nil))
	assert.Nil(t, formatDatePtr(nil))
}

func mustParse(t *testing.T, s string) time.Time {
	t.Helper()
	parsed, err := schedule.ParseDate(s)
	require.NoError(t, err)
	return parsed
}
