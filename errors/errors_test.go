package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSentinelWrapping(t *testing.T) {
	err := Wrap(ErrConfiguration, "last-name table missing")
	assert.True(t, IsConfigurationError(err))
	assert.False(t, IsEmptyTableError(err))
	assert.False(t, IsDomainError(err))

	err = Wrapf(ErrEmptyTable, "first names for %s/%s", "1950s", "female")
	assert.True(t, IsEmptyTableError(err))
	assert.Contains(t, err.Error(), "1950s")
}

func TestNewConfigurationError(t *testing.T) {
	err := NewConfigurationError("could not find %s or %s", "last_names.csv", "last_name.csv")
	assert.True(t, IsConfigurationError(err))
	assert.Contains(t, err.Error(), "last_names.csv")
	assert.Contains(t, err.Error(), "last_name.csv")
}

func TestNewDomainError(t *testing.T) {
	err := NewDomainError("negative age %d", -3)
	assert.True(t, IsDomainError(err))
	assert.Contains(t, err.Error(), "-3")
}

func TestIsHelpersNilSafe(t *testing.T) {
	assert.False(t, IsConfigurationError(nil))
	assert.False(t, IsEmptyTableError(nil))
	assert.False(t, IsDomainError(nil))
}

func TestHintsSurviveWrapping(t *testing.T) {
	err := WithHint(Wrap(ErrConfiguration, "bad rate table"), "check the data directory path")
	hints := GetAllHints(err)
	assert.Len(t, hints, 1)
	assert.True(t, IsConfigurationError(err))
}
