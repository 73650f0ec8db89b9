package testdb

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetTestDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("FISZKI_TEST_DB_URL", "")
	assert.False(t, IsIntegrationTestEnvironment())

	t.Setenv("FISZKI_TEST_DB_URL", "postgres://fallback/db")
	assert.Equal(t, "postgres://fallback/db", GetTestDatabaseURL())

	t.Setenv("DATABASE_URL", "postgres://primary/db")
	assert.Equal(t, "postgres://primary/db", GetTestDatabaseURL())
	assert.True(t, IsIntegrationTestEnvironment())
}
