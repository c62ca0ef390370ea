package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSupabaseDSN(t *testing.T) {
	dsn, err := BuildSupabaseDSN("https://abc.supabase.co", "secret")
	require.NoError(t, err)
	assert.Equal(t, "host=db.abc.supabase.co port=6543 user=postgres password=secret dbname=postgres sslmode=require", dsn)

	_, err = BuildSupabaseDSN("", "secret")
	assert.Error(t, err)
	_, err = BuildSupabaseDSN("https://abc.supabase.co", "")
	assert.Error(t, err)
	_, err = BuildSupabaseDSN("https://", "secret")
	assert.Error(t, err)
}
