package registration

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgckd/hc-self-service-portal/internal/sheets"
	dErrors "github.com/rgckd/hc-self-service-portal/pkg/domain-errors"
)

const listURL = "https://docs.google.com/spreadsheets/d/list-1_A/edit#gid=0"

func newResolver(t *testing.T) (*Resolver, *sheets.MemorySource) {
	t.Helper()
	source := sheets.NewMemorySource()
	source.SetSheet("list-1_A", [][]string{
		{"Email", "Name"},
		{"x@y.com", "X"},
		{" Padded@Example.COM ", "P"},
	})
	return NewResolver(source, slog.Default()), source
}

func TestIsRegisteredMatch(t *testing.T) {
	resolver, _ := newResolver(t)

	ok, err := resolver.IsRegistered(context.Background(), listURL, "x@y.com")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestIsRegisteredCaseAndWhitespaceInsensitive(t *testing.T) {
	resolver, _ := newResolver(t)

	ok, err := resolver.IsRegistered(context.Background(), listURL, "  X@Y.COM ")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = resolver.IsRegistered(context.Background(), listURL, "padded@example.com")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestIsRegisteredSkipsHeaderRow(t *testing.T) {
	resolver, _ := newResolver(t)

	// "Email" sits in the header row only; it must not count as registered.
	ok, err := resolver.IsRegistered(context.Background(), listURL, "email")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestIsRegisteredNoMatch(t *testing.T) {
	resolver, _ := newResolver(t)

	ok, err := resolver.IsRegistered(context.Background(), listURL, "z@y.com")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestIsRegisteredInvalidReference(t *testing.T) {
	resolver, _ := newResolver(t)

	_, err := resolver.IsRegistered(context.Background(), "https://example.com/not-a-sheet", "x@y.com")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidReference))
}

func TestIsRegisteredFetchFailureDegradesToFalse(t *testing.T) {
	resolver, _ := newResolver(t)

	ok, err := resolver.IsRegistered(context.Background(),
		"https://docs.google.com/spreadsheets/d/unknown-id/edit", "x@y.com")
	require.NoError(t, err)
	assert.False(t, ok)
}
