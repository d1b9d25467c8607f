package usecase

import (
	"context"
	"strings"
	"testing"

	domainFootball "github.com/AzielCF/watercooler-fc/domains/football"
	domainProvider "github.com/AzielCF/watercooler-fc/domains/provider"
	domainStorage "github.com/AzielCF/watercooler-fc/domains/storage"
	"github.com/AzielCF/watercooler-fc/pkg/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_DefaultsToGemini(t *testing.T) {
	store := newFlakyStore()
	reg := NewRegistryService(store, "env-gemini-key")
	ctx := context.Background()

	assert.Equal(t, domainProvider.Gemini, reg.GetActiveProvider(ctx))

	require.NoError(t, store.Set(ctx, domainStorage.KeyActiveProvider, "claude"))
	assert.Equal(t, domainProvider.Gemini, reg.GetActiveProvider(ctx), "unknown values fall back")

	store.failGet = true
	assert.Equal(t, domainProvider.Gemini, reg.GetActiveProvider(ctx), "read errors fall back")
}

func TestRegistry_SwitchProvider(t *testing.T) {
	reg := NewRegistryService(newFlakyStore(), "env-gemini-key")
	ctx := context.Background()

	require.NoError(t, reg.SetActiveProvider(ctx, domainProvider.OpenAI))
	assert.Equal(t, domainProvider.OpenAI, reg.GetActiveProvider(ctx))

	_, ok := reg.GetActiveCredential(ctx)
	assert.False(t, ok, "no OpenAI key stored yet")

	require.NoError(t, reg.SetCredential(ctx, domainProvider.OpenAI, "  sk-test-123  "))
	key, ok := reg.GetActiveCredential(ctx)
	require.True(t, ok)
	assert.Equal(t, "sk-test-123", key)
}

// La credencial de Gemini viene del entorno y no se puede sobrescribir
func TestRegistry_GeminiCredentialIsIsolated(t *testing.T) {
	store := newFlakyStore()
	reg := NewRegistryService(store, "env-gemini-key")
	ctx := context.Background()

	require.NoError(t, reg.SetCredential(ctx, domainProvider.Gemini, "user-typed-key"))
	require.NoError(t, reg.SetCredential(ctx, domainProvider.Gemini, ""))

	key, ok := reg.GetCredential(ctx, domainProvider.Gemini)
	require.True(t, ok)
	assert.Equal(t, "env-gemini-key", key)

	keys, err := store.Keys(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, keys, "nothing is persisted for the environment provider")
}

func TestRegistry_MissingGeminiKey(t *testing.T) {
	reg := NewRegistryService(newFlakyStore(), "   ")

	_, ok := reg.GetCredential(context.Background(), domainProvider.Gemini)
	assert.False(t, ok)
}

func TestRegistry_ClearCredential(t *testing.T) {
	reg := NewRegistryService(newFlakyStore(), "")
	ctx := context.Background()

	require.NoError(t, reg.SetCredential(ctx, domainProvider.OpenAI, "sk-abc"))
	require.NoError(t, reg.SetCredential(ctx, domainProvider.OpenAI, " "))

	_, ok := reg.GetCredential(ctx, domainProvider.OpenAI)
	assert.False(t, ok)
}

func TestRegistry_CredentialEncryptedAtRest(t *testing.T) {
	crypto.SetEncryptionKey("test-secret")
	t.Cleanup(func() { crypto.SetEncryptionKey("") })

	store := newFlakyStore()
	reg := NewRegistryService(store, "")
	ctx := context.Background()

	require.NoError(t, reg.SetCredential(ctx, domainProvider.OpenAI, "sk-live-999"))

	raw, ok, err := store.Get(ctx, domainStorage.KeyOpenAICredential)
	require.NoError(t, err)
	require.True(t, ok)
	assert.NotContains(t, raw, "sk-live-999")
	assert.True(t, strings.HasPrefix(raw, "enc:v1:"))

	key, ok := reg.GetCredential(ctx, domainProvider.OpenAI)
	require.True(t, ok)
	assert.Equal(t, "sk-live-999", key)

	// sin la clave el valor sellado no se puede leer
	crypto.SetEncryptionKey("")
	_, ok = reg.GetCredential(ctx, domainProvider.OpenAI)
	assert.False(t, ok)
}

func TestRegistry_FavoriteTeam(t *testing.T) {
	reg := NewRegistryService(newFlakyStore(), "")
	ctx := context.Background()

	assert.Equal(t, domainFootball.DefaultFavoriteTeam, reg.GetFavoriteTeam(ctx))

	require.NoError(t, reg.SetFavoriteTeam(ctx, " Hibernian "))
	assert.Equal(t, "Hibernian", reg.GetFavoriteTeam(ctx))

	require.NoError(t, reg.SetFavoriteTeam(ctx, ""))
	assert.Equal(t, domainFootball.DefaultFavoriteTeam, reg.GetFavoriteTeam(ctx))
}
