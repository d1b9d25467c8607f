package usecase

import (
	"context"
	"strings"

	domainFootball "github.com/AzielCF/watercooler-fc/domains/football"
	domainProvider "github.com/AzielCF/watercooler-fc/domains/provider"
	domainStorage "github.com/AzielCF/watercooler-fc/domains/storage"
	"github.com/AzielCF/watercooler-fc/pkg/crypto"
	"github.com/sirupsen/logrus"
)

type registryService struct {
	store domainStorage.IStore
	// env holds credentials supplied at deployment time, keyed by provider.
	env map[domainProvider.Identity]string
}

// NewRegistryService wires the provider registry. geminiKey comes from the
// deployment environment and is never persisted.
func NewRegistryService(store domainStorage.IStore, geminiKey string) domainProvider.IRegistry {
	return &registryService{
		store: store,
		env: map[domainProvider.Identity]string{
			domainProvider.Gemini: strings.TrimSpace(geminiKey),
		},
	}
}

func credentialKey(p domainProvider.Identity) string {
	switch p {
	case domainProvider.OpenAI:
		return domainStorage.KeyOpenAICredential
	}
	return "watercooler-fc-" + string(p) + "-api-key"
}

func (r *registryService) GetActiveProvider(ctx context.Context) domainProvider.Identity {
	raw, ok, err := r.store.Get(ctx, domainStorage.KeyActiveProvider)
	if err != nil {
		logrus.WithError(err).Warn("[REGISTRY] Could not read active provider, using default")
		return domainProvider.Default
	}
	if !ok {
		return domainProvider.Default
	}
	p, valid := domainProvider.ParseIdentity(raw)
	if !valid {
		logrus.Warnf("[REGISTRY] Ignoring unknown stored provider %q", raw)
		return domainProvider.Default
	}
	return p
}

func (r *registryService) SetActiveProvider(ctx context.Context, p domainProvider.Identity) error {
	if err := r.store.Set(ctx, domainStorage.KeyActiveProvider, string(p)); err != nil {
		return err
	}
	logrus.Infof("[REGISTRY] Active provider set to %s", p.DisplayName())
	return nil
}

func (r *registryService) GetCredential(ctx context.Context, p domainProvider.Identity) (string, bool) {
	if p.ExternallyConfigured() {
		v := r.env[p]
		return v, v != ""
	}

	raw, ok, err := r.store.Get(ctx, credentialKey(p))
	if err != nil {
		logrus.WithError(err).Warnf("[REGISTRY] Could not read %s credential", p.DisplayName())
		return "", false
	}
	if !ok || raw == "" {
		return "", false
	}
	plain, err := crypto.Decrypt(raw)
	if err != nil {
		logrus.WithError(err).Errorf("[REGISTRY] Stored %s credential cannot be decrypted", p.DisplayName())
		return "", false
	}
	return plain, plain != ""
}

func (r *registryService) SetCredential(ctx context.Context, p domainProvider.Identity, value string) error {
	if p.ExternallyConfigured() {
		logrus.Warnf("[REGISTRY] %s credential comes from the deployment environment and cannot be changed here", p.DisplayName())
		return nil
	}

	value = strings.TrimSpace(value)
	if value == "" {
		logrus.Infof("[REGISTRY] Clearing %s credential", p.DisplayName())
		return r.store.Delete(ctx, credentialKey(p))
	}

	sealed, err := crypto.Encrypt(value)
	if err != nil {
		return err
	}
	if !crypto.Enabled() {
		logrus.Warn("[REGISTRY] APP_SECRET_KEY not set, credential stored unencrypted")
	}
	return r.store.Set(ctx, credentialKey(p), sealed)
}

func (r *registryService) GetActiveCredential(ctx context.Context) (string, bool) {
	return r.GetCredential(ctx, r.GetActiveProvider(ctx))
}

func (r *registryService) GetFavoriteTeam(ctx context.Context) string {
	raw, ok, err := r.store.Get(ctx, domainStorage.KeyFavoriteTeam)
	if err != nil || !ok || strings.TrimSpace(raw) == "" {
		return domainFootball.DefaultFavoriteTeam
	}
	return strings.TrimSpace(raw)
}

func (r *registryService) SetFavoriteTeam(ctx context.Context, team string) error {
	team = strings.TrimSpace(team)
	if team == "" {
		return r.store.Delete(ctx, domainStorage.KeyFavoriteTeam)
	}
	return r.store.Set(ctx, domainStorage.KeyFavoriteTeam, team)
}
