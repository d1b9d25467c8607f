package validations

import (
	"context"

	domainFootball "github.com/AzielCF/watercooler-fc/domains/football"
	domainProvider "github.com/AzielCF/watercooler-fc/domains/provider"
	pkgError "github.com/AzielCF/watercooler-fc/pkg/error"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

func wordCountRule() validation.Rule {
	allowed := make([]interface{}, 0, len(domainFootball.WordCounts))
	for _, wc := range domainFootball.WordCounts {
		allowed = append(allowed, wc)
	}
	return validation.In(allowed...).Error("must be one of 75, 150 or 250")
}

func ValidateSummaryRequest(ctx context.Context, request domainFootball.SummaryRequest) error {
	err := validation.ValidateStructWithContext(ctx, &request,
		validation.Field(&request.TopicID, validation.Required, validation.Length(1, 120)),
		validation.Field(&request.Query, validation.Required, validation.Length(1, 500)),
		validation.Field(&request.WordCount, validation.Required, wordCountRule()),
	)

	if err != nil {
		return pkgError.ValidationError(err.Error())
	}

	return nil
}

func ValidateTeamName(ctx context.Context, teamName string) error {
	err := validation.ValidateWithContext(ctx, teamName,
		validation.Required.Error("team name cannot be blank"),
		validation.Length(1, 80),
	)
	if err != nil {
		return pkgError.ValidationError("team: " + err.Error())
	}
	return nil
}

func ValidateQuoteTone(ctx context.Context, tone string) error {
	if err := validation.ValidateWithContext(ctx, tone, validation.Length(0, 120)); err != nil {
		return pkgError.ValidationError("tone: " + err.Error())
	}
	return nil
}

func ValidateProvider(ctx context.Context, raw string) (domainProvider.Identity, error) {
	err := validation.ValidateWithContext(ctx, raw,
		validation.Required.Error("provider cannot be blank"),
		validation.By(func(value interface{}) error {
			if _, ok := domainProvider.ParseIdentity(value.(string)); !ok {
				return validation.NewError("validation_provider_unknown", "must be gemini or openai")
			}
			return nil
		}),
	)
	if err != nil {
		return "", pkgError.ValidationError("provider: " + err.Error())
	}
	p, _ := domainProvider.ParseIdentity(raw)
	return p, nil
}
