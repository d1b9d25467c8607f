package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/AzielCF/watercooler-fc/core/config"
	domainProvider "github.com/AzielCF/watercooler-fc/domains/provider"
	"github.com/AzielCF/watercooler-fc/validations"
	"github.com/spf13/cobra"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Provider, credential and favorite team settings",
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current settings",
	Run: func(cmd *cobra.Command, _ []string) {
		ctx := cmd.Context()
		active := registryUsecase.GetActiveProvider(ctx)

		settings := config.GetAllSettings()
		settings["active_provider"] = string(active)
		settings["favorite_team"] = registryUsecase.GetFavoriteTeam(ctx)
		for _, p := range domainProvider.All {
			key, ok := registryUsecase.GetCredential(ctx, p)
			state := "not set"
			if ok {
				state = config.MaskSecret(key)
			}
			if p.ExternallyConfigured() {
				state += " (environment)"
			}
			settings[string(p)+"_credential"] = state
		}

		if flagJSON {
			printJSON(settings)
			return
		}

		keys := make([]string, 0, len(settings))
		for k := range settings {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		rows := make([][]string, 0, len(keys))
		for _, k := range keys {
			rows = append(rows, []string{k, fmt.Sprint(settings[k])})
		}
		fmt.Println(renderTable([]string{"Setting", "Value"}, rows, nil))
	},
}

var settingsProviderCmd = &cobra.Command{
	Use:   "provider [gemini|openai]",
	Short: "Show or switch the active AI provider",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if len(args) == 0 {
			fmt.Println(registryUsecase.GetActiveProvider(ctx).DisplayName())
			return nil
		}
		p, err := validations.ValidateProvider(ctx, args[0])
		if err != nil {
			return err
		}
		if err := registryUsecase.SetActiveProvider(ctx, p); err != nil {
			return err
		}
		fmt.Printf("Active provider: %s\n", p.DisplayName())
		if _, ok := registryUsecase.GetCredential(ctx, p); !ok {
			fmt.Printf("No API key configured for %s yet.\n", p.DisplayName())
		}
		return nil
	},
}

var settingsCredentialCmd = &cobra.Command{
	Use:   "credential <provider> [key]",
	Short: "Store or clear the API key of a provider",
	Long:  "Store the API key of a provider. Omit the key to clear it. The Gemini key always comes from GEMINI_API_KEY and cannot be changed here.",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		p, err := validations.ValidateProvider(ctx, args[0])
		if err != nil {
			return err
		}
		if p.ExternallyConfigured() {
			fmt.Printf("%s uses the key from the deployment environment, nothing changed.\n", p.DisplayName())
		}
		value := ""
		if len(args) == 2 {
			value = args[1]
		}
		if err := registryUsecase.SetCredential(ctx, p, value); err != nil {
			return err
		}
		if !p.ExternallyConfigured() {
			if strings.TrimSpace(value) == "" {
				fmt.Printf("%s API key cleared.\n", p.DisplayName())
			} else {
				fmt.Printf("%s API key saved.\n", p.DisplayName())
			}
		}
		return nil
	},
}

var settingsFavoriteCmd = &cobra.Command{
	Use:   "favorite [team]",
	Short: "Show or change the favorite team",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		team := strings.TrimSpace(strings.Join(args, " "))
		if team == "" {
			fmt.Println(registryUsecase.GetFavoriteTeam(ctx))
			return nil
		}
		if err := validations.ValidateTeamName(ctx, team); err != nil {
			return err
		}
		if err := registryUsecase.SetFavoriteTeam(ctx, team); err != nil {
			return err
		}
		fmt.Printf("Favorite team: %s\n", team)
		return nil
	},
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd, settingsProviderCmd, settingsCredentialCmd, settingsFavoriteCmd)
	rootCmd.AddCommand(settingsCmd)
}
