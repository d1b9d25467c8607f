package cmd

import (
	"fmt"

	domainProvider "github.com/AzielCF/watercooler-fc/domains/provider"
	"github.com/spf13/cobra"
)

var cooldownCmd = &cobra.Command{
	Use:   "cooldown",
	Short: "Rate limit cooldown and daily limit state",
}

var cooldownStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the remaining cooldown and daily limits",
	Run: func(cmd *cobra.Command, _ []string) {
		ctx := cmd.Context()
		remaining := guardUsecase.Remaining(ctx)
		daily := map[string]bool{}
		for _, p := range domainProvider.All {
			daily[string(p)] = guardUsecase.IsDailyLimited(ctx, p)
		}

		if flagJSON {
			printJSON(map[string]any{"remaining_seconds": remaining, "daily_limited": daily})
			return
		}

		if remaining > 0 {
			fmt.Printf("Cooling down, %ds left\n", remaining)
		} else {
			fmt.Println("No cooldown active")
		}
		for _, p := range domainProvider.All {
			if daily[string(p)] {
				fmt.Printf("%s reached its daily limit, try again tomorrow\n", p.DisplayName())
			}
		}
	},
}

var cooldownWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Count down until requests are allowed again",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return guardUsecase.Watch(cmd.Context(), func(remaining int) {
			if remaining == 0 {
				fmt.Println("Ready")
				return
			}
			fmt.Printf("Please wait %ds...\n", remaining)
		})
	},
}

var cooldownResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear the cooldown and daily limit markers",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := guardUsecase.Reset(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("Cooldown cleared")
		return nil
	},
}

func init() {
	cooldownCmd.AddCommand(cooldownStatusCmd, cooldownWatchCmd, cooldownResetCmd)
	rootCmd.AddCommand(cooldownCmd)
}
