package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show server, identity, and task status",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newCLIApp()
			if err != nil {
				return err
			}
			defer app.close()

			fmt.Printf("Server:   %s (%s)\n", app.monitor.ProbeNow(), app.cfg.APIBaseURL)

			if identity := app.orchestrator.Identity(); identity != nil {
				fmt.Printf("Twitter:  @%s (%s)\n", identity.Username, identity.DisplayName)
			} else {
				fmt.Println("Twitter:  not connected")
			}

			fmt.Println("\nTasks:")
			for _, task := range app.orchestrator.Tasks() {
				fmt.Printf("  %s %-15s %+6d  %s\n",
					task.Icon,
					task.Name,
					task.Reward,
					app.orchestrator.Status(task.Name),
				)
			}

			done, total := app.orchestrator.Progress()
			fmt.Printf("\nProgress: %d/%d tasks completed\n", done, total)
			return nil
		},
	}
}
