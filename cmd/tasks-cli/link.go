package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agilsa/GorbyJump/internal/client/storage"
)

func linkCmd() *cobra.Command {
	var (
		redirectURL string
		sessionID   string
	)

	cmd := &cobra.Command{
		Use:   "link",
		Short: "Link a Twitter identity",
		Long: `Start the Twitter linking flow, or complete it.

Without flags, fetches the provider authorization URL. After
authorizing, the backend redirects the browser to the frontend URL
with a twitter_auth parameter; pass that full URL back via
--redirect-url to store the linked identity. The callback also sets
the session cookie in the browser; pass its value via --session so
this process can call authenticated endpoints.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newCLIApp()
			if err != nil {
				return err
			}
			defer app.close()

			if sessionID != "" {
				if err := app.store.Set(storage.KeySession, []byte(sessionID)); err != nil {
					return fmt.Errorf("store session: %w", err)
				}
				app.api.SetSession(sessionID)
			}

			if redirectURL != "" {
				if _, ok := app.orchestrator.ConsumeAuthRedirect(redirectURL); !ok {
					return fmt.Errorf("no usable twitter_auth payload in URL")
				}
				identity := app.orchestrator.Identity()
				fmt.Printf("Linked @%s (%s)\n", identity.Username, identity.DisplayName)
				return nil
			}
			if sessionID != "" {
				fmt.Println("Session stored")
				return nil
			}

			app.monitor.ProbeNow()
			return app.orchestrator.Connect(context.Background())
		},
	}

	cmd.Flags().StringVar(&redirectURL, "redirect-url", "", "Callback redirect URL containing twitter_auth")
	cmd.Flags().StringVar(&sessionID, "session", "", "Session cookie value set by the callback")

	return cmd
}

func unlinkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unlink",
		Short: "Unlink the Twitter identity and reset task progress",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newCLIApp()
			if err != nil {
				return err
			}
			defer app.close()

			app.orchestrator.Unlink(context.Background())
			fmt.Println("Twitter disconnected, task progress cleared")
			return nil
		},
	}
}
