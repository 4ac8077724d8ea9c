package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	authadapter "github.com/bnema/pcg-autocatch/internal/adapters/auth"
	"github.com/bnema/pcg-autocatch/internal/application"
	"github.com/bnema/pcg-autocatch/internal/domain"
	"github.com/spf13/cobra"
)

var authSecretKeys = []string{
	application.SecretChatUsername,
	application.SecretChatOAuth,
	application.SecretGameToken,
}

func newAuthCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage chat and game credentials",
	}

	cmd.AddCommand(newAuthLoginCmd(app), newAuthSetCmd(app), newAuthStatusCmd(app), newAuthRemoveCmd(app))

	return cmd
}

func newAuthLoginCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Authorize the chat account with a device code",
		RunE: func(cmd *cobra.Command, _ []string) error {
			clientID := strings.TrimSpace(app.cfg.GetString(keyAuthClientID))
			if clientID == "" {
				return errClientIDMissing
			}

			flow := authadapter.DeviceFlowAdapter{API: authadapter.DefaultAPI(), HTTPClient: app.httpClient}
			var creds domain.ChatCredentials
			err := runWaitSpinner(cmd.Context(), cmd.ErrOrStderr(), "Requesting device code...", func(ctx context.Context, relabel func(string)) error {
				var err error
				creds, err = flow.ChatCredentials(ctx, clientID, func(code authadapter.DeviceCodeResult) {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Open %s and enter code %s\n", code.VerificationURL, code.UserCode)
					relabel("Waiting for authorization...")
				})
				return err
			})
			if err != nil {
				return fmt.Errorf("device login: %w", err)
			}

			if err := saveChatCredentials(cmd.Context(), app, creds); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Authenticated chat account %s\n", creds.Username)
			return nil
		},
	}
}

func newAuthSetCmd(app *app) *cobra.Command {
	var username string
	var oauthToken string
	var gameToken string

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Store chat credentials or a game token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if username != "" {
				creds := domain.NewChatCredentials(username, oauthToken)
				if err := saveChatCredentials(cmd.Context(), app, creds); err != nil {
					return err
				}
			}

			if gameToken != "" {
				token, err := authadapter.NewGameTokenParser().ParseGameToken(gameToken)
				if err != nil {
					return err
				}
				if err := app.secretStore.Put(cmd.Context(), application.SecretGameToken, token.Value); err != nil {
					return fmt.Errorf("save game token: %w", err)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Chat login name")
	cmd.Flags().StringVar(&oauthToken, "oauth", "", "Chat OAuth token (oauth: prefix optional)")
	cmd.Flags().StringVar(&gameToken, "game-token", "", "Game API bearer token")
	cmd.MarkFlagsRequiredTogether("username", "oauth")
	cmd.MarkFlagsOneRequired("username", "game-token")

	return cmd
}

func newAuthStatusCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show which credentials are stored",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			username, err := lookupSecret(ctx, app, application.SecretChatUsername)
			if err != nil {
				return err
			}
			oauthToken, err := lookupSecret(ctx, app, application.SecretChatOAuth)
			if err != nil {
				return err
			}
			switch {
			case username != "" && oauthToken != "":
				_, _ = fmt.Fprintf(out, "chat: %s\n", username)
			default:
				_, _ = fmt.Fprintln(out, "chat: not stored (browser login on run)")
			}

			raw, err := lookupSecret(ctx, app, application.SecretGameToken)
			if err != nil {
				return err
			}
			if raw == "" {
				_, _ = fmt.Fprintln(out, "game token: not stored (captured on run)")
				return nil
			}
			token, err := authadapter.NewGameTokenParser().ParseGameToken(raw)
			if err != nil {
				_, _ = fmt.Fprintf(out, "game token: unusable (%v)\n", err)
				return nil
			}
			state := "valid"
			if token.ExpiresWithin(app.now(), domain.TokenRefreshWindow) {
				state = "expiring"
			}
			_, _ = fmt.Fprintf(out, "game token: %s for user %s until %s\n", state, token.SubjectID, token.ExpiresAt.Local().Format("2006-01-02 15:04"))
			return nil
		},
	}
}

func newAuthRemoveCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "remove",
		Short: "Remove stored chat credentials and game token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var errs []error
			for _, key := range authSecretKeys {
				if err := app.secretStore.Delete(cmd.Context(), key); err != nil {
					errs = append(errs, err)
				}
			}
			return errors.Join(errs...)
		},
	}
}

func saveChatCredentials(ctx context.Context, app *app, creds domain.ChatCredentials) error {
	if creds.Empty() {
		return errors.New("chat credentials need both a username and a token")
	}
	if err := app.secretStore.Put(ctx, application.SecretChatUsername, creds.Username); err != nil {
		return fmt.Errorf("save chat username: %w", err)
	}
	if err := app.secretStore.Put(ctx, application.SecretChatOAuth, creds.Token); err != nil {
		return fmt.Errorf("save chat token: %w", err)
	}
	return nil
}

func lookupSecret(ctx context.Context, app *app, key string) (string, error) {
	value, err := app.secretStore.Get(ctx, key)
	switch {
	case err == nil:
		return value, nil
	case errors.Is(err, domain.ErrSecretNotFound):
		return "", nil
	default:
		return "", fmt.Errorf("read %s: %w", key, err)
	}
}
