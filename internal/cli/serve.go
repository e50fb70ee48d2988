package cli

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/AlexZinkM/offline-signer/internal/api"
	"github.com/AlexZinkM/offline-signer/internal/errs"
	"github.com/AlexZinkM/offline-signer/internal/handler"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 5 * time.Second
)

func newServeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the local HTTP API and Swagger UI",
		Long: `Serve the local HTTP API on PORT.

The API lists keys, generates keys, previews artifacts and verifies signatures.
It never signs: signing is an interactive command on the offline machine.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			password, err := a.vaultPassword(cmd)
			if err != nil {
				return err
			}
			defer clear(password)

			if password != nil {
				ok, err := a.vault.VerifyPassword(password)
				if err != nil {
					return err
				}
				if !ok {
					return errs.New(errs.InvalidPassword, "invalid vault password")
				}
			}

			var source handler.PasswordSource
			if password != nil {
				source = func() ([]byte, error) {
					return append([]byte(nil), password...), nil
				}
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			srv := &http.Server{
				Addr:              ":" + a.cfg.Port,
				Handler:           api.SetupRouter(a.vault, source),
				ReadHeaderTimeout: readHeaderTimeout,
			}

			errCh := make(chan error, 1)
			go func() {
				log.Info().Str("addr", srv.Addr).Str("vault", a.vault.Root()).Msg("Starting HTTP server")
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			case <-ctx.Done():
			}

			log.Info().Msg("Shutting down HTTP server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
}
