package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapdb/pkg/debug"
)

// NewDebugCommand creates the debug command.
func NewDebugCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "debug",
		Short: "Open a procedural-language debug session",
		Long: `Attach a debugger listener to the connection and keep it open until
interrupted. The printed session id identifies the listener to debugging
clients. Only dialects with a registered debug controller are supported.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx := NewCommandContext(cmd)
			conn, cleanup, err := cmdCtx.Connect(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			db := conn.Handle()
			if db == nil {
				return fmt.Errorf("connection %s has no SQL handle", conn.Name)
			}
			ctrl, err := debug.NewController(conn.Adapter.Dialect().Name, db, cmdCtx.Logger)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			session, err := ctrl.Attach(ctx)
			if err != nil {
				return err
			}
			cmdCtx.Renderer.Printf("%d\n", session)
			cmdCtx.Renderer.Notice("debug session %d attached; press Ctrl-C to detach", session)

			<-ctx.Done()
			if err := ctrl.Detach(context.WithoutCancel(ctx)); err != nil {
				return err
			}
			cmdCtx.Renderer.Success("debug session %d detached", session)
			return nil
		},
	}
}
