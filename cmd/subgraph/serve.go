package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"

	"github.com/psidex/subgraph/internal/config"
	"github.com/psidex/subgraph/internal/framesvc"
	"github.com/psidex/subgraph/internal/live"
	"github.com/psidex/subgraph/internal/ui"
)

func serveCmd() *cobra.Command {
	var (
		address     string
		grpcAddress string
		watch       bool
	)

	cmd := &cobra.Command{
		Use:   "serve [file]",
		Short: "Serve the live viewer, which streams the layout over a websocket as it settles",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			if len(args) == 1 {
				cfg.Data = args[0]
			}
			if cmd.Flags().Changed("address") {
				cfg.Serve.Address = address
			}
			if cmd.Flags().Changed("grpc-address") {
				cfg.Serve.GRPCAddress = grpcAddress
			}
			if cmd.Flags().Changed("watch") {
				cfg.Serve.Watch = watch
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid config: %w", err)
			}

			data, err := (&queryFlags{}).loadData(cfg.Data)
			if err != nil {
				return err
			}

			srv := live.NewServer(cfg.Live(logger), data, nil)
			defer srv.Close()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			var gs *grpc.Server
			if cfg.Serve.GRPCAddress != "" {
				lis, err := net.Listen("tcp", cfg.Serve.GRPCAddress)
				if err != nil {
					return fmt.Errorf("grpc listen: %w", err)
				}
				gs = grpc.NewServer()
				framesvc.RegisterFramesServer(gs, framesvc.NewServer(logger, srv.Hub()))
				go func() {
					if err := gs.Serve(lis); err != nil {
						logger.Error("grpc server stopped", "err", err)
					}
				}()
			}

			if cfg.Serve.Watch {
				w := live.NewDataWatcher(cfg.Data, srv).WithDebounce(cfg.Serve.Debounce.Duration)
				go func() {
					if err := w.Watch(ctx); err != nil {
						logger.Error("data watcher stopped", "err", err)
					}
				}()
			}

			httpServer := &http.Server{
				Addr:              cfg.Serve.Address,
				Handler:           srv.Router(),
				ReadHeaderTimeout: 10 * time.Second,
				IdleTimeout:       120 * time.Second,
			}

			go func() {
				<-ctx.Done()
				fmt.Fprintln(os.Stderr, "\nShutting down server...")
				srv.Close()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = httpServer.Shutdown(shutdownCtx)
				if gs != nil {
					gs.GracefulStop()
				}
			}()

			printServing(cfg, len(data.Nodes), len(data.Links))
			if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&address, "address", "a", "", "ip:port for the viewer, overrides serve.address")
	cmd.Flags().StringVar(&grpcAddress, "grpc-address", "", "ip:port for the frame stream, empty turns it off")
	cmd.Flags().BoolVar(&watch, "watch", false, "reload the data file when it changes")
	return cmd
}

func printServing(cfg *config.Config, nodes, links int) {
	ui.Banner(os.Stderr, "live viewer v"+version)
	rows := [][]string{
		{"data", fmt.Sprintf("%s (%d nodes, %d links)", cfg.Data, nodes, links)},
	}
	if u, err := config.PageURL(cfg.Serve.Address, ""); err == nil {
		rows = append(rows, []string{"viewer", ui.Info.Sprint(u)})
	}
	if cfg.Serve.GRPCAddress != "" {
		if a, err := config.DialAddress(cfg.Serve.GRPCAddress); err == nil {
			rows = append(rows, []string{"frames", a})
		}
	}
	if cfg.Serve.Watch {
		rows = append(rows, []string{"watching", cfg.Data})
	}
	ui.Table(os.Stderr, []string{"", ""}, rows)
}
