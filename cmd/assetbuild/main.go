package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/spaghettifunk/eae6320/engine/platform"
	"github.com/spaghettifunk/eae6320/tools/assetbuild"
)

const (
	modeScript = "script"
	modeCopy   = "copy"
)

func main() {
	os.Exit(run())
}

func run() int {
	exitCode := 0
	cmd := newRootCmd(&exitCode)
	if err := cmd.Execute(); err != nil {
		return 1
	}
	return exitCode
}

func newRootCmd(exitCode *int) *cobra.Command {
	var (
		mode  string
		watch bool
	)

	cmd := &cobra.Command{
		Use:   "assetbuild [--mode script|copy] [--watch] <relative-path>...",
		Short: "Builds authored assets into the files the game loads",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := log.NewWithOptions(cmd.ErrOrStderr(), log.Options{
				ReportTimestamp: true,
				TimeFormat:      time.Kitchen,
				Prefix:          "AssetBuild 🧱 ",
			})
			logger = logger.With("run", uuid.NewString())

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			files := platform.NewFileSystem(afero.NewOsFs())
			reporter := assetbuild.NewReporter(cmd.ErrOrStderr())

			var builder assetbuild.Builder
			switch mode {
			case modeScript:
				if watch {
					return eris.New("--watch needs --mode copy")
				}
				builder = assetbuild.NewLuaBuilder(ctx, files, reporter)
			case modeCopy:
				builder = assetbuild.NewCopyBuilder(files, reporter)
			default:
				return eris.Errorf("unknown mode \"%s\"", mode)
			}

			*exitCode = assetbuild.Run(builder, args, reporter)
			logger.Debug("Build finished", "assets", len(args), "errors", reporter.Count())
			if !watch {
				return nil
			}

			copier := builder.(*assetbuild.CopyBuilder)
			if err := copier.Initialize(); err != nil {
				return err
			}
			w, err := assetbuild.NewWatcher(copier.AuthoredDir(), copier, logger)
			if err != nil {
				return err
			}
			return w.Run(ctx)
		},
		SilenceUsage: true,
	}
	cmd.Flags().StringVar(&mode, "mode", modeScript, "how assets are built: script or copy")
	cmd.Flags().BoolVar(&watch, "watch", false, "keep rebuilding authored assets as they change (copy mode)")
	return cmd
}
