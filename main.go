/*
The game's entry point. The graphics backend is picked at build time: OpenGL
by default, Vulkan with -tags vulkan.
*/
package main

import (
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/spaghettifunk/eae6320/engine"
	"github.com/spaghettifunk/eae6320/engine/core"
	"github.com/spaghettifunk/eae6320/engine/platform/desktop"
	"github.com/spaghettifunk/eae6320/testbed"
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
	var configPath string

	cmd := &cobra.Command{
		Use:   "eae6320",
		Short: "Runs the EAE6320 game",
		RunE: func(cmd *cobra.Command, args []string) error {
			fs := afero.NewOsFs()
			config, err := engine.LoadConfig(fs, configPath)
			if err != nil {
				return err
			}

			logger := core.NewLogger(fs, cmd.ErrOrStderr())
			e, err := engine.New(testbed.NewGame(),
				engine.WithConfig(config),
				engine.WithFs(fs),
				engine.WithLogger(logger),
				engine.WithWindowHost(desktop.NewHost(logger)),
				engine.WithBackend(newBackend(fs, logger)),
				engine.WithUserOutput(desktop.NewDialogs(config.Title(backendAPI))),
			)
			if err != nil {
				return err
			}
			*exitCode = e.Run()
			return nil
		},
		SilenceUsage: true,
	}
	cmd.Flags().StringVar(&configPath, "config", engine.DefaultConfigPath, "path to the engine configuration")
	return cmd
}
