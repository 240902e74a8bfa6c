package cmd

import (
	"github.com/spf13/cobra"

	"video-edit-worker/config"
	server2 "video-edit-worker/server"
)

func server(config *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "server",
		Short: "start the edit worker and http server",
		Run: func(cmd *cobra.Command, args []string) {
			server2.RunHttp(config)
		},
	}
}
