package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/lessonkit/internal/app"
	"github.com/abhisek/lessonkit/internal/screens/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse finished sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		return app.Run(history.New(st.SessionRepo()))
	},
}
