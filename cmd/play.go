package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/lessonkit/internal/activity"
	"github.com/abhisek/lessonkit/internal/app"
	"github.com/abhisek/lessonkit/internal/screen"
	"github.com/abhisek/lessonkit/internal/screens/play"
	"github.com/abhisek/lessonkit/internal/screens/welcome"
	"github.com/abhisek/lessonkit/internal/session"
	"github.com/abhisek/lessonkit/internal/sessionlog"
)

var playCmd = &cobra.Command{
	Use:   "play <lesson-file>",
	Short: "Play a lesson in the terminal",
	Long: `Play a lesson config (.json, .yaml or .yml) interactively.

Every answer is recorded and the finished session is saved to the database.
Leaving a lesson early discards it.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := activity.LoadFile(args[0])
		if err != nil {
			return err
		}

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		noSave, _ := cmd.Flags().GetBool("no-save")
		opts := session.Options{}
		if !noSave {
			rec := sessionlog.NewRecorder(st.SessionRepo(), cfg.Title)
			opts.OnComplete = rec.OnComplete
		}

		// The session clock starts when the learner leaves the intro.
		intro := welcome.New(cfg, func() screen.Screen { return play.New(cfg, opts) })
		if err := app.Run(intro); err != nil {
			return fmt.Errorf("run lesson: %w", err)
		}
		return nil
	},
}

func init() {
	playCmd.Flags().Bool("no-save", false, "Do not save the finished session")
}
