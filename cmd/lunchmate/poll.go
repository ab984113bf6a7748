package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mroshb/lunchmate/internal/models"
	"github.com/mroshb/lunchmate/internal/poller"
	"github.com/spf13/cobra"
)

var (
	pollServer  string
	pollMaxWait time.Duration
)

var pollCmd = &cobra.Command{
	Use:   "poll",
	Short: "Follow a match request or a room on a running server",
}

var pollMatchCmd = &cobra.Command{
	Use:   "match <matchRequestId>",
	Short: "Poll a match request until it is matched or times out (Ctrl+C cancels it)",
	Args:  cobra.ExactArgs(1),
	RunE:  runPollMatch,
}

var pollRoomCmd = &cobra.Command{
	Use:   "room <roomId>",
	Short: "Print room occupancy until the room is deleted",
	Args:  cobra.ExactArgs(1),
	RunE:  runPollRoom,
}

func init() {
	pollCmd.PersistentFlags().StringVar(&pollServer, "server", "http://localhost:3001", "LunchMate server URL")
	pollMatchCmd.Flags().DurationVar(&pollMaxWait, "max-wait", 5*time.Minute, "Server match timeout, used for the countdown")

	pollCmd.AddCommand(pollMatchCmd)
	pollCmd.AddCommand(pollRoomCmd)
}

func runPollMatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	opts := poller.DefaultOptions()
	opts.MaxWait = pollMaxWait

	p := poller.New(poller.NewHTTPSource(pollServer), opts, func(u poller.Update) {
		if !u.Polled {
			return
		}
		st := u.Status
		fmt.Fprintf(out, "[%s] %s elapsed=%s remaining=%s level=%d waiting=%d\n",
			time.Now().Format("15:04:05"), st.Status, u.Elapsed, u.Remaining, st.RelaxationLevel, st.WaitingCount)
		if st.NewlyRelaxed && st.Notice != "" {
			fmt.Fprintln(out, "  ", st.Notice)
		}
	})

	result, err := p.Run(ctx, args[0])
	if errors.Is(err, context.Canceled) {
		fmt.Fprintln(out, "Match request cancelled")
		return nil
	}
	if err != nil {
		return err
	}

	switch result.Status {
	case models.MatchStatusMatched:
		fmt.Fprintf(out, "Matched! group=%s\n", result.GroupID)
	case models.MatchStatusTimeout:
		fmt.Fprintln(out, "No match found in time")
	default:
		fmt.Fprintln(out, "Match request no longer exists")
	}
	return nil
}

func runPollRoom(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	err := poller.WatchRoom(ctx, poller.NewHTTPSource(pollServer), args[0], poller.DefaultRoomInterval, func(r *models.Room) {
		if r == nil {
			fmt.Fprintln(out, "Room deleted")
			return
		}
		fmt.Fprintf(out, "[%s] %s %d/%d %s\n", time.Now().Format("15:04:05"), r.Title, len(r.Members), r.MaxCount, r.Status)
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
