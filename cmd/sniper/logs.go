package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/odvcencio/sniper/pkg/paths"
	"github.com/odvcencio/sniper/pkg/ui/replay"
)

func newLogsCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "List recorded sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogsList(cmd, opts)
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show <log>",
		Short: "Print the keys of a recorded session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogsShow(cmd, opts, args)
		},
	})
	return cmd
}

func runLogsList(cmd *cobra.Command, opts *rootOptions) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	cwd, _ := os.Getwd()
	dir := paths.Anchor(cfg.Recording.Dir, cwd)
	sessions, err := replay.ListSessions(dir)
	if err != nil {
		return err
	}

	out := newConsole(cmd, opts)
	if len(sessions) == 0 {
		out.Dim("no recorded sessions in %s", dir)
		return nil
	}

	out.Header("Recorded sessions")
	rows := make([][]string, 0, len(sessions))
	for _, s := range sessions {
		rows = append(rows, []string{
			s.ID,
			s.Started.Local().Format(time.DateTime),
			formatSize(s.Size),
		})
	}
	out.Table([]string{"SESSION", "STARTED", "SIZE"}, rows)
	out.Dim("%d sessions in %s", len(sessions), dir)
	return nil
}

func runLogsShow(cmd *cobra.Command, opts *rootOptions, args []string) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	path, err := resolveLog(cfg, false, args)
	if err != nil {
		return err
	}
	log, err := replay.Load(path)
	if err != nil {
		return err
	}

	out := newConsole(cmd, opts)
	out.Header("Session " + log.Session)
	out.Field("started", log.Started.Local().Format(time.DateTime))
	if log.Workdir != "" {
		out.Field("workdir", log.Workdir)
	}
	out.Field("events", fmt.Sprint(len(log.Events)))
	rows := make([][]string, len(log.Events))
	for i, ev := range log.Events {
		rows[i] = []string{fmt.Sprint(i + 1), ev.String()}
	}
	out.Table([]string{"#", "KEY"}, rows)
	return nil
}

func formatSize(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MiB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KiB", float64(n)/(1<<10))
	}
	return fmt.Sprintf("%d B", n)
}
