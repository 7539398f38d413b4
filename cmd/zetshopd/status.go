package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

func createStatusCommand(flags *GlobalFlags) *cobra.Command {
	var port int
	c := &cobra.Command{
		Use:   "status",
		Short: "Query a running daemon's /health endpoint",
		RunE: func(cmd *cobra.Command, args []string) error {
			if port == 0 {
				port = 8080
				if p, err := strconv.Atoi(os.Getenv("PORT")); err == nil && p > 0 {
					port = p
				}
			}
			return runStatus(cmd.OutOrStdout(), port)
		},
	}
	c.Flags().IntVar(&port, "port", 0, "health server port (default from PORT env, else 8080)")
	return c
}

func runStatus(out io.Writer, port int) error {
	client := &http.Client{Timeout: 35 * time.Second}
	resp, err := client.Get(fmt.Sprintf("http://127.0.0.1:%d/health", port))
	if err != nil {
		return fmt.Errorf("daemon unreachable: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	var payload map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return fmt.Errorf("decode health payload: %w", err)
	}
	pretty, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(out, string(pretty))
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("daemon reports degraded (HTTP %d)", resp.StatusCode)
	}
	return nil
}
