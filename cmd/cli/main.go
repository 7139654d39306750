// userdirctl is a small administration client for the userdir HTTP API.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	serverURL string
	token     string
)

func main() {
	root := &cobra.Command{
		Use:           "userdirctl",
		Short:         "Administration client for the userdir service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&serverURL, "server", envOr("USERDIR_SERVER", "http://localhost:8080"), "base URL of the userdir server")
	root.PersistentFlags().StringVar(&token, "token", os.Getenv("USERDIR_TOKEN"), "bearer token (or USERDIR_TOKEN)")

	root.AddCommand(createCmd(), getCmd(), listCmd(), deleteCmd(), uploadCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func envOr(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
