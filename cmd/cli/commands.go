package main

import (
	"fmt"
	"mime"
	"net/url"
	"os"
	"path/filepath"
	"syscall"

	"github.com/dmitrijs2005/userdir/internal/server/models"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func createCmd() *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "create USERNAME ROLE",
		Short: "Create a user record (role: guest|user|superuser|globaladmin)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				var err error
				if password, err = promptPassword(); err != nil {
					return err
				}
			}

			var user models.User
			body := models.CreateUserRequest{Username: args[0], Role: args[1], Password: password}
			if err := doJSON("POST", serverURL+"/v1/users", body, &user); err != nil {
				return err
			}
			fmt.Printf("created %s (%s) role=%s\n", user.Username, user.UserID, user.Role)
			return nil
		},
	}

	cmd.Flags().StringVar(&password, "password", "", "password (prompted when omitted)")
	return cmd
}

func getCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get USER_ID",
		Short: "Fetch a single user record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var user models.User
			if err := doJSON("GET", serverURL+"/v1/users/"+url.PathEscape(args[0]), nil, &user); err != nil {
				return err
			}
			printUser(&user)
			return nil
		},
	}
}

func listCmd() *cobra.Command {
	var limit int
	var cursor string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List user records page by page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var page struct {
				Users            []models.User `json:"users"`
				Count            int           `json:"count"`
				LastEvaluatedKey string        `json:"lastEvaluatedKey"`
			}

			q := url.Values{}
			q.Set("limit", fmt.Sprint(limit))
			if cursor != "" {
				q.Set("lastEvaluatedKey", cursor)
			}
			if err := doJSON("GET", serverURL+"/v1/users?"+q.Encode(), nil, &page); err != nil {
				return err
			}

			for i := range page.Users {
				printUser(&page.Users[i])
			}
			if page.LastEvaluatedKey != "" {
				fmt.Printf("next page: --cursor %s\n", page.LastEvaluatedKey)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "page size (1-100)")
	cmd.Flags().StringVar(&cursor, "cursor", "", "continuation cursor from the previous page")
	return cmd
}

func deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete USER_ID",
		Short: "Delete a user record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp struct {
				Message string `json:"message"`
				UserID  string `json:"userId"`
			}
			if err := doJSON("DELETE", serverURL+"/v1/users/"+url.PathEscape(args[0]), nil, &resp); err != nil {
				return err
			}
			fmt.Printf("%s (%s)\n", resp.Message, resp.UserID)
			return nil
		},
	}
}

func uploadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "upload FILE",
		Short: "Upload a file under the caller's prefix",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			name := filepath.Base(args[0])
			contentType := mime.TypeByExtension(filepath.Ext(name))

			var resp struct {
				Message string `json:"message"`
				S3Key   string `json:"s3Key"`
				Size    int    `json:"size"`
			}
			if err := doUpload(serverURL+"/v1/files/"+url.PathEscape(name), contentType, data, &resp); err != nil {
				return err
			}
			fmt.Printf("%s: %s (%d bytes)\n", resp.Message, resp.S3Key, resp.Size)
			return nil
		},
	}
}

func printUser(u *models.User) {
	fmt.Printf("%s\t%s\t%s\tcreated=%d updated=%d\n", u.UserID, u.Username, u.Role, u.CreatedAt, u.UpdatedAt)
}

func promptPassword() (string, error) {
	fmt.Print("Password: ")
	pw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", err
	}
	if len(pw) == 0 {
		return "", fmt.Errorf("password cannot be empty")
	}
	return string(pw), nil
}
