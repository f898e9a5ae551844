package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/ttdash/internal/storage"
)

var (
	loginEmail    string
	loginPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to the runtime and store the session",
	Args:  cobra.NoArgs,
	RunE:  runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "End the session and forget the stored token",
	Args:  cobra.NoArgs,
	RunE:  runLogout,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged-in user",
	Args:  cobra.NoArgs,
	RunE:  runWhoami,
}

func init() {
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "Email; defaults to the remembered one")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "Password; read from TTDASH_PASSWORD or stdin when empty")
}

func runLogin(cmd *cobra.Command, args []string) error {
	a := loadApp()
	in := bufio.NewReader(os.Stdin)

	email := loginEmail
	if email == "" {
		email = a.prefs.Email
	}
	if email == "" {
		email = prompt(in, "Email: ")
	}
	password := loginPassword
	if password == "" {
		password = os.Getenv("TTDASH_PASSWORD")
	}
	if password == "" {
		password = prompt(in, "Password: ")
	}
	if email == "" || password == "" {
		usageError("Email and password are required.")
	}

	ctx := context.Background()
	sess, err := a.client.Login(ctx, email, password)
	if err != nil {
		fail(err)
	}
	if err := a.store.SaveSession(storage.Session{Token: a.client.Token(), User: sess.User}); err != nil {
		fail(err)
	}
	if err := a.store.UpdatePrefs(func(p *storage.Prefs) { p.Email = email }); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not remember email: %v\n", err)
	}

	fmt.Printf("Logged in as %s.\n", sess.User.DisplayName())
	return nil
}

func prompt(in *bufio.Reader, label string) string {
	fmt.Fprint(os.Stderr, label)
	line, _ := in.ReadString('\n')
	return strings.TrimSpace(line)
}

func runLogout(cmd *cobra.Command, args []string) error {
	a := loadApp()
	if a.sess == nil {
		fmt.Println("Not logged in.")
		return nil
	}
	if err := a.client.Logout(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: remote logout failed: %v\n", err)
	}
	if err := a.store.ClearSession(); err != nil {
		fail(err)
	}
	fmt.Println("Logged out.")
	return nil
}

func runWhoami(cmd *cobra.Command, args []string) error {
	a := loadApp()
	a.requireSession()

	u, err := a.client.CurrentUser(context.Background())
	if err != nil {
		if exitCode(err) == 1 {
			_ = a.store.ClearSession()
		}
		fail(err)
	}
	fmt.Printf("%s <%s>\n", u.DisplayName(), u.Email)
	fmt.Printf("  ID: %s\n", u.ID)
	return nil
}
