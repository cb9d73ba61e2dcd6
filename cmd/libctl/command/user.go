package command

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"library-backend/internal/domains/user"
	userRepo "library-backend/internal/domains/user/repository"
	userService "library-backend/internal/domains/user/service"
	"library-backend/internal/infrastructure/database"
	"library-backend/internal/shared"
	"library-backend/pkg/cache"
	"library-backend/pkg/hash"
)

// userCmd groups account management subcommands
var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage user accounts",
}

var userCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a user account",
	Long: `Create a user account directly in the database. The password is read
from a masked prompt, or from the first line of stdin when stdin is not a terminal.`,
	Example: `  libctl user create --username alice --email alice@example.com --role author`,
	RunE: func(cmd *cobra.Command, args []string) error {
		username, _ := cmd.Flags().GetString("username")
		email, _ := cmd.Flags().GetString("email")
		role, _ := cmd.Flags().GetString("role")

		password, err := readPassword(cmd.ErrOrStderr(), os.Stdin, "Password: ")
		if err != nil {
			return fmt.Errorf("read password: %w", err)
		}

		db := database.NewPostgresDB(cfg.Database)
		if err := db.Connect(cmd.Context()); err != nil {
			return err
		}
		defer db.Close()

		svc := userService.NewUserService(userService.Deps{
			Repo:   userRepo.NewPostgresRepository(db.Pool, cache.NewMemoryCache()),
			Hasher: hash.NewBcryptHasher(cfg.Security.BcryptCost),
		})

		created, err := svc.Register(cmd.Context(), user.RegisterRequest{
			Username: username,
			Email:    email,
			Password: password,
			Role:     shared.Role(role),
		})
		if err != nil {
			return fmt.Errorf("create user: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), "✓ User created")
		fmt.Fprintf(cmd.OutOrStdout(), "ID:   %s\nRole: %s\n", created.ID, created.Role)
		return nil
	},
}

func init() {
	userCreateCmd.Flags().String("username", "", "login name (3-50 chars, letters, digits, underscore)")
	userCreateCmd.Flags().String("email", "", "email address")
	userCreateCmd.Flags().String("role", string(shared.RoleReader), "reader or author")
	_ = userCreateCmd.MarkFlagRequired("username")
	_ = userCreateCmd.MarkFlagRequired("email")

	userCmd.AddCommand(userCreateCmd)
}

// readPassword dùng masked prompt khi stdin là terminal, nếu không thì đọc một dòng
func readPassword(prompt io.Writer, in *os.File, label string) (string, error) {
	fd := int(in.Fd())
	if term.IsTerminal(fd) {
		fmt.Fprint(prompt, label)
		b, err := term.ReadPassword(fd)
		fmt.Fprintln(prompt)
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(b)), nil
	}
	return readLine(in)
}

func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return "", fmt.Errorf("empty password")
	}
	return line, nil
}
