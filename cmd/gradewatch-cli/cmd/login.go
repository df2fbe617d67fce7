package cmd

import (
	"bufio"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"gradewatch-backend/lib/configutil"
	"gradewatch-backend/lib/scrapers/jwxt"
	"gradewatch-backend/services/gradewatch"
	gradewatchdb "gradewatch-backend/services/gradewatch/db"

	"github.com/spf13/cobra"
)

var (
	loginPassword *string
	loginToken    *string
	loginPlatform *string
)

func init() {
	loginPassword = loginCmd.Flags().String("password", "", "The portal password. Prompted for when omitted.")
	loginToken = loginCmd.Flags().String("token", "", "A delivery token to attach. An existing token is kept when omitted.")
	loginPlatform = loginCmd.Flags().String("platform", "", "The device platform a provided token belongs to.")
	rootCmd.AddCommand(loginCmd)
}

func promptLine(label string) (string, error) {
	fmt.Printf("%s: ", label)
	s := bufio.NewScanner(os.Stdin)
	if !s.Scan() {
		if err := s.Err(); err != nil {
			return "", err
		}
		return "", fmt.Errorf("stdin closed before %s was entered", label)
	}
	return s.Text(), nil
}

var loginCmd = &cobra.Command{
	Use:   "login <identity> <username>",
	Short: "Logs into the portal interactively and registers the session cookies under the given identity.",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		identity, username := args[0], args[1]

		config, err := configutil.ReadRecursively[Config]("config.json5")
		if err != nil {
			log.Fatal(fmt.Errorf("read config: %w", err))
		}
		database, err := config.Database.OpenDB(gradewatchdb.Schema)
		if err != nil {
			log.Fatal(fmt.Errorf("open database: %w", err))
		}
		store := gradewatch.NewStore(database)

		client, err := jwxt.NewLoginClient(cmd.Context(), jwxt.ClientOptions{
			BaseUrl: config.Site.BaseUrl,
		})
		if err != nil {
			log.Fatal(fmt.Errorf("open portal session: %w", err))
		}

		image, err := client.Captcha(cmd.Context())
		if err != nil {
			log.Fatal(fmt.Errorf("fetch captcha: %w", err))
		}
		captchaPath := filepath.Join(os.TempDir(), "gradewatch-captcha.jpg")
		err = os.WriteFile(captchaPath, image, 0644)
		if err != nil {
			log.Fatal(fmt.Errorf("write captcha image: %w", err))
		}
		fmt.Println("captcha image written to", captchaPath)

		password := *loginPassword
		if password == "" {
			password, err = promptLine("password")
			if err != nil {
				log.Fatal(err)
			}
		}
		captcha, err := promptLine("captcha code")
		if err != nil {
			log.Fatal(err)
		}

		err = client.Login(cmd.Context(), username, password, captcha)
		if err != nil {
			log.Fatal(err)
		}

		token := *loginToken
		if token == "" {
			existing, err := store.Get(cmd.Context(), identity)
			if err != nil && !errors.Is(err, sql.ErrNoRows) {
				log.Fatal(fmt.Errorf("load session %q: %w", identity, err))
			}
			token = existing.Token
		}

		err = store.Upsert(cmd.Context(), identity, token, client.Cookies(), *loginPlatform)
		if err != nil {
			log.Fatal(fmt.Errorf("save session: %w", err))
		}
		fmt.Println("session cookies registered for", identity)
	},
}
