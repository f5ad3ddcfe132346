// Command admin creates an administrator account. Run it once against the
// configured database; the password is read without echo.
package main

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/rentacat/rentacat/internal/server/auth"
	"github.com/rentacat/rentacat/internal/server/config"
	"github.com/rentacat/rentacat/internal/server/models"
	"github.com/rentacat/rentacat/internal/server/repositories/repomanager"
	"golang.org/x/term"
)

func getSimpleText(reader *bufio.Reader, prompt string) (string, error) {
	fmt.Println(prompt)
	text, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

func getPassword() ([]byte, error) {
	fmt.Println("Enter password")
	return term.ReadPassword(int(os.Stdin.Fd()))
}

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()

	reader := bufio.NewReader(os.Stdin)

	nom, err := getSimpleText(reader, "Enter last name (nom)")
	if err != nil {
		fmt.Println(err.Error())
		return
	}

	prenom, err := getSimpleText(reader, "Enter first name (prenom)")
	if err != nil {
		fmt.Println(err.Error())
		return
	}

	email, err := getSimpleText(reader, "Enter email")
	if err != nil {
		fmt.Println(err.Error())
		return
	}

	password, err := getPassword()
	if err != nil {
		fmt.Println(err.Error())
		return
	}

	hash, err := auth.HashPassword(string(password))
	if err != nil {
		fmt.Println(err.Error())
		return
	}

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		fmt.Println(err.Error())
		return
	}
	defer db.Close()

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		fmt.Println(err.Error())
		return
	}

	user, err := rm.Users(db).Create(ctx, &models.User{
		Nom:          nom,
		Prenom:       prenom,
		Email:        email,
		PasswordHash: hash,
		Admin:        true,
		Perso:        false,
	})
	if err != nil {
		fmt.Println(err.Error())
		return
	}

	fmt.Printf("Success! Created admin %s (id %d)\n", user.DisplayName(), user.ID)

}
