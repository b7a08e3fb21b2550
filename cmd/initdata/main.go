// Command initdata prints a signed Telegram init-data string for local testing of
// POST /api/v1/users/auth. The bot token comes from -bot-token or BOT_TOKEN.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	tma "github.com/telegram-mini-apps/init-data-golang"

	"wishlist-backend/internal/features/auth/initdata"
)

func main() {
	botToken := flag.String("bot-token", os.Getenv("BOT_TOKEN"), "bot token used to sign the payload")
	id := flag.Int64("id", 100, "Telegram user id")
	firstName := flag.String("first-name", "Dev", "first name")
	lastName := flag.String("last-name", "", "last name")
	username := flag.String("username", "", "username without @")
	photoURL := flag.String("photo-url", "", "avatar url")
	age := flag.Duration("age", 0, "how old auth_date should be")
	flag.Parse()

	if *botToken == "" {
		fmt.Fprintln(os.Stderr, "bot token is required (-bot-token or BOT_TOKEN)")
		os.Exit(2)
	}

	user, err := json.Marshal(tma.User{
		ID:        *id,
		FirstName: *firstName,
		LastName:  *lastName,
		Username:  *username,
		PhotoURL:  *photoURL,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "encode user: %v\n", err)
		os.Exit(1)
	}

	values := url.Values{}
	values.Set("user", string(user))
	values.Set("auth_date", strconv.FormatInt(time.Now().Add(-*age).Unix(), 10))
	values.Set("query_id", "dev")
	values.Set("hash", initdata.Sign(values, *botToken))

	fmt.Println(values.Encode())
}
