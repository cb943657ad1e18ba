package auth

import (
	"fmt"
	"io"
	"strings"
)

// ShowAPIKeyGuide explains where to find a Danbooru API key
func ShowAPIKeyGuide(w io.Writer) {
	fmt.Fprintln(w, strings.Repeat("=", 72))
	fmt.Fprintln(w, "DANBOORU API KEY")
	fmt.Fprintln(w, strings.Repeat("=", 72))
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Anonymous requests work, but an account raises rate limits and")
	fmt.Fprintln(w, "lets the scraper see tags hidden from anonymous users.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  1. Log in at https://danbooru.donmai.us")
	fmt.Fprintln(w, "  2. Open My Account → API Key (/profile → \"View API keys\")")
	fmt.Fprintln(w, "  3. Create a key; read access to tags and wiki pages is enough")
	fmt.Fprintln(w, "  4. Enter your login name and the key below")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "The key is stored in the system keychain when available, otherwise")
	fmt.Fprintln(w, "in an encrypted file under your config directory.")
	fmt.Fprintln(w, strings.Repeat("=", 72))
	fmt.Fprintln(w)
}
