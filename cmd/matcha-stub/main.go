// matcha-stub serves an in-memory stand-in for the Matcha backend, for
// developing the client without the real API.
package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/matcha-app/matcha-tui/internal/stub"
)

func main() {
	addr := flag.String("addr", ":3001", "listen address")
	count := flag.Int("profiles", 80, "seeded candidate profiles")
	flag.Parse()

	srv := stub.New(stub.SeedProfiles(*count))

	fmt.Printf("matcha stub listening on %s with %d profiles\n", *addr, *count)
	if err := http.ListenAndServe(*addr, srv.Routes()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
