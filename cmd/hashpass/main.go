package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Generates the bcrypt passphrase hash for the admin dashboard gate.
func main() {
	var pass string
	if len(os.Args) > 1 {
		pass = os.Args[1]
	} else {
		fmt.Fprint(os.Stderr, "passphrase: ")
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil {
			fmt.Fprintf(os.Stderr, "read passphrase: %v\n", err)
			os.Exit(1)
		}
		pass = strings.TrimSpace(line)
	}
	if pass == "" {
		fmt.Fprintln(os.Stderr, "empty passphrase")
		os.Exit(1)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(pass), bcrypt.DefaultCost)
	if err != nil {
		fmt.Fprintf(os.Stderr, "hash passphrase: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(hash))
}
