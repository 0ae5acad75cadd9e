package commands

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"
	"syscall"

	"golang.org/x/term"

	"github.com/klabast/wb-services/trash-calendar/internal/app"
)

// HashPassword handles the hash-password subcommand
func HashPassword(args []string) {
	fs := flag.NewFlagSet("hash-password", flag.ExitOnError)
	overwrite := fs.Bool("overwrite", false, "Overwrite existing auth file without asking")
	insecureUnmask := fs.Bool("insecure-unmask-password", false, "Show password as plain text (INSECURE!)")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: trash-calendar hash-password [OPTIONS]\n\n")
		fmt.Fprintf(os.Stderr, "Creates the auth file protecting edit mode (Argon2id).\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  AUTH_FILE    Path to auth file (default: auth.secret next to the binary)\n")
	}
	fs.Parse(args)

	path, err := app.AuthFilePath()
	if err != nil {
		fail("Error: %v", err)
	}

	stdin := bufio.NewReader(os.Stdin)

	fmt.Print("Enter username: ")
	username, err := readLine(stdin)
	if err != nil {
		fail("Error reading username: %v", err)
	}
	if username == "" {
		fail("Username cannot be empty")
	}

	var password, passwordConfirm string
	if *insecureUnmask {
		fmt.Fprintf(os.Stderr, "⚠️  WARNING: Password will be visible on screen!\n")
		fmt.Print("Enter password:   ")
		if password, err = readLine(stdin); err != nil {
			fail("Error reading password: %v", err)
		}
		fmt.Print("Confirm password: ")
		if passwordConfirm, err = readLine(stdin); err != nil {
			fail("Error reading password confirmation: %v", err)
		}
	} else {
		password = readPasswordWithMask("Enter password:   ")
		passwordConfirm = readPasswordWithMask("Confirm password: ")
	}

	if password == "" {
		fail("Password cannot be empty")
	}
	if password != passwordConfirm {
		fail("Passwords do not match")
	}

	confirm := func() bool {
		fmt.Printf("⚠️  %s already exists. Overwrite? [y/N]: ", path)
		answer, _ := readLine(stdin)
		return strings.EqualFold(answer, "y") || strings.EqualFold(answer, "yes")
	}

	if err := app.CreateAuthFile(path, username, password, *overwrite, confirm); err != nil {
		fail("Error: %v", err)
	}

	fmt.Printf("✅ Auth file created: %s\n", path)
	fmt.Println("   Start edit mode with: trash-calendar -edit")
}

func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func fail(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

// readPasswordWithMask reads a password in raw mode and echoes asterisks
func readPasswordWithMask(prompt string) string {
	fmt.Print(prompt)

	fd := int(syscall.Stdin)
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		// not a terminal, read without echo
		password, _ := term.ReadPassword(fd)
		fmt.Println()
		return string(password)
	}
	defer term.Restore(fd, oldState)

	var password []rune
	reader := bufio.NewReader(os.Stdin)
	for {
		char, _, err := reader.ReadRune()
		if err != nil {
			break
		}

		switch char {
		case '\n', '\r':
			fmt.Print("\r\n")
			return string(password)
		case 127, 8: // backspace
			if len(password) > 0 {
				password = password[:len(password)-1]
				fmt.Print("\b \b")
			}
		case 3: // Ctrl+C
			term.Restore(fd, oldState)
			fmt.Println()
			os.Exit(1)
		default:
			if char >= 32 && char != 127 {
				password = append(password, char)
				fmt.Print("*")
			}
		}
	}

	fmt.Print("\r\n")
	return string(password)
}
