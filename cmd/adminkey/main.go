package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"jd-backend/internal/auth"
)

// adminkey prints a bcrypt hash for ADMIN_KEY_HASH. The key is read from -key or stdin.
func main() {
	key := flag.String("key", "", "admin key to hash (read from stdin when empty)")
	flag.Parse()

	if err := run(*key, os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "adminkey:", err)
		os.Exit(1)
	}
}

func run(key string, in io.Reader, out io.Writer) error {
	if key == "" {
		line, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("failed to read key: %w", err)
		}
		key = line
	}

	key = strings.TrimSpace(key)
	if key == "" {
		return errors.New("admin key must not be empty")
	}

	hash, err := auth.HashKey(key)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "ADMIN_KEY_HASH=%s\n", hash)
	return err
}
