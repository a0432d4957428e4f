package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/oarkflow/textrank/loader"
)

// readInput returns the text named by arg: stdin for "" or "-", a fetched page for
// http(s) URLs, and a parsed document for anything else.
func readInput(ctx context.Context, ld *loader.Loader, arg string, stdin io.Reader) (string, error) {
	switch {
	case arg == "" || arg == "-":
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return ld.Load(ctx, loader.Source{Name: "stdin.txt", Data: data})
	case strings.HasPrefix(arg, "http://"), strings.HasPrefix(arg, "https://"):
		return ld.Fetch(ctx, arg)
	}
	data, err := os.ReadFile(arg)
	if err != nil {
		return "", err
	}
	return ld.Load(ctx, loader.Source{Name: arg, Data: data})
}
