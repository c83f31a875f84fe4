package utils

import (
	"fmt"
	"os"
	"strings"

	bettererrors "github.com/xtuc/better-errors"
	bettererrorstree "github.com/xtuc/better-errors/printer/tree"
)

const version = "0.1.0"

func GetVersion() string {
	return version
}

func printChain(title string, chain *bettererrors.Chain) {
	fmt.Printf("\n%s\n\n", title)
	fmt.Print(bettererrorstree.PrintChain(chain))
	fmt.Println("")
}

// FailWith prints the error chain under the invoking command line and exits.
// Errors that are not chains are programming mistakes and panic.
func FailWith(err error) {
	if !bettererrors.IsBetterError(err) {
		panic(err)
	}

	chain := bettererrors.
		New(strings.Join(os.Args, " ")).
		SetContext("version", GetVersion()).
		With(err)

	printChain("❌  robotworld stopped", chain)
	os.Exit(1)
}

func WarnWith(err error) {
	if chain, ok := err.(*bettererrors.Chain); ok {
		printChain("⚠️  Warning", chain)
		return
	}

	fmt.Println(err.Error())
}
