package utils

import (
	"fmt"
	"log"

	"github.com/ttacon/chalk"
)

func red(v ...interface{}) {
	fmt.Print(chalk.Red)
	log.Println(append(v, chalk.Reset)...)
}

// Check panics on err after printing msg.
func Check(err error, msg string) {
	if err == nil {
		return
	}

	red(msg)
	log.Panicln(err)
}

// Warn logs a recoverable failure in red and carries on.
func Warn(service string, err error) {
	if err == nil {
		return
	}

	red("["+service+"]", err.Error())
}
