// Command bql is a short alias that execs boqloom with the same arguments.
package main

import (
	"fmt"
	"os"
	"os/exec"
	"syscall"
)

func main() {
	bin, err := exec.LookPath("boqloom")
	if err != nil {
		fmt.Fprintln(os.Stderr, "bql: boqloom not found on PATH")
		os.Exit(1)
	}
	if err := syscall.Exec(bin, append([]string{"boqloom"}, os.Args[1:]...), os.Environ()); err != nil {
		fmt.Fprintf(os.Stderr, "bql: %v\n", err)
		os.Exit(1)
	}
}
