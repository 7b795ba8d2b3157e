// Command vskema validates JSON and YAML documents against vskema schemas.
//
//	vskema validate --schema user.yaml user.json
//	vskema convert user.json -o user.yaml
//	vskema check user.yaml
//	vskema serve --schema user.yaml --addr :8080
//
// Exit status is 0 for valid input, 1 when validation fails and 2 for any
// other error.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, in io.Reader, out, errOut io.Writer) int {
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(in)
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	if err := cmd.Execute(); err != nil {
		if errors.Is(err, errInvalid) {
			return 1
		}
		fmt.Fprintln(errOut, "Error:", err)
		return 2
	}
	return 0
}
