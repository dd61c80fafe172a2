// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/nimbus-build/kickoff/cmd/kickoff"

func main() {
	cmd.Execute()
}
