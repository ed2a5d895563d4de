// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/droidforge/droidforge/cmd/droidforge"

func main() {
	cmd.Execute()
}
