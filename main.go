// SPDX-License-Identifier: MPL-2.0

// Command justmyresource discovers resource packs and resolves resource names.
package main

import cmd "github.com/justmyresource/justmyresource/cmd/justmyresource"

func main() {
	cmd.Execute()
}
