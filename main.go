// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/mwtool/mwtool/cmd/mwtool"

func main() {
	cmd.Execute()
}
