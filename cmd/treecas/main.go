// Copyright © 2026 TreeCAS Authors

package main

import (
	"github.com/treecas/treecas/cmd/treecas/cmd"
)

func main() {
	cmd.Execute()
}
